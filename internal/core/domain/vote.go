package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Direction is the viewer's vote on an entity. The zero value means no vote.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	case "", "none", "null":
		return DirectionNone, nil
	}
	return DirectionNone, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// DirectionFromValue maps the stored vote value (+1, -1) back to a direction.
func DirectionFromValue(v int) Direction {
	switch {
	case v > 0:
		return DirectionUp
	case v < 0:
		return DirectionDown
	}
	return DirectionNone
}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	}
	return "none"
}

func (d Direction) Value() int {
	switch d {
	case DirectionUp:
		return 1
	case DirectionDown:
		return -1
	}
	return 0
}

// Valid reports whether d can be sent as a vote.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

func (d Direction) MarshalJSON() ([]byte, error) {
	if d == DirectionNone {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = DirectionNone
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDirection, data)
	}

	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Vote struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Direction Direction `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteState is the locally displayed vote information for one entity.
type VoteState struct {
	EntityID  string    `json:"entityId"`
	Direction Direction `json:"direction"`
	UpCount   int       `json:"upvotes"`
	DownCount int       `json:"downvotes"`
	Score     int       `json:"score"`
}

func NewVoteState(entityID string) VoteState {
	return VoteState{EntityID: entityID}
}

// Normalize floors both counts at zero and recomputes the score.
func (s VoteState) Normalize() VoteState {
	s.UpCount = max(s.UpCount, 0)
	s.DownCount = max(s.DownCount, 0)
	s.Score = s.UpCount - s.DownCount
	return s
}
