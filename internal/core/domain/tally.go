package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tally is the authoritative vote summary of a project as seen by one viewer.
// Its JSON form is the body returned by the vote endpoint.
type Tally struct {
	ProjectID     uuid.UUID `json:"-"`
	Upvotes       int       `json:"upvotes"`
	Downvotes     int       `json:"downvotes"`
	VoteCount     int       `json:"voteCount"`
	UserVote      Direction `json:"user_vote"`
	LastUpdatedAt time.Time `json:"-"`
}

func NewTally(projectID uuid.UUID, up, down int, userVote Direction) Tally {
	return Tally{
		ProjectID: projectID,
		Upvotes:   up,
		Downvotes: down,
		VoteCount: up - down,
		UserVote:  userVote,
	}
}

func (t Tally) VoteState(entityID string) VoteState {
	return VoteState{
		EntityID:  entityID,
		Direction: t.UserVote,
		UpCount:   t.Upvotes,
		DownCount: t.Downvotes,
		Score:     t.Upvotes - t.Downvotes,
	}
}
