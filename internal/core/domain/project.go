package domain

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Upvotes     int       `json:"upvotes"`
	Downvotes   int       `json:"downvotes"`
	VoteCount   int       `json:"voteCount"`
	UserVote    Direction `json:"user_vote"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Project) VoteState() VoteState {
	return VoteState{
		EntityID:  p.ID.String(),
		Direction: p.UserVote,
		UpCount:   p.Upvotes,
		DownCount: p.Downvotes,
		Score:     p.Upvotes - p.Downvotes,
	}
}

// ApplyVoteState overwrites the vote fields and leaves everything else alone.
func (p *Project) ApplyVoteState(s VoteState) {
	p.UserVote = s.Direction
	p.Upvotes = s.UpCount
	p.Downvotes = s.DownCount
	p.VoteCount = s.UpCount - s.DownCount
}
