package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

type VoteRepository interface {
	// CastVote applies the toggle rules for one voter atomically and returns
	// the recounted tally.
	CastVote(ctx context.Context, projectID, userID uuid.UUID, direction domain.Direction) (domain.Tally, error)
	GetUserVote(ctx context.Context, projectID, userID uuid.UUID) (domain.Direction, error)
	GetUserVotes(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]domain.Direction, error)
}

type VoteInput struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Direction domain.Direction
}

type VoteService interface {
	Vote(ctx context.Context, input VoteInput) (domain.Tally, error)
}
