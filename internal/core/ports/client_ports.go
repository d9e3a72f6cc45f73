package ports

import (
	"context"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

// VoteClient sends a single vote to the remote authority. The returned state
// is the server's view after the vote was applied.
type VoteClient interface {
	CastVote(ctx context.Context, entityID string, direction domain.Direction) (domain.VoteState, error)
}

// StateCache is the shared store every view of an entity reads from.
// ApplyVoteState is its only vote writer.
//
// The reconcile engine calls ApplyVoteState while holding its own lock.
// Anything ApplyVoteState triggers synchronously, such as subscriber
// callbacks, may read the cache or Engine.State but must not call
// Engine.Vote, Engine.Flush or Engine.Close on the calling goroutine; hand
// those off to another goroutine instead.
type StateCache interface {
	State(entityID string) (domain.VoteState, bool)
	ApplyVoteState(state domain.VoteState) int
}

type Notifier interface {
	Notify(n domain.Notification)
}

type Session interface {
	Authenticated() bool
}
