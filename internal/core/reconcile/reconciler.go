package reconcile

import (
	"context"
	"errors"
	"strings"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

var duplicateMarkers = []string{"duplicate", "unique constraint"}

// IsDuplicateVote reports whether err means the server already holds the
// vote being sent.
func IsDuplicateVote(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrDuplicateVote) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

type outcome struct {
	reconciled   *domain.VoteState
	notification *domain.Notification
}

// send performs req and any request queued behind it. It runs on the timer
// goroutine and never holds e.mu while waiting on the network.
func (e *Engine) send(req request) {
	for {
		state, err := e.castVote(req)

		out, next, ok := e.reconcile(req, state, err)
		e.wg.Done()

		if out.notification != nil && e.notifier != nil {
			e.notifier.Notify(*out.notification)
		}
		if out.reconciled != nil && e.onReconciled != nil {
			e.onReconciled(*out.reconciled)
		}

		if !ok {
			return
		}
		req = next
	}
}

func (e *Engine) castVote(req request) (domain.VoteState, error) {
	ctx := context.Background()
	if e.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.requestTimeout)
		defer cancel()
	}

	e.logger.Debug("sending vote", "entity_id", req.entityID, "direction", req.direction.String())
	return e.client.CastVote(ctx, req.entityID, req.direction)
}

// reconcile applies the result of req and dispatches whatever was queued
// behind it.
func (e *Engine) reconcile(req request, state domain.VoteState, err error) (outcome, request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out outcome
	ent := e.entities[req.entityID]
	ent.inFlight = false
	display := e.ordering == LastResponseWins || !ent.busy()

	switch {
	case err == nil:
		state.EntityID = req.entityID
		state = state.Normalize()
		ent.confirmed = state
		if display {
			e.cache.ApplyVoteState(state)
		}
		out.reconciled = &state
		e.logger.Debug("vote confirmed",
			"entity_id", req.entityID,
			"direction", state.Direction.String(),
			"upvotes", state.UpCount,
			"downvotes", state.DownCount,
		)

	case IsDuplicateVote(err):
		ent.confirmed = req.predicted
		if display {
			e.cache.ApplyVoteState(req.predicted)
		}
		e.logger.Info("duplicate vote ignored", "entity_id", req.entityID, "error", err)

	default:
		snapshot := req.action.SnapshotBeforeGesture
		if display {
			e.cache.ApplyVoteState(snapshot)
		}
		if ent.pending != nil {
			ent.pending.SnapshotBeforeGesture = snapshot
		}
		if ent.queued != nil {
			ent.queued.SnapshotBeforeGesture = snapshot
		}
		out.notification = &domain.Notification{
			EntityID: req.entityID,
			Title:    "Error",
			Message:  "Failed to vote",
			Err:      err,
		}
		e.logger.Warn("vote failed, rolled back", "entity_id", req.entityID, "error", err)
	}

	if ent.queued != nil {
		action := *ent.queued
		ent.queued = nil
		next, ok := e.dispatch(req.entityID, ent, action)
		return out, next, ok
	}

	e.release(req.entityID, ent)
	return out, request{}, false
}
