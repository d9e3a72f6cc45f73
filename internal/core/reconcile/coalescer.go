package reconcile

import "github.com/vncsmyrnk/votesync/internal/core/domain"

type request struct {
	entityID  string
	direction domain.Direction
	action    PendingAction
	// predicted is what the gesture displayed; a duplicate reply confirms it.
	predicted domain.VoteState
}

// schedule restarts the debounce window of ent. Callers hold e.mu.
func (e *Engine) schedule(entityID string, ent *entity) {
	if ent.timer != nil {
		ent.timer.Stop()
	}

	e.gen++
	gen := e.gen
	ent.gen = gen
	ent.timer = e.afterFunc(e.debounce, func() {
		e.fire(entityID, gen)
	})
}

// fire closes a debounce window. A timer that was stopped after it already
// started running carries an old generation and is ignored.
func (e *Engine) fire(entityID string, gen uint64) {
	e.mu.Lock()
	ent, ok := e.entities[entityID]
	if !ok || ent.gen != gen || ent.pending == nil {
		e.mu.Unlock()
		return
	}

	action := *ent.pending
	ent.pending = nil
	ent.timer = nil

	if ent.inFlight {
		if ent.queued != nil {
			action.SnapshotBeforeGesture = ent.queued.SnapshotBeforeGesture
		}
		ent.queued = &action
		e.mu.Unlock()
		e.logger.Debug("vote queued behind request in flight", "entity_id", entityID)
		return
	}

	req, ok := e.dispatch(entityID, ent, action)
	e.mu.Unlock()

	if ok {
		e.send(req)
	}
}

// dispatch turns a closed window into a request, or settles it without one
// when the intent matches what the server already has. Callers hold e.mu.
func (e *Engine) dispatch(entityID string, ent *entity, action PendingAction) (request, bool) {
	if action.FinalDirection == ent.confirmed.Direction {
		if ent.pending == nil {
			e.cache.ApplyVoteState(ent.confirmed)
		}
		e.release(entityID, ent)
		e.logger.Debug("vote unchanged, request skipped",
			"entity_id", entityID,
			"direction", action.FinalDirection.String(),
		)
		return request{}, false
	}

	// The server removes a vote when the existing direction is sent again.
	wire := action.FinalDirection
	if wire == domain.DirectionNone {
		wire = ent.confirmed.Direction
	}

	ent.inFlight = true
	e.wg.Add(1)

	return request{
		entityID:  entityID,
		direction: wire,
		action:    action,
		predicted: action.Prediction,
	}, true
}
