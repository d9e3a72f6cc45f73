package reconcile

import "github.com/vncsmyrnk/votesync/internal/core/domain"

// Project predicts the state after the viewer clicks requested on current.
// Clicking the active direction removes the vote, clicking the other one
// switches it, and clicking with no vote casts a new one. Counts never drop
// below zero.
func Project(current domain.VoteState, requested domain.Direction) domain.VoteState {
	if !requested.Valid() {
		return current
	}

	next := current
	switch {
	case current.Direction == requested:
		next.Direction = domain.DirectionNone
		next = adjust(next, requested, -1)
	case current.Direction != domain.DirectionNone:
		next = adjust(next, current.Direction, -1)
		next = adjust(next, requested, 1)
		next.Direction = requested
	default:
		next = adjust(next, requested, 1)
		next.Direction = requested
	}

	return next.Normalize()
}

func adjust(s domain.VoteState, d domain.Direction, delta int) domain.VoteState {
	switch d {
	case domain.DirectionUp:
		s.UpCount = max(s.UpCount+delta, 0)
	case domain.DirectionDown:
		s.DownCount = max(s.DownCount+delta, 0)
	}
	return s
}
