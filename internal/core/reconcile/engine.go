package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

// Engine coordinates votes for any number of entities against one remote
// authority. All entities share the cache, the client and the debounce
// window, but each entity has its own gesture and at most one request in
// flight.
//
// The engine writes to the cache while holding its lock. See
// ports.StateCache for what that means for subscribers.
type Engine struct {
	client       ports.VoteClient
	cache        ports.StateCache
	notifier     ports.Notifier
	session      ports.Session
	logger       *slog.Logger
	afterFunc    AfterFunc
	onReconciled func(domain.VoteState)

	debounce       time.Duration
	requestTimeout time.Duration
	ordering       Ordering

	mu       sync.Mutex
	entities map[string]*entity
	gen      uint64
	closed   bool
	wg       sync.WaitGroup
}

// PendingAction is the intent accumulated during one debounce window.
// Prediction is the state the last click of the window put on screen.
type PendingAction struct {
	FinalDirection        domain.Direction
	SnapshotBeforeGesture domain.VoteState
	Prediction            domain.VoteState
}

type entity struct {
	confirmed domain.VoteState
	pending   *PendingAction
	timer     Timer
	gen       uint64
	inFlight  bool
	queued    *PendingAction
}

func (ent *entity) busy() bool {
	return ent.pending != nil || ent.queued != nil
}

func (ent *entity) idle() bool {
	return !ent.busy() && !ent.inFlight
}

func New(client ports.VoteClient, cache ports.StateCache, opts ...Option) *Engine {
	e := &Engine{
		client:    client,
		cache:     cache,
		logger:    slog.Default(),
		afterFunc: systemAfterFunc,
		debounce:  DefaultDebounce,
		entities:  make(map[string]*entity),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Vote handles one click. The predicted state is written to the cache and
// returned right away; the request is sent once the debounce window closes.
func (e *Engine) Vote(ctx context.Context, entityID string, requested domain.Direction) (domain.VoteState, error) {
	if entityID == "" {
		return domain.VoteState{}, domain.ErrInvalidEntityID
	}
	if !requested.Valid() {
		return domain.VoteState{}, domain.ErrInvalidDirection
	}
	if e.session != nil && !e.session.Authenticated() {
		return domain.VoteState{}, domain.ErrUnauthenticated
	}
	if err := ctx.Err(); err != nil {
		return domain.VoteState{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.VoteState{}, domain.ErrEngineClosed
	}

	current := e.displayed(entityID)
	ent := e.track(entityID, current)
	if ent.pending == nil {
		ent.pending = &PendingAction{SnapshotBeforeGesture: current}
	}

	next := Project(current, requested)
	ent.pending.FinalDirection = next.Direction
	ent.pending.Prediction = next
	e.cache.ApplyVoteState(next)
	e.schedule(entityID, ent)

	e.logger.Debug("optimistic vote applied",
		"entity_id", entityID,
		"requested", requested.String(),
		"direction", next.Direction.String(),
		"score", next.Score,
	)

	return next, nil
}

// State returns what the views currently display for entityID.
func (e *Engine) State(entityID string) domain.VoteState {
	return e.displayed(entityID)
}

// Flush closes the debounce window of entityID now. The request runs on the
// calling goroutine unless another one is in flight, in which case it is
// queued behind it.
func (e *Engine) Flush(entityID string) {
	e.mu.Lock()
	ent, ok := e.entities[entityID]
	if !ok || ent.pending == nil {
		e.mu.Unlock()
		return
	}
	if ent.timer != nil {
		ent.timer.Stop()
	}
	gen := ent.gen
	e.mu.Unlock()

	e.fire(entityID, gen)
}

// Close rejects further votes, sends every pending intent and waits for all
// requests in flight.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	var ids []string
	for id, ent := range e.entities {
		if ent.pending != nil {
			ids = append(ids, id)
		}
	}
	e.mu.Unlock()

	for _, id := range ids {
		e.Flush(id)
	}
	e.wg.Wait()
}

func (e *Engine) displayed(entityID string) domain.VoteState {
	if s, ok := e.cache.State(entityID); ok {
		s.EntityID = entityID
		return s
	}
	return domain.NewVoteState(entityID)
}

// track returns the bookkeeping for entityID. An idle entity is not kept, so
// a fresh gesture always starts from what the cache holds, which includes
// any refetch since the last vote.
func (e *Engine) track(entityID string, current domain.VoteState) *entity {
	ent, ok := e.entities[entityID]
	if !ok {
		ent = &entity{confirmed: current}
		e.entities[entityID] = ent
	}
	return ent
}

func (e *Engine) release(entityID string, ent *entity) {
	if ent.idle() {
		delete(e.entities, entityID)
	}
}
