package cache

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

// Store holds every client-side view of projects: single project pages and
// any number of named feeds. Vote fields are written only via
// ApplyVoteState, which updates every copy of the entity at once.
type Store struct {
	mu      sync.RWMutex
	votes   map[string]domain.VoteState
	details map[string]domain.Project
	lists   map[string][]domain.Project
	subs    map[string]map[uint64]func(domain.VoteState)
	nextSub uint64
	logger  *slog.Logger
}

var _ ports.StateCache = (*Store)(nil)

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		votes:   make(map[string]domain.VoteState),
		details: make(map[string]domain.Project),
		lists:   make(map[string][]domain.Project),
		subs:    make(map[string]map[uint64]func(domain.VoteState)),
		logger:  logger,
	}
}

// PutDetail stores a freshly fetched project page.
func (s *Store) PutDetail(p domain.Project) {
	state := p.VoteState()

	s.mu.Lock()
	s.details[state.EntityID] = p
	s.votes[state.EntityID] = state
	subs := s.subscribers(state.EntityID)
	s.mu.Unlock()

	publish(subs, state)
}

// PutList replaces the feed stored under key.
func (s *Store) PutList(key string, projects []domain.Project) {
	items := slices.Clone(projects)
	states := make([]domain.VoteState, 0, len(items))

	s.mu.Lock()
	s.lists[key] = items
	for _, p := range items {
		state := p.VoteState()
		s.votes[state.EntityID] = state
		states = append(states, state)
	}
	pending := make([][]func(domain.VoteState), len(states))
	for i, st := range states {
		pending[i] = s.subscribers(st.EntityID)
	}
	s.mu.Unlock()

	for i, st := range states {
		publish(pending[i], st)
	}
}

func (s *Store) Detail(entityID string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.details[entityID]
	return p, ok
}

func (s *Store) List(key string) []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lists[key])
}

func (s *Store) ListKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.lists))
	for k := range s.lists {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Store) State(entityID string) (domain.VoteState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.votes[entityID]
	return state, ok
}

// ApplyVoteState writes state to the entity's vote record, its detail page
// and every feed that contains it. It returns the number of views updated.
func (s *Store) ApplyVoteState(state domain.VoteState) int {
	s.mu.Lock()
	s.votes[state.EntityID] = state

	written := 0
	if p, ok := s.details[state.EntityID]; ok {
		p.ApplyVoteState(state)
		s.details[state.EntityID] = p
		written++
	}
	for _, items := range s.lists {
		for i := range items {
			if items[i].ID.String() == state.EntityID {
				items[i].ApplyVoteState(state)
				written++
			}
		}
	}
	subs := s.subscribers(state.EntityID)
	s.mu.Unlock()

	s.logger.Debug("vote state propagated",
		"entity_id", state.EntityID,
		"direction", state.Direction.String(),
		"views", written,
	)
	publish(subs, state)
	return written
}

// Subscribe calls fn after every write that touches entityID until the
// returned function is called.
func (s *Store) Subscribe(entityID string, fn func(domain.VoteState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	if s.subs[entityID] == nil {
		s.subs[entityID] = make(map[uint64]func(domain.VoteState))
	}
	s.subs[entityID][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[entityID], id)
		if len(s.subs[entityID]) == 0 {
			delete(s.subs, entityID)
		}
	}
}

func (s *Store) subscribers(entityID string) []func(domain.VoteState) {
	fns := make([]func(domain.VoteState), 0, len(s.subs[entityID]))
	for _, fn := range s.subs[entityID] {
		fns = append(fns, fn)
	}
	return fns
}

func publish(fns []func(domain.VoteState), state domain.VoteState) {
	for _, fn := range fns {
		fn(state)
	}
}
