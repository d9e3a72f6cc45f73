package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

type manualTimer struct {
	mu      sync.Mutex
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (t *manualTimer) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.fired = true
	return true
}

// manualScheduler runs debounce callbacks only when the test advances it.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
	delays []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

// Advance fires every timer that is scheduled and not stopped.
func (s *manualScheduler) Advance() {
	s.mu.Lock()
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()

	for _, t := range timers {
		if t.claim() {
			t.f()
		}
	}
}

func (s *manualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

type mapCache struct {
	mu     sync.Mutex
	states map[string]domain.VoteState
	writes int
}

func newMapCache(seed ...domain.VoteState) *mapCache {
	c := &mapCache{states: make(map[string]domain.VoteState)}
	for _, s := range seed {
		c.states[s.EntityID] = s
	}
	return c
}

func (c *mapCache) State(entityID string) (domain.VoteState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[entityID]
	return s, ok
}

func (c *mapCache) ApplyVoteState(state domain.VoteState) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[state.EntityID] = state
	c.writes++
	return 1
}

func (c *mapCache) get(entityID string) domain.VoteState {
	s, _ := c.State(entityID)
	return s
}

type sentVote struct {
	EntityID  string
	Direction domain.Direction
}

// fakeServer applies the toggle rules for a single viewer, like the real
// backend, and can be told to fail.
type fakeServer struct {
	mu     sync.Mutex
	states map[string]domain.VoteState
	sent   []sentVote
	err    error
}

func newFakeServer(seed ...domain.VoteState) *fakeServer {
	s := &fakeServer{states: make(map[string]domain.VoteState)}
	for _, st := range seed {
		s.states[st.EntityID] = st
	}
	return s
}

func (s *fakeServer) CastVote(ctx context.Context, entityID string, direction domain.Direction) (domain.VoteState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, sentVote{EntityID: entityID, Direction: direction})
	if s.err != nil {
		return domain.VoteState{}, s.err
	}

	current, ok := s.states[entityID]
	if !ok {
		current = domain.NewVoteState(entityID)
	}
	next := Project(current, direction)
	s.states[entityID] = next
	return next, nil
}

func (s *fakeServer) setState(state domain.VoteState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.EntityID] = state
}

func (s *fakeServer) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeServer) requests() []sentVote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentVote(nil), s.sent...)
}

type reply struct {
	state domain.VoteState
	err   error
}

// blockingClient hands every request to the test and waits for its reply.
type blockingClient struct {
	calls    chan sentVote
	replies  chan reply
	mu       sync.Mutex
	inFlight int
	maxSeen  int
}

func newBlockingClient() *blockingClient {
	return &blockingClient{
		calls:   make(chan sentVote, 8),
		replies: make(chan reply),
	}
}

func (c *blockingClient) CastVote(ctx context.Context, entityID string, direction domain.Direction) (domain.VoteState, error) {
	c.mu.Lock()
	c.inFlight++
	c.maxSeen = max(c.maxSeen, c.inFlight)
	c.mu.Unlock()

	c.calls <- sentVote{EntityID: entityID, Direction: direction}
	r := <-c.replies

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
	return r.state, r.err
}

func (c *blockingClient) maxConcurrent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSeen
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (n *recordingNotifier) Notify(note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) all() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.notes...)
}

type staticSession bool

func (s staticSession) Authenticated() bool { return bool(s) }

func state(id string, d domain.Direction, up, down int) domain.VoteState {
	return domain.VoteState{EntityID: id, Direction: d, UpCount: up, DownCount: down, Score: up - down}
}
