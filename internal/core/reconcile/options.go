package reconcile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

const DefaultDebounce = 500 * time.Millisecond

// Ordering decides what is displayed when a response arrives while the
// viewer has already started another gesture on the same entity.
type Ordering int

const (
	// LastResponseWins writes every response to the cache as it arrives,
	// even if a newer optimistic prediction is on screen.
	LastResponseWins Ordering = iota
	// LastGestureWins records the response as confirmed but leaves a newer
	// prediction on screen until its own request settles.
	LastGestureWins
)

func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "last-response-wins":
		return LastResponseWins, nil
	case "last-gesture-wins":
		return LastGestureWins, nil
	}
	return LastResponseWins, fmt.Errorf("unknown vote ordering %q", s)
}

func (o Ordering) String() string {
	if o == LastGestureWins {
		return "last-gesture-wins"
	}
	return "last-response-wins"
}

type Option func(*Engine)

func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// WithRequestTimeout bounds each vote request. Zero leaves the timeout to
// the transport.
func WithRequestTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.requestTimeout = d
	}
}

func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

func WithSession(s ports.Session) Option {
	return func(e *Engine) {
		e.session = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithOrdering(o Ordering) Option {
	return func(e *Engine) {
		e.ordering = o
	}
}

// WithAfterFunc replaces the scheduler used for debounce timers.
func WithAfterFunc(f AfterFunc) Option {
	return func(e *Engine) {
		if f != nil {
			e.afterFunc = f
		}
	}
}

// WithOnReconciled registers a callback invoked with the server state after
// every successful vote.
func WithOnReconciled(fn func(domain.VoteState)) Option {
	return func(e *Engine) {
		e.onReconciled = fn
	}
}
