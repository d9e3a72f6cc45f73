package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

// Writer prints notifications as one-line toasts.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

var _ ports.Notifier = (*Writer)(nil)

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Notify(note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s (%s)\n", note.Title, note.Message, note.EntityID)
}

// Log records notifications in the structured log.
type Log struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*Log)(nil)

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (n *Log) Notify(note domain.Notification) {
	n.logger.Error(note.Message,
		"title", note.Title,
		"entity_id", note.EntityID,
		"error", note.Err,
	)
}

// Multi fans a notification out to several notifiers.
type Multi []ports.Notifier

func (m Multi) Notify(note domain.Notification) {
	for _, n := range m {
		n.Notify(note)
	}
}
