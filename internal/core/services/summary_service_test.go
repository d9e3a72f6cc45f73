package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/votesync/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

var errConnectionLost = errors.New("connection lost")

type recordingTallyRepo struct {
	mu      sync.Mutex
	seen    []uuid.UUID
	failFor map[uuid.UUID]bool
}

func (r *recordingTallyRepo) SummarizeVotes(ctx context.Context, projectID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, projectID)
	if r.failFor[projectID] {
		return errConnectionLost
	}
	return nil
}

func TestSummarizeAllVotes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	projects := NewProjectService(store, store)

	var ids []uuid.UUID
	for _, title := range []string{"Kiln", "Loom", "Forge"} {
		p, err := projects.Create(ctx, ports.CreateProjectInput{Title: title})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	repo := &recordingTallyRepo{}
	require.NoError(t, NewSummaryService(store, repo).SummarizeAllVotes(ctx))
	assert.ElementsMatch(t, ids, repo.seen)

	repo = &recordingTallyRepo{failFor: map[uuid.UUID]bool{ids[0]: true, ids[2]: true}}
	err := NewSummaryService(store, repo).SummarizeAllVotes(ctx)
	require.ErrorIs(t, err, errConnectionLost)
	assert.Contains(t, err.Error(), ids[0].String())
	assert.Contains(t, err.Error(), ids[2].String())
	assert.NotContains(t, err.Error(), ids[1].String())
	assert.ElementsMatch(t, ids, repo.seen)
}

func TestSummarizeAllVotesStopsWhenCanceled(t *testing.T) {
	store := memory.NewStore()
	projects := NewProjectService(store, store)
	for _, title := range []string{"Kiln", "Loom"} {
		_, err := projects.Create(context.Background(), ports.CreateProjectInput{Title: title})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &recordingTallyRepo{}
	err := NewSummaryService(store, repo).SummarizeAllVotes(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, repo.seen)
}

func TestSummarizeAllVotesWithMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	projects := NewProjectService(store, store)

	p, err := projects.Create(ctx, ports.CreateProjectInput{Title: "Cargo bike"})
	require.NoError(t, err)
	_, err = store.CastVote(ctx, p.ID, uuid.New(), domain.DirectionUp)
	require.NoError(t, err)

	require.NoError(t, NewSummaryService(store, store).SummarizeAllVotes(ctx))

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
}
