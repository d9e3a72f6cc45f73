package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

func seedProject(t *testing.T, s *Store, title string) uuid.UUID {
	t.Helper()
	p := &domain.Project{ID: uuid.New(), Title: title}
	require.NoError(t, s.Save(context.Background(), p))
	return p.ID
}

func TestCastVoteToggleRules(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id := seedProject(t, s, "Solar oven")
	user := uuid.New()

	tally, err := s.CastVote(ctx, id, user, domain.DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, domain.NewTally(id, 1, 0, domain.DirectionUp), tally)

	tally, err = s.CastVote(ctx, id, user, domain.DirectionDown)
	require.NoError(t, err)
	assert.Equal(t, domain.NewTally(id, 0, 1, domain.DirectionDown), tally)

	tally, err = s.CastVote(ctx, id, user, domain.DirectionDown)
	require.NoError(t, err)
	assert.Equal(t, domain.NewTally(id, 0, 0, domain.DirectionNone), tally)

	dir, err := s.GetUserVote(ctx, id, user)
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionNone, dir)
}

func TestCastVoteErrors(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.CastVote(ctx, uuid.New(), uuid.New(), domain.DirectionUp)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	id := seedProject(t, s, "Bee hotel")
	_, err = s.CastVote(ctx, id, uuid.New(), domain.DirectionNone)
	require.ErrorIs(t, err, domain.ErrInvalidDirection)
}

func TestCastVoteConcurrentVoters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id := seedProject(t, s, "Library of things")

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			d := domain.DirectionUp
			if n%4 == 0 {
				d = domain.DirectionDown
			}
			_, err := s.CastVote(ctx, id, uuid.New(), d)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, p.Upvotes)
	assert.Equal(t, 10, p.Downvotes)
	assert.Equal(t, 20, p.VoteCount)
}

func TestListOrdersByScoreAndPages(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	for i, title := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, &domain.Project{
			ID:        uuid.New(),
			Title:     title,
			VoteCount: i,
			CreatedAt: now,
		}))
	}

	first, err := s.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "c", first[0].Title)
	assert.Equal(t, "b", first[1].Title)

	rest, err := s.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "a", rest[0].Title)

	empty, err := s.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProject(t, s, "Community Garden")
	seedProject(t, s, "Tool library")

	got, err := s.Search(ctx, 10, 0, "garden")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Community Garden", got[0].Title)
}

func TestSummarizeVotesRecountsFromVotes(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id := seedProject(t, s, "Rainwater tank")

	_, err := s.CastVote(ctx, id, uuid.New(), domain.DirectionUp)
	require.NoError(t, err)
	_, err = s.CastVote(ctx, id, uuid.New(), domain.DirectionDown)
	require.NoError(t, err)

	s.mu.Lock()
	p := s.projects[id]
	p.Upvotes = 99
	s.projects[id] = p
	s.mu.Unlock()

	require.NoError(t, s.SummarizeVotes(ctx, id))

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 1, got.Downvotes)
	assert.Equal(t, 0, got.VoteCount)
}
