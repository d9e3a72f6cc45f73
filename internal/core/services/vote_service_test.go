package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/votesync/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

func TestVoteService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	projects := NewProjectService(store, store)
	votes := NewVoteService(store, store)

	project, err := projects.Create(ctx, ports.CreateProjectInput{Title: "Mesh network"})
	require.NoError(t, err)

	alice, bob := uuid.New(), uuid.New()

	tally, err := votes.Vote(ctx, ports.VoteInput{ProjectID: project.ID, UserID: alice, Direction: domain.DirectionUp})
	require.NoError(t, err)
	assert.Equal(t, domain.NewTally(project.ID, 1, 0, domain.DirectionUp), tally)

	tally, err = votes.Vote(ctx, ports.VoteInput{ProjectID: project.ID, UserID: bob, Direction: domain.DirectionDown})
	require.NoError(t, err)
	assert.Equal(t, domain.NewTally(project.ID, 1, 1, domain.DirectionDown), tally)

	// Same direction again removes alice's vote.
	tally, err = votes.Vote(ctx, ports.VoteInput{ProjectID: project.ID, UserID: alice, Direction: domain.DirectionUp})
	require.NoError(t, err)
	assert.Equal(t, domain.NewTally(project.ID, 0, 1, domain.DirectionNone), tally)

	got, err := projects.GetProject(ctx, project.ID.String(), bob)
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionDown, got.UserVote)
	assert.Equal(t, -1, got.VoteCount)
}

func TestVoteServiceValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	votes := NewVoteService(store, store)

	_, err := votes.Vote(ctx, ports.VoteInput{ProjectID: uuid.New(), UserID: uuid.New(), Direction: domain.DirectionNone})
	require.ErrorIs(t, err, domain.ErrInvalidDirection)

	_, err = votes.Vote(ctx, ports.VoteInput{ProjectID: uuid.New(), UserID: uuid.New(), Direction: domain.DirectionUp})
	require.ErrorIs(t, err, domain.ErrProjectNotFound)
}
