package services

import (
	"context"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

type voteService struct {
	projectRepo ports.ProjectRepository
	voteRepo    ports.VoteRepository
}

func NewVoteService(projectRepo ports.ProjectRepository, voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		projectRepo: projectRepo,
		voteRepo:    voteRepo,
	}
}

// Vote applies the viewer's click: repeating the current direction removes
// the vote, the other direction switches it, and otherwise a vote is cast.
func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (domain.Tally, error) {
	if !input.Direction.Valid() {
		return domain.Tally{}, domain.ErrInvalidDirection
	}

	if _, err := s.projectRepo.GetByID(ctx, input.ProjectID); err != nil {
		return domain.Tally{}, err
	}

	return s.voteRepo.CastVote(ctx, input.ProjectID, input.UserID, input.Direction)
}
