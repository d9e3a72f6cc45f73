package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

const pageSize = 20

type projectService struct {
	repo     ports.ProjectRepository
	voteRepo ports.VoteRepository
}

func NewProjectService(repo ports.ProjectRepository, voteRepo ports.VoteRepository) ports.ProjectService {
	return &projectService{
		repo:     repo,
		voteRepo: voteRepo,
	}
}

func (s *projectService) Create(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	project := &domain.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: input.Description,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Save(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, id string, viewer uuid.UUID) (*domain.Project, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidProjectID
	}

	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if viewer != uuid.Nil {
		dir, err := s.voteRepo.GetUserVote(ctx, projectID, viewer)
		if err != nil {
			return nil, err
		}
		project.UserVote = dir
	}

	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, input ports.ListProjectsInput) ([]*domain.Project, error) {
	page := max(input.Page, 1)
	offset := (page - 1) * pageSize

	var (
		projects []*domain.Project
		err      error
	)
	if input.Query != "" {
		projects, err = s.repo.Search(ctx, pageSize, offset, input.Query)
	} else {
		projects, err = s.repo.List(ctx, pageSize, offset)
	}
	if err != nil {
		return nil, err
	}

	if input.Viewer == uuid.Nil || len(projects) == 0 {
		return projects, nil
	}

	ids := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	votes, err := s.voteRepo.GetUserVotes(ctx, input.Viewer, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer votes: %w", err)
	}
	for _, p := range projects {
		p.UserVote = votes[p.ID]
	}

	return projects, nil
}
