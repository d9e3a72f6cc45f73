package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

type ProjectRepository interface {
	Save(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	GetAll(ctx context.Context) ([]*domain.Project, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Project, error)
	Search(ctx context.Context, limit, offset int, query string) ([]*domain.Project, error)
}

type CreateProjectInput struct {
	Title       string
	Description string
}

type ListProjectsInput struct {
	Page   int
	Query  string
	Viewer uuid.UUID
}

type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, id string, viewer uuid.UUID) (*domain.Project, error)
	ListProjects(ctx context.Context, input ListProjectsInput) ([]*domain.Project, error)
}
