package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vncsmyrnk/votesync/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentSummaries bounds the recounts running at once so a large
// catalogue does not exhaust the connection pool.
const maxConcurrentSummaries = 8

type summaryService struct {
	projectRepo ports.ProjectRepository
	tallyRepo   ports.TallyRepository
}

func NewSummaryService(projectRepo ports.ProjectRepository, tallyRepo ports.TallyRepository) ports.SummaryService {
	return &summaryService{
		projectRepo: projectRepo,
		tallyRepo:   tallyRepo,
	}
}

// SummarizeAllVotes recounts the stored totals of every project from its
// vote rows. One failing project does not stop the others; every failure is
// reported in the returned error.
func (s *summaryService) SummarizeAllVotes(ctx context.Context) error {
	projects, err := s.projectRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all projects: %w", err)
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(maxConcurrentSummaries)

	for _, project := range projects {
		id := project.ID
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = s.tallyRepo.SummarizeVotes(ctx, id)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("failed to summarize project %s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
