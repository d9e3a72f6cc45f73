package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

type voteKey struct {
	projectID uuid.UUID
	userID    uuid.UUID
}

// Store keeps projects and votes in process memory. It implements every
// repository port and is used for local development and tests.
type Store struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]domain.Project
	votes    map[voteKey]domain.Direction
}

var (
	_ ports.ProjectRepository = (*Store)(nil)
	_ ports.VoteRepository    = (*Store)(nil)
	_ ports.TallyRepository   = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		projects: make(map[uuid.UUID]domain.Project),
		votes:    make(map[voteKey]domain.Direction),
	}
}

func (s *Store) Save(ctx context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *project
	p.UserVote = domain.DirectionNone
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.projects[p.ID] = p
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &p, nil
}

func (s *Store) GetAll(ctx context.Context) ([]*domain.Project, error) {
	return s.query(func(domain.Project) bool { return true }, 0, 0), nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	return s.query(func(domain.Project) bool { return true }, limit, offset), nil
}

func (s *Store) Search(ctx context.Context, limit, offset int, q string) ([]*domain.Project, error) {
	needle := strings.ToLower(q)
	return s.query(func(p domain.Project) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	}, limit, offset), nil
}

// query returns matching projects ordered by score, newest first on ties.
// A zero limit returns everything.
func (s *Store) query(match func(domain.Project) bool, limit, offset int) []*domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []domain.Project
	for _, p := range s.projects {
		if match(p) {
			all = append(all, p)
		}
	}
	slices.SortFunc(all, func(a, b domain.Project) int {
		if c := cmp.Compare(b.VoteCount, a.VoteCount); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset >= len(all) {
		return []*domain.Project{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	out := make([]*domain.Project, len(all))
	for i := range all {
		p := all[i]
		out[i] = &p
	}
	return out
}

func (s *Store) CastVote(ctx context.Context, projectID, userID uuid.UUID, direction domain.Direction) (domain.Tally, error) {
	if !direction.Valid() {
		return domain.Tally{}, domain.ErrInvalidDirection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return domain.Tally{}, domain.ErrProjectNotFound
	}

	key := voteKey{projectID: projectID, userID: userID}
	existing := s.votes[key]

	next := direction
	if existing == direction {
		next = domain.DirectionNone
	}

	counts := map[domain.Direction]*int{
		domain.DirectionUp:   &p.Upvotes,
		domain.DirectionDown: &p.Downvotes,
	}
	if c, ok := counts[existing]; ok {
		*c = max(*c-1, 0)
	}
	if c, ok := counts[next]; ok {
		*c++
	}
	p.VoteCount = p.Upvotes - p.Downvotes

	if next == domain.DirectionNone {
		delete(s.votes, key)
	} else {
		s.votes[key] = next
	}
	s.projects[projectID] = p

	return domain.NewTally(projectID, p.Upvotes, p.Downvotes, next), nil
}

func (s *Store) GetUserVote(ctx context.Context, projectID, userID uuid.UUID) (domain.Direction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.votes[voteKey{projectID: projectID, userID: userID}], nil
}

func (s *Store) GetUserVotes(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]domain.Direction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[uuid.UUID]domain.Direction)
	for _, id := range projectIDs {
		if d, ok := s.votes[voteKey{projectID: id, userID: userID}]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (s *Store) SummarizeVotes(ctx context.Context, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}

	p.Upvotes, p.Downvotes = 0, 0
	for key, d := range s.votes {
		if key.projectID != projectID {
			continue
		}
		switch d {
		case domain.DirectionUp:
			p.Upvotes++
		case domain.DirectionDown:
			p.Downvotes++
		}
	}
	p.VoteCount = p.Upvotes - p.Downvotes
	s.projects[projectID] = p
	return nil
}
