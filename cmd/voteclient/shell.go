package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/vncsmyrnk/votesync/internal/adapters/cache"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

const feedKey = "feed"

var errUnknownCommand = errors.New("unknown command")

type projectSource interface {
	GetProject(ctx context.Context, id string) (domain.Project, error)
	ListProjects(ctx context.Context, page int, query string) ([]domain.Project, error)
}

type voter interface {
	Vote(ctx context.Context, entityID string, direction domain.Direction) (domain.VoteState, error)
	Flush(entityID string)
}

// shell reads commands line by line and prints every vote change the cache
// publishes for projects the viewer has looked at.
type shell struct {
	api   projectSource
	votes voter
	cache *cache.Store

	outMu sync.Mutex
	out   io.Writer

	watching map[string]func()
	last     []domain.Project
}

func newShell(api projectSource, votes voter, store *cache.Store, out io.Writer) *shell {
	return &shell{
		api:      api,
		votes:    votes,
		cache:    store,
		out:      out,
		watching: make(map[string]func()),
	}
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	defer s.unwatchAll()

	s.printf("commands: list [query], show <id|#>, up <id|#>, down <id|#>, flush <id|#>, quit\n")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := s.exec(ctx, scanner.Text())
		if err != nil {
			s.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "list":
		return false, s.list(ctx, strings.Join(args, " "))
	case "show":
		id, err := s.target(args)
		if err != nil {
			return false, err
		}
		return false, s.show(ctx, id)
	case "up", "down":
		id, err := s.target(args)
		if err != nil {
			return false, err
		}
		direction, _ := domain.ParseDirection(cmd)
		s.watch(id)
		state, err := s.votes.Vote(ctx, id, direction)
		if err != nil {
			return false, err
		}
		s.printState("now", state)
		return false, nil
	case "flush":
		id, err := s.target(args)
		if err != nil {
			return false, err
		}
		s.votes.Flush(id)
		return false, nil
	}
	return false, fmt.Errorf("%w %q", errUnknownCommand, cmd)
}

func (s *shell) list(ctx context.Context, query string) error {
	projects, err := s.api.ListProjects(ctx, 1, query)
	if err != nil {
		return err
	}
	s.cache.PutList(feedKey, projects)
	s.last = projects

	if len(projects) == 0 {
		s.printf("no projects\n")
	}
	for i, p := range projects {
		s.watch(p.ID.String())
		state := p.VoteState()
		s.printf("%2d. %-40s %+d (up %d, down %d) you: %s  %s\n",
			i+1, p.Title, state.Score, state.UpCount, state.DownCount, state.Direction, p.ID)
	}
	return nil
}

func (s *shell) show(ctx context.Context, id string) error {
	p, err := s.api.GetProject(ctx, id)
	if err != nil {
		return err
	}
	s.cache.PutDetail(p)
	s.watch(id)

	s.printf("%s\n", p.Title)
	if p.Description != "" {
		s.printf("  %s\n", p.Description)
	}
	s.printState("  votes", p.VoteState())
	return nil
}

// target resolves a project id or a 1-based position in the last listing.
func (s *shell) target(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected one project id or list position")
	}
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 || n > len(s.last) {
			return "", fmt.Errorf("no project at position %d", n)
		}
		return s.last[n-1].ID.String(), nil
	}
	return args[0], nil
}

func (s *shell) watch(id string) {
	if _, ok := s.watching[id]; ok {
		return
	}
	s.watching[id] = s.cache.Subscribe(id, func(state domain.VoteState) {
		s.printState("~ "+state.EntityID, state)
	})
}

func (s *shell) unwatchAll() {
	for id, cancel := range s.watching {
		cancel()
		delete(s.watching, id)
	}
}

func (s *shell) printState(label string, state domain.VoteState) {
	s.printf("%s: %+d (up %d, down %d) you: %s\n", label, state.Score, state.UpCount, state.DownCount, state.Direction)
}

func (s *shell) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
