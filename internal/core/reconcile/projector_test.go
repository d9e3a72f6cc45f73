package reconcile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

var (
	up   = domain.DirectionUp
	down = domain.DirectionDown
	none = domain.DirectionNone
)

func TestProject(t *testing.T) {
	tests := []struct {
		name      string
		current   domain.VoteState
		requested domain.Direction
		want      domain.VoteState
	}{
		{"new up vote", state("p", none, 5, 5), up, state("p", up, 6, 5)},
		{"new down vote", state("p", none, 5, 5), down, state("p", down, 5, 6)},
		{"toggle off up", state("p", up, 6, 5), up, state("p", none, 5, 5)},
		{"toggle off down", state("p", down, 1, 3), down, state("p", none, 1, 2)},
		{"switch up to down", state("p", up, 10, 2), down, state("p", down, 9, 3)},
		{"switch down to up", state("p", down, 0, 4), up, state("p", up, 1, 3)},
		{"toggle off floors at zero", state("p", up, 0, 2), up, state("p", none, 0, 2)},
		{"switch floors at zero", state("p", down, 3, 0), up, state("p", up, 4, 0)},
		{"none is ignored", state("p", up, 1, 0), none, state("p", up, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Project(tt.current, tt.requested))
		})
	}
}

func TestProjectSameDirectionTwiceRestoresState(t *testing.T) {
	starts := []domain.VoteState{
		state("p", none, 0, 0),
		state("p", none, 7, 3),
		state("p", up, 1, 0),
		state("p", up, 12, 40),
	}

	for _, s := range starts {
		for _, d := range []domain.Direction{up, down} {
			if s.Direction != none && s.Direction != d {
				continue
			}
			assert.Equal(t, s, Project(Project(s, d), d), "start %+v direction %s", s, d)
		}
	}

	// Starting from the opposite vote the first click switches, so the second
	// one removes the vote instead of restoring it.
	s := state("p", down, 4, 4)
	assert.Equal(t, state("p", none, 4, 3), Project(Project(s, up), up))
}

func TestProjectCountsNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dirs := []domain.Direction{up, down}

	for run := 0; run < 200; run++ {
		s := state("p", dirs[rng.Intn(2)], rng.Intn(2), rng.Intn(2))
		for i := 0; i < 50; i++ {
			s = Project(s, dirs[rng.Intn(2)])
			assert.GreaterOrEqual(t, s.UpCount, 0)
			assert.GreaterOrEqual(t, s.DownCount, 0)
			assert.Equal(t, s.UpCount-s.DownCount, s.Score)
		}
	}
}
