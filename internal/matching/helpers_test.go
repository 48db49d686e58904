package matching_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/crush-reveal/internal/config"
	"github.com/oggyb/crush-reveal/internal/db"
	"github.com/oggyb/crush-reveal/internal/db/dbtest"
	"github.com/oggyb/crush-reveal/internal/logger"
	"github.com/oggyb/crush-reveal/internal/matching"
	"github.com/oggyb/crush-reveal/internal/repository"
	"github.com/oggyb/crush-reveal/internal/reveal"
)

var (
	// Sunday 2026-10-11 20:00 UTC opens a 24h window.
	revealOpen   = time.Date(2026, 10, 11, 21, 0, 0, 0, time.UTC)
	revealLocked = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	db          *gorm.DB
	users       map[string]db.User
	submissions *repository.SubmissionRepository
	userRepo    *repository.UserRepository
}

func newFixture(t *testing.T, usernames ...string) *fixture {
	t.Helper()
	database := dbtest.Open(t)

	f := &fixture{
		db:          database,
		users:       make(map[string]db.User, len(usernames)),
		submissions: repository.NewSubmissionRepository(database),
		userRepo:    repository.NewUserRepository(database),
	}
	for _, u := range dbtest.CreateUsers(t, database, usernames...) {
		f.users[u.Username] = u
	}
	return f
}

func (f *fixture) id(name string) uint64 { return f.users[name].ID }

func (f *fixture) targets(crush, like, adore string) matching.Targets {
	return matching.Targets{Crush: f.id(crush), Like: f.id(like), Adore: f.id(adore)}
}

// submit stores a triple directly, bypassing ledger validation.
func (f *fixture) submit(t *testing.T, who string, tg matching.Targets) {
	t.Helper()
	require.NoError(t, f.submissions.Create(context.Background(), &db.Submission{
		SubmitterID: f.id(who),
		CrushID:     tg.Crush,
		LikeID:      tg.Like,
		AdoreID:     tg.Adore,
	}))
}

func (f *fixture) matcher(t *testing.T, now time.Time) *matching.Matcher {
	t.Helper()
	return matching.NewMatcher(f.submissions, f.userRepo, sundaySchedule(t), logger.Discard(),
		matching.WithClock(func() time.Time { return now }))
}

func (f *fixture) resolver() *matching.Resolver {
	return matching.NewResolver(f.submissions, f.userRepo, logger.Discard())
}

func (f *fixture) ledger() *matching.Ledger {
	return matching.NewLedger(f.submissions, f.userRepo, logger.Discard())
}

func sundaySchedule(t *testing.T) reveal.Schedule {
	t.Helper()
	s, err := reveal.New(config.RevealConfig{Weekday: "sunday", Hour: 20, Timezone: "UTC", Window: 24 * time.Hour})
	require.NoError(t, err)
	return s
}

// flakySubmissions fails lookups for the listed submitters.
type flakySubmissions struct {
	matching.SubmissionStore
	failFor map[uint64]bool
}

var errStoreDown = errors.New("store unavailable")

func (s flakySubmissions) FindBySubmitter(ctx context.Context, id uint64) (*db.Submission, error) {
	if s.failFor[id] {
		return nil, errStoreDown
	}
	return s.SubmissionStore.FindBySubmitter(ctx, id)
}
