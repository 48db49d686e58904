// Package apptest wires an AppContext on in-memory SQLite and miniredis.
package apptest

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/crush-reveal/internal/app"
	"github.com/oggyb/crush-reveal/internal/cache"
	"github.com/oggyb/crush-reveal/internal/config"
	"github.com/oggyb/crush-reveal/internal/db/dbtest"
	"github.com/oggyb/crush-reveal/internal/logger"
	"github.com/oggyb/crush-reveal/internal/matching"
	"github.com/oggyb/crush-reveal/internal/metrics"
)

// Env is everything a service test needs to poke at.
type Env struct {
	App      *app.AppContext
	Redis    *miniredis.Miniredis
	Registry *prometheus.Registry
}

// New spins up an isolated app. The reveal schedule is the default
// (Sunday 20:00 UTC for 24h) and the clock is frozen at now.
func New(t *testing.T, now time.Time) *Env {
	t.Helper()

	database := dbtest.Open(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	cfg.Auth.BcryptCost = bcrypt.MinCost

	redisCache := cache.NewRedisCache(cfg)
	t.Cleanup(func() { redisCache.Close() })

	reg := prometheus.NewRegistry()
	appCtx, err := app.New(cfg, database, redisCache, logger.Discard(), metrics.New(reg),
		matching.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	return &Env{App: appCtx, Redis: mr, Registry: reg}
}
