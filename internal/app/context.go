package app

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/crush-reveal/internal/cache"
	"github.com/oggyb/crush-reveal/internal/config"
	"github.com/oggyb/crush-reveal/internal/matching"
	"github.com/oggyb/crush-reveal/internal/metrics"
	"github.com/oggyb/crush-reveal/internal/repository"
	"github.com/oggyb/crush-reveal/internal/reveal"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Matcher    *matching.Matcher
}

// New creates a new AppContext and wires the matcher on top of the
// repositories. opts are passed through to the matcher.
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *cache.RedisCache,
	logger *slog.Logger,
	m *metrics.Metrics,
	opts ...matching.Option,
) (*AppContext, error) {
	schedule, err := reveal.New(cfg.Reveal)
	if err != nil {
		return nil, fmt.Errorf("reveal schedule: %w", err)
	}

	matcher := matching.NewMatcher(
		repository.NewSubmissionRepository(db),
		repository.NewUserRepository(db),
		schedule,
		logger,
		opts...,
	)

	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Metrics:    m,
		Matcher:    matcher,
	}, nil
}
