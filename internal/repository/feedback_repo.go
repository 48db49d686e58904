package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/crush-reveal/internal/db"
)

// FeedbackRepository stores feedback messages.
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new repository bound to the given DB connection.
func NewFeedbackRepository(database *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: database}
}

// Create inserts a feedback row with status pending.
func (r *FeedbackRepository) Create(ctx context.Context, f *db.Feedback) error {
	if f.Status == "" {
		f.Status = db.FeedbackStatusPending
	}
	return r.db.WithContext(ctx).Create(f).Error
}
