package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/crush-reveal/internal/db"
)

// SubmissionRepository provides data access methods for the Submission model.
// Submissions are insert-only: there is no update or delete path.
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new repository bound to the given DB connection.
func NewSubmissionRepository(database *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: database}
}

// Create inserts a submission unless the submitter already has one.
//
// Behavior:
//   - Single INSERT ... ON CONFLICT (submitter_id) DO NOTHING.
//   - Zero affected rows means another submission for this submitter
//     already exists → ErrDuplicate, and the stored row is left as is.
//   - Concurrent first submissions from the same user resolve to exactly
//     one row; the losers get ErrDuplicate.
//
// Example:
//
//	repo.Create(ctx, &db.Submission{SubmitterID: 1, CrushID: 2, LikeID: 3, AdoreID: 4})
func (r *SubmissionRepository) Create(ctx context.Context, s *db.Submission) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submitter_id"}},
			DoNothing: true,
		}).
		Create(s)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

// FindBySubmitter returns the user's submission or nil if they never submitted.
func (r *SubmissionRepository) FindBySubmitter(ctx context.Context, submitterID uint64) (*db.Submission, error) {
	var subs []db.Submission
	err := r.db.WithContext(ctx).
		Where("submitter_id = ?", submitterID).
		Limit(1).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return &subs[0], nil
}

// Count returns how many users have submitted.
// Used in conjunction with Redis cache (DB is fallback).
func (r *SubmissionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Submission{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
