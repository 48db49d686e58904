package matching

import (
	"context"

	"github.com/oggyb/crush-reveal/internal/db"
)

// SubmissionStore persists preference triples.
// Create must return repository.ErrDuplicate when the submitter already has one.
type SubmissionStore interface {
	Create(ctx context.Context, s *db.Submission) error
	FindBySubmitter(ctx context.Context, submitterID uint64) (*db.Submission, error)
}

// UserStore resolves user identities.
type UserStore interface {
	FindByID(ctx context.Context, id uint64) (*db.User, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]db.User, error)
	Search(ctx context.Context, query, branch string, excludeID uint64, paginationToken *string, limit int) ([]db.User, *string, error)
}
