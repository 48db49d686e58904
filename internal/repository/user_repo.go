package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/crush-reveal/internal/db"
	"github.com/oggyb/crush-reveal/internal/utils/pagination"
)

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user. A username or email collision returns ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// FindByID returns the user or nil when no such user exists.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*db.User, error) {
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// FindByIDs loads all listed users in one query, keyed by id.
// Unknown ids are simply absent from the map.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]db.User, error) {
	out := make(map[uint64]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// HandleTaken reports whether the username or the email is already registered.
func (r *UserRepository) HandleTaken(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// Search returns users whose username or full name contains query,
// case-insensitively, ordered by full name. An empty query matches everyone.
//
// Behavior:
//   - branch (when set) keeps only users of that branch.
//   - excludeID (when non-zero) is filtered out with a plain id <> ? predicate.
//   - LIKE wildcards in query match literally.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.Search(ctx, "diy", "", 42, nil, 10) // first 10 matches, never user 42
//	repo.Search(ctx, "", "ECE", 0, nil, 10)  // first 10 ECE students
func (r *UserRepository) Search(
	ctx context.Context,
	query string,
	branch string,
	excludeID uint64,
	paginationToken *string,
	limit int,
) ([]db.User, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	q := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("(LOWER(username) LIKE ? ESCAPE '!' OR LOWER(full_name) LIKE ? ESCAPE '!')", pattern, pattern).
		Order("full_name ASC, id ASC").
		Limit(limit + 1)

	if branch != "" {
		q = q.Where("branch = ?", branch)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if !cursor.IsZero() {
		q = q.Where("(full_name > ? OR (full_name = ? AND id > ?))", cursor.FullName, cursor.FullName, cursor.UserID)
	}

	var users []db.User
	if err := q.Find(&users).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(users) > limit {
		last := users[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{FullName: last.FullName, UserID: last.ID})
		nextToken = &token
		users = users[:limit]
	}
	return users, nextToken, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
