package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oggyb/crush-reveal/internal/db"
	"github.com/oggyb/crush-reveal/internal/repository"
)

// Ledger accepts exactly one immutable submission per user.
type Ledger struct {
	submissions SubmissionStore
	users       UserStore
	log         *slog.Logger
}

func NewLedger(submissions SubmissionStore, users UserStore, log *slog.Logger) *Ledger {
	return &Ledger{submissions: submissions, users: users, log: log}
}

// Submit validates and stores the submitter's triple.
//
// Checks run in this order and stop at the first failure:
//  1. submitter and every target present → ErrInvalidInput
//  2. no prior submission → ErrAlreadySubmitted
//  3. submitter exists → ErrUserNotFound; every target exists → *TargetNotFoundError
//  4. no target equals the submitter → ErrSelfSelection
//  5. targets pairwise distinct → ErrDuplicateTarget
//
// The step 2 lookup only orders error reporting; the unique index on
// submitter_id decides concurrent first submissions, and the loser gets
// ErrAlreadySubmitted as well.
func (l *Ledger) Submit(ctx context.Context, submitterID uint64, t Targets) (*db.Submission, error) {
	if err := checkPresent(submitterID, t); err != nil {
		return nil, err
	}

	prior, err := l.submissions.FindBySubmitter(ctx, submitterID)
	if err != nil {
		return nil, fmt.Errorf("load prior submission: %w", err)
	}
	if prior != nil {
		return nil, ErrAlreadySubmitted
	}

	if err := l.checkUsersExist(ctx, submitterID, t); err != nil {
		return nil, err
	}

	if _, self := t.CategoryOf(submitterID); self {
		return nil, ErrSelfSelection
	}

	if err := checkDistinct(t); err != nil {
		return nil, err
	}

	s := &db.Submission{
		SubmitterID: submitterID,
		CrushID:     t.Crush,
		LikeID:      t.Like,
		AdoreID:     t.Adore,
	}
	if err := l.submissions.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			l.log.Debug("lost concurrent first submission", "submitter", submitterID)
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("store submission: %w", err)
	}

	l.log.Info("preferences submitted", "submitter", submitterID, "submission_id", s.ID)
	return s, nil
}

func checkPresent(submitterID uint64, t Targets) error {
	if submitterID == 0 {
		return fmt.Errorf("%w: submitter is required", ErrInvalidInput)
	}
	var missing []string
	for _, s := range t.Slots() {
		if s.UserID == 0 {
			missing = append(missing, strings.ToLower(s.Category.String()))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func (l *Ledger) checkUsersExist(ctx context.Context, submitterID uint64, t Targets) error {
	ids := []uint64{submitterID, t.Crush, t.Like, t.Adore}
	found, err := l.users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	if _, ok := found[submitterID]; !ok {
		return ErrUserNotFound
	}

	var missing []Category
	for _, s := range t.Slots() {
		if _, ok := found[s.UserID]; !ok {
			missing = append(missing, s.Category)
		}
	}
	if len(missing) > 0 {
		return &TargetNotFoundError{Categories: missing}
	}
	return nil
}

func checkDistinct(t Targets) error {
	slots := t.Slots()
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].UserID == slots[j].UserID {
				return fmt.Errorf("%w: %s and %s name the same user",
					ErrDuplicateTarget, slots[i].Category.Label(), slots[j].Category.Label())
			}
		}
	}
	return nil
}
