package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oggyb/crush-reveal/internal/db"
)

// Profile is the public part of a user. Email and credentials never leave
// the service through it.
type Profile struct {
	UserID   uint64
	Username string
	FullName string
	Branch   string
	Year     string
}

func ProfileOf(u db.User) Profile {
	return Profile{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Branch:   u.Branch,
		Year:     u.Year,
	}
}

// Match is a reciprocated choice: the requester listed Profile as Mine and
// was listed back as Theirs.
type Match struct {
	Profile Profile
	Mine    Category
	Theirs  Category
}

// Label renders both categories, e.g. "Crush ↔ Like".
func (m Match) Label() string {
	return m.Mine.Label() + " ↔ " + m.Theirs.Label()
}

// Resolver finds the reciprocated subset of a user's choices.
type Resolver struct {
	submissions SubmissionStore
	users       UserStore
	log         *slog.Logger
}

func NewResolver(submissions SubmissionStore, users UserStore, log *slog.Logger) *Resolver {
	return &Resolver{submissions: submissions, users: users, log: log}
}

// Resolve returns the requester's mutual matches, at most one per slot.
//
// Behavior:
//   - No submission from the requester → empty list, no error.
//   - Each target's own triple is checked for the requester in any slot.
//   - A failed lookup for one target is logged and counts as no match,
//     so it never hides the other slots.
//   - A target whose user row is gone is skipped.
func (r *Resolver) Resolve(ctx context.Context, requesterID uint64) ([]Match, error) {
	own, err := r.submissions.FindBySubmitter(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	if own == nil {
		return []Match{}, nil
	}

	var (
		pending []Match
		seen    = make(map[uint64]bool, 3)
	)
	for _, slot := range TargetsOf(own).Slots() {
		if seen[slot.UserID] {
			continue
		}
		seen[slot.UserID] = true

		theirs, err := r.submissions.FindBySubmitter(ctx, slot.UserID)
		if err != nil {
			r.log.Warn("target lookup failed, skipping slot",
				"requester", requesterID, "category", slot.Category, "target", slot.UserID, "err", err)
			continue
		}
		if theirs == nil {
			continue
		}

		their, ok := TargetsOf(theirs).CategoryOf(requesterID)
		if !ok {
			continue
		}
		pending = append(pending, Match{
			Profile: Profile{UserID: slot.UserID},
			Mine:    slot.Category,
			Theirs:  their,
		})
	}

	if len(pending) == 0 {
		return []Match{}, nil
	}

	ids := make([]uint64, 0, len(pending))
	for _, m := range pending {
		ids = append(ids, m.Profile.UserID)
	}
	users, err := r.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load matched profiles: %w", err)
	}

	matches := make([]Match, 0, len(pending))
	for _, m := range pending {
		u, ok := users[m.Profile.UserID]
		if !ok {
			r.log.Warn("matched user no longer exists", "requester", requesterID, "target", m.Profile.UserID)
			continue
		}
		m.Profile = ProfileOf(u)
		matches = append(matches, m)
	}
	return matches, nil
}
