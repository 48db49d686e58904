// Package matching holds the submission ledger, the mutual-match resolver
// and the Matcher facade the transports call into.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oggyb/crush-reveal/internal/db"
	"github.com/oggyb/crush-reveal/internal/reveal"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 25
)

// Choice is one of the requester's own selections.
type Choice struct {
	Category Category
	Profile  Profile
}

// Status describes where a user stands in the current cycle.
type Status struct {
	HasSubmitted bool
	IsLocked     bool
	NextRevealAt time.Time
	ClosesAt     time.Time
	Choices      []Choice
}

// Results is either locked, carrying the next reveal time, or open with
// the resolved matches and the requester's own choices.
type Results struct {
	Locked       bool
	NextRevealAt time.Time
	ClosesAt     time.Time
	Matches      []Match
	Choices      []Choice
}

// SearchPage is one page of user summaries.
type SearchPage struct {
	Users     []Profile
	NextToken *string
}

type Option func(*Matcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Matcher) { m.now = now }
}

// Matcher composes the ledger, the schedule and the resolver.
type Matcher struct {
	ledger      *Ledger
	resolver    *Resolver
	submissions SubmissionStore
	users       UserStore
	schedule    reveal.Schedule
	now         func() time.Time
	log         *slog.Logger
}

func NewMatcher(submissions SubmissionStore, users UserStore, schedule reveal.Schedule, log *slog.Logger, opts ...Option) *Matcher {
	m := &Matcher{
		ledger:      NewLedger(submissions, users, log),
		resolver:    NewResolver(submissions, users, log),
		submissions: submissions,
		users:       users,
		schedule:    schedule,
		now:         time.Now,
		log:         log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Window is the reveal window at the matcher's current time.
func (m *Matcher) Window() reveal.Window {
	return m.schedule.ComputeWindow(m.now())
}

func (m *Matcher) Submit(ctx context.Context, submitterID uint64, t Targets) (*db.Submission, error) {
	return m.ledger.Submit(ctx, submitterID, t)
}

// Status reports whether the requester submitted, whether results are
// locked, and the requester's own choices.
func (m *Matcher) Status(ctx context.Context, requesterID uint64) (Status, error) {
	if err := m.requireUser(ctx, requesterID); err != nil {
		return Status{}, err
	}

	submitted, choices, err := m.choices(ctx, requesterID)
	if err != nil {
		return Status{}, err
	}

	w := m.Window()
	return Status{
		HasSubmitted: submitted,
		IsLocked:     !w.IsOpen,
		NextRevealAt: w.NextRevealAt,
		ClosesAt:     w.ClosesAt,
		Choices:      choices,
	}, nil
}

// Results runs the resolver only while the reveal window is open.
func (m *Matcher) Results(ctx context.Context, requesterID uint64) (Results, error) {
	if err := m.requireUser(ctx, requesterID); err != nil {
		return Results{}, err
	}

	w := m.Window()
	if !w.IsOpen {
		return Results{Locked: true, NextRevealAt: w.NextRevealAt, ClosesAt: w.ClosesAt}, nil
	}

	matches, err := m.resolver.Resolve(ctx, requesterID)
	if err != nil {
		return Results{}, err
	}
	_, choices, err := m.choices(ctx, requesterID)
	if err != nil {
		return Results{}, err
	}
	return Results{NextRevealAt: w.NextRevealAt, ClosesAt: w.ClosesAt, Matches: matches, Choices: choices}, nil
}

// Search finds users by partial username or full name, optionally within
// one branch, never returning excludeID. A blank query lists the branch;
// blank query and branch yield an empty page.
func (m *Matcher) Search(ctx context.Context, query, branch string, excludeID uint64, token *string, limit int) (SearchPage, error) {
	query = strings.TrimSpace(query)
	branch = strings.TrimSpace(branch)
	if query == "" && branch == "" {
		return SearchPage{Users: []Profile{}}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultSearchLimit
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}

	users, next, err := m.users.Search(ctx, query, branch, excludeID, token, limit)
	if err != nil {
		return SearchPage{}, err
	}

	page := SearchPage{Users: make([]Profile, 0, len(users)), NextToken: next}
	for _, u := range users {
		page.Users = append(page.Users, ProfileOf(u))
	}
	return page, nil
}

// choices loads the requester's own selections in slot order. Targets
// whose user row is gone are left out.
func (m *Matcher) choices(ctx context.Context, requesterID uint64) (bool, []Choice, error) {
	own, err := m.submissions.FindBySubmitter(ctx, requesterID)
	if err != nil {
		return false, nil, fmt.Errorf("load submission: %w", err)
	}
	if own == nil {
		return false, []Choice{}, nil
	}

	t := TargetsOf(own)
	users, err := m.users.FindByIDs(ctx, []uint64{t.Crush, t.Like, t.Adore})
	if err != nil {
		return false, nil, fmt.Errorf("load choices: %w", err)
	}

	out := make([]Choice, 0, len(Categories))
	for _, s := range t.Slots() {
		u, ok := users[s.UserID]
		if !ok {
			continue
		}
		out = append(out, Choice{Category: s.Category, Profile: ProfileOf(u)})
	}
	return true, out, nil
}

func (m *Matcher) requireUser(ctx context.Context, id uint64) error {
	if id == 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	u, err := m.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	return nil
}
