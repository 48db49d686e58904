// Package reveal computes the global weekly window during which match
// results are visible.
package reveal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oggyb/crush-reveal/internal/config"
)

// MaxWindow is the longest window a weekly schedule can hold open.
const MaxWindow = 7 * 24 * time.Hour

var ErrInvalidSchedule = errors.New("invalid reveal schedule")

// Schedule is a recurring weekly anchor: Weekday at Hour:Minute in Location.
// Results stay visible for Window after each occurrence.
type Schedule struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
	Window   time.Duration
}

// Window is the reveal state at a given instant.
//
// OpensAt is the latest occurrence at or before the instant, ClosesAt is
// OpensAt+Window and NextRevealAt is the first occurrence strictly after
// the instant. IsOpen holds for OpensAt <= now < ClosesAt.
type Window struct {
	OpensAt      time.Time
	ClosesAt     time.Time
	NextRevealAt time.Time
	IsOpen       bool
}

// New builds a Schedule from configuration.
func New(c config.RevealConfig) (Schedule, error) {
	wd, err := ParseWeekday(c.Weekday)
	if err != nil {
		return Schedule{}, err
	}

	tz := strings.TrimSpace(c.Timezone)
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSchedule, tz, err)
	}

	s := Schedule{
		Weekday:  wd,
		Hour:     c.Hour,
		Minute:   c.Minute,
		Location: loc,
		Window:   c.Window,
	}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// ParseWeekday accepts an English day name ("sunday", "Sun") or its
// number, 0 being Sunday.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, n)
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && s == name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, s)
}

func (s Schedule) Validate() error {
	switch {
	case s.Weekday < time.Sunday || s.Weekday > time.Saturday:
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, s.Weekday)
	case s.Hour < 0 || s.Hour > 23:
		return fmt.Errorf("%w: hour %d out of range", ErrInvalidSchedule, s.Hour)
	case s.Minute < 0 || s.Minute > 59:
		return fmt.Errorf("%w: minute %d out of range", ErrInvalidSchedule, s.Minute)
	case s.Window <= 0 || s.Window > MaxWindow:
		return fmt.Errorf("%w: window %s must be in (0, %s]", ErrInvalidSchedule, s.Window, MaxWindow)
	}
	return nil
}

// ComputeWindow reports the reveal window around now. It is a pure function
// of now and the schedule.
//
// Occurrences are stepped in whole calendar weeks in the schedule's
// location, so the wall-clock anchor survives DST changes.
func (s Schedule) ComputeWindow(now time.Time) Window {
	loc := s.location()
	local := now.In(loc)

	// days back from today to the most recent matching weekday
	back := (int(local.Weekday()) - int(s.Weekday) + 7) % 7

	opens := s.occurrence(local, -back)
	if opens.After(now) {
		back += 7
		opens = s.occurrence(local, -back)
	}
	next := s.occurrence(local, -back+7)
	closes := opens.Add(s.Window)

	return Window{
		OpensAt:      opens,
		ClosesAt:     closes,
		NextRevealAt: next,
		IsOpen:       !now.Before(opens) && now.Before(closes),
	}
}

func (s Schedule) occurrence(day time.Time, offsetDays int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+offsetDays, s.Hour, s.Minute, 0, 0, s.location())
}

func (s Schedule) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
