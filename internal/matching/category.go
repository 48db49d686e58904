package matching

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oggyb/crush-reveal/internal/db"
)

// Category is one of the three fixed labels attached to a target choice.
type Category int

const (
	Crush Category = iota + 1
	Like
	Adore
)

// Categories lists every category in slot order.
var Categories = []Category{Crush, Like, Adore}

func (c Category) String() string {
	switch c {
	case Crush:
		return "CRUSH"
	case Like:
		return "LIKE"
	case Adore:
		return "ADORE"
	default:
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
}

// Label is the display form, e.g. "Crush".
func (c Category) Label() string {
	s := c.String()
	return s[:1] + strings.ToLower(s[1:])
}

// Targets is an ordered preference triple of user ids.
type Targets struct {
	Crush uint64
	Like  uint64
	Adore uint64
}

// Slot pairs a category with the user chosen for it.
type Slot struct {
	Category Category
	UserID   uint64
}

// TargetsOf extracts the triple stored in a submission.
func TargetsOf(s *db.Submission) Targets {
	return Targets{Crush: s.CrushID, Like: s.LikeID, Adore: s.AdoreID}
}

// Slots returns the triple in category order.
func (t Targets) Slots() [3]Slot {
	return [3]Slot{
		{Category: Crush, UserID: t.Crush},
		{Category: Like, UserID: t.Like},
		{Category: Adore, UserID: t.Adore},
	}
}

// CategoryOf returns the first slot holding userID.
func (t Targets) CategoryOf(userID uint64) (Category, bool) {
	for _, s := range t.Slots() {
		if s.UserID == userID {
			return s.Category, true
		}
	}
	return 0, false
}

// ParseTargets converts raw identity references into a triple. Empty,
// non-numeric and zero references fail with ErrInvalidInput naming every
// offending slot.
func ParseTargets(crush, like, adore string) (Targets, error) {
	var (
		t   Targets
		bad []string
	)
	for _, f := range []struct {
		cat Category
		raw string
		dst *uint64
	}{
		{Crush, crush, &t.Crush},
		{Like, like, &t.Like},
		{Adore, adore, &t.Adore},
	} {
		id, err := ParseUserID(f.raw)
		if err != nil {
			bad = append(bad, strings.ToLower(f.cat.String()))
			continue
		}
		*f.dst = id
	}
	if len(bad) > 0 {
		return Targets{}, fmt.Errorf("%w: %s must be a valid user id", ErrInvalidInput, strings.Join(bad, ", "))
	}
	return t, nil
}

// ParseUserID parses a decimal, non-zero user id.
func ParseUserID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q is not a valid user id", ErrInvalidInput, raw)
	}
	return id, nil
}
