package matching

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSelfSelection    = errors.New("cannot select yourself")
	ErrDuplicateTarget  = errors.New("each category needs a different person")
	ErrAlreadySubmitted = errors.New("preferences already submitted")
	ErrTargetNotFound   = errors.New("target not found")
	ErrUserNotFound     = errors.New("user not found")
)

// Kind groups domain errors by how callers should react.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
)

// KindOf classifies err. Errors from outside this package are KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrSelfSelection),
		errors.Is(err, ErrDuplicateTarget):
		return KindValidation
	case errors.Is(err, ErrAlreadySubmitted):
		return KindConflict
	case errors.Is(err, ErrTargetNotFound),
		errors.Is(err, ErrUserNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}

// TargetNotFoundError names the slots whose user does not exist.
type TargetNotFoundError struct {
	Categories []Category
}

func (e *TargetNotFoundError) Error() string {
	names := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		names = append(names, strings.ToLower(c.String()))
	}
	return ErrTargetNotFound.Error() + ": " + strings.Join(names, ", ")
}

func (e *TargetNotFoundError) Unwrap() error { return ErrTargetNotFound }
