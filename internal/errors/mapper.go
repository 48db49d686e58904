// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/crush-reveal/internal/matching"
	"github.com/oggyb/crush-reveal/internal/utils/pagination"
)

// Reasons tell clients which failure they hit, beyond the status code.
const (
	ReasonInvalidInput     = "INVALID_INPUT"
	ReasonSelfSelection    = "SELF_SELECTION"
	ReasonDuplicateTarget  = "DUPLICATE_TARGET"
	ReasonAlreadySubmitted = "ALREADY_SUBMITTED"
	ReasonTargetNotFound   = "TARGET_NOT_FOUND"
	ReasonUserNotFound     = "USER_NOT_FOUND"
	ReasonAlreadyExists    = "ALREADY_EXISTS"
	ReasonRateLimited      = "RATE_LIMITED"
	ReasonTimeout          = "TIMEOUT"
	ReasonCanceled         = "CANCELED"
	ReasonInternal         = "INTERNAL"
)

// Error is a service error carrying a gRPC code and a machine readable
// reason. grpc-go picks the code up through GRPCStatus.
type Error struct {
	Code    codes.Code
	Reason  string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) GRPCStatus() *status.Status { return status.New(e.Code, e.Message) }

func newError(code codes.Code, reason, msg string) error {
	return &Error{Code: code, Reason: reason, Message: msg}
}

// Map converts domain/repo/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	switch {
	case errors.Is(err, matching.ErrAlreadySubmitted):
		return newError(codes.AlreadyExists, ReasonAlreadySubmitted, err.Error())

	case errors.Is(err, matching.ErrSelfSelection):
		return newError(codes.InvalidArgument, ReasonSelfSelection, err.Error())

	case errors.Is(err, matching.ErrDuplicateTarget):
		return newError(codes.InvalidArgument, ReasonDuplicateTarget, err.Error())

	case errors.Is(err, matching.ErrInvalidInput):
		return newError(codes.InvalidArgument, ReasonInvalidInput, err.Error())

	case errors.Is(err, matching.ErrTargetNotFound):
		return newError(codes.NotFound, ReasonTargetNotFound, err.Error())

	case errors.Is(err, matching.ErrUserNotFound):
		return newError(codes.NotFound, ReasonUserNotFound, err.Error())

	case errors.Is(err, pagination.ErrInvalidToken):
		return newError(codes.InvalidArgument, ReasonInvalidInput, "invalid pagination token")

	case errors.Is(err, context.DeadlineExceeded):
		return newError(codes.DeadlineExceeded, ReasonTimeout, "request timed out")

	case errors.Is(err, context.Canceled):
		return newError(codes.Canceled, ReasonCanceled, "request was canceled")

	default:
		// internals stay in the logs
		return newError(codes.Internal, ReasonInternal, "internal error")
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return newError(codes.InvalidArgument, ReasonInvalidInput, msg)
}

// AlreadyExists creates a gRPC AlreadyExists error.
func AlreadyExists(msg string) error {
	return newError(codes.AlreadyExists, ReasonAlreadyExists, msg)
}

// ResourceExhausted creates a gRPC ResourceExhausted error for rate limits.
func ResourceExhausted(msg string) error {
	return newError(codes.ResourceExhausted, ReasonRateLimited, msg)
}

// ReasonOf returns the reason Map assigns to err, "OK" for nil.
func ReasonOf(err error) string {
	if err == nil {
		return "OK"
	}
	var svcErr *Error
	if errors.As(Map(err), &svcErr) {
		return svcErr.Reason
	}
	return ReasonInternal
}

// HTTPStatus translates a service error into an HTTP status, a reason and
// a client facing message.
func HTTPStatus(err error) (int, string, string) {
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		if st, ok := status.FromError(err); ok {
			return httpCode(st.Code()), st.Code().String(), st.Message()
		}
		mapped := Map(err)
		if !errors.As(mapped, &svcErr) {
			return http.StatusInternalServerError, ReasonInternal, "internal error"
		}
	}
	return httpCode(svcErr.Code), svcErr.Reason, svcErr.Message
}

func httpCode(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Canceled:
		return 499
	case codes.Unimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
