// Package coreerr defines the five error kinds the core propagates
// (spec.md §7): InvalidRange, UnknownToken, Infeasible, Timeout and
// InternalError. The shape is a trimmed version of the tagged-error
// pattern in strefethen-sonos-hub-go's internal/apperrors — a Kind plus
// a message, with no HTTP envelope (that belongs to internal/httpapi,
// not the core).
package coreerr

import (
	"fmt"

	"github.com/brunolopes/shiftcore/internal/domain"
)

// Kind is one of the five error kinds the core can return.
type Kind string

const (
	KindInvalidRange  Kind = "InvalidRange"
	KindUnknownToken  Kind = "UnknownToken"
	KindInfeasible    Kind = "Infeasible"
	KindTimeout       Kind = "Timeout"
	KindInternalError Kind = "InternalError"
)

// Error is the core's error type. Causes is populated only for
// KindInfeasible.
type Error struct {
	Kind    Kind
	Message string
	Causes  []domain.Cause
}

func (e *Error) Error() string {
	if e.Kind == KindInfeasible {
		return fmt.Sprintf("%s: %s (%d causes)", e.Kind, e.Message, len(e.Causes))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is match on Kind alone, so callers can write
// errors.Is(err, coreerr.Timeout) without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NewInvalidRange(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRange, Message: fmt.Sprintf(format, args...)}
}

func NewUnknownToken(format string, args ...any) *Error {
	return &Error{Kind: KindUnknownToken, Message: fmt.Sprintf(format, args...)}
}

func NewInfeasible(causes []domain.Cause) *Error {
	return &Error{
		Kind:    KindInfeasible,
		Message: "no assignment satisfies every hard constraint",
		Causes:  causes,
	}
}

func NewTimeout(elapsedSecs float64, timeoutSecs int) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("solve exceeded timeout (%.1fs of %ds)", elapsedSecs, timeoutSecs),
	}
}

func NewInternalError(format string, args ...any) *Error {
	return &Error{Kind: KindInternalError, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is comparisons where callers don't need a message.
var (
	Timeout       = &Error{Kind: KindTimeout}
	InternalError = &Error{Kind: KindInternalError}
)
