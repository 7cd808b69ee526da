package transcript

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies extraction failures. Every stage returns exactly one
// kind so callers can tell "server down" from "server changed its
// contract" from "this video simply has no captions".
type Kind string

const (
	// KindInvalidURL — input was not a recognizable YouTube link.
	KindInvalidURL Kind = "invalid_url"
	// KindTransport — network/timeout/5xx/429 exhausted the retry policy.
	KindTransport Kind = "transport_failure"
	// KindPageStructure — the watch page no longer carries the access key
	// marker. Upstream format drift or a consent interstitial, not transient.
	KindPageStructure Kind = "page_structure_changed"
	// KindNoCaptions — the video has no transcript params, or every
	// language candidate came back empty. A normal outcome, not an error.
	KindNoCaptions Kind = "no_captions_available"
	// KindLanguageUnavailable — the endpoint has no caption track for one
	// requested language. Internal to the fallback controller; never
	// escapes the package API.
	KindLanguageUnavailable Kind = "language_unavailable"
	// KindParse — the endpoint returned a body that did not match the
	// expected structure.
	KindParse Kind = "parse_failure"
	// KindCancelled — caller-initiated abort via context.
	KindCancelled Kind = "cancelled"
	// KindInternal — unexpected programming error converted at the facade
	// boundary.
	KindInternal Kind = "internal"
)

// Error carries a failure kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds an *Error with a formatted message.
func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrap tags err with a kind unless it already carries one.
func wrap(kind Kind, msg string, err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the failure kind from an error chain.
// Context cancellation always wins: an aborted call is KindCancelled no
// matter which stage it surfaced from.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
