package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates no analysis endpoint is configured.
	ErrNotConfigured = errors.New("analysis endpoint not configured")

	// ErrUnavailable indicates the collaborator could not be reached.
	ErrUnavailable = errors.New("analysis service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("analysis request timed out")

	// ErrStatus indicates the collaborator answered with a non-success status.
	ErrStatus = errors.New("analysis service returned an error status")

	// ErrInvalidResponse indicates the response did not match the result shape.
	ErrInvalidResponse = errors.New("invalid analysis response")

	// ErrInvalidRequest indicates the answers could not be encoded.
	ErrInvalidRequest = errors.New("invalid analysis request")
)

// Kind classifies an analysis failure.
type Kind string

const (
	KindNotConfigured   Kind = "NOT_CONFIGURED"
	KindUnavailable     Kind = "UNAVAILABLE"
	KindTimeout         Kind = "TIMEOUT"
	KindStatus          Kind = "STATUS"
	KindInvalidResponse Kind = "INVALID_RESPONSE"
	KindInvalidRequest  Kind = "INVALID_REQUEST"
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotConfigured:
		return ErrNotConfigured
	case KindUnavailable:
		return ErrUnavailable
	case KindTimeout:
		return ErrTimeout
	case KindStatus:
		return ErrStatus
	case KindInvalidRequest:
		return ErrInvalidRequest
	default:
		return ErrInvalidResponse
	}
}

// Error is returned by Client.Analyze for every failure. It never carries a
// partial result.
type Error struct {
	Kind      Kind
	Message   string
	Status    int
	RequestID string
	Err       error
}

func newError(kind Kind, requestID, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, RequestID: requestID, Err: cause}
}

func (e *Error) Error() string {
	base := e.Kind.sentinel().Error()
	if e.Status != 0 {
		base = fmt.Sprintf("%s (status %d)", base, e.Status)
	}
	if e.Message != "" {
		base += ": " + e.Message
	}
	return base
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// UserMessage is the text shown to the respondent. Details stay in logs.
func (e *Error) UserMessage() string {
	return UserMessage
}

// UserMessage is the generic retry text for any analysis failure.
const UserMessage = "There was an error analyzing your symptoms. Please try again."

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
