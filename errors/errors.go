// Package errors defines the error values returned by the spoo.me client.
//
// Every failure surfaces as a *ServiceError whose Code tells the caller
// which stage failed: local validation, the remote API, the transport, or
// decoding a successful response.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode int

const (
	ErrorCodeValidation ErrorCode = iota + 1
	ErrorCodeAPI
	ErrorCodeTransport
	ErrorCodeDecode
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeValidation:
		return "validation"
	case ErrorCodeAPI:
		return "api"
	case ErrorCodeTransport:
		return "transport"
	case ErrorCodeDecode:
		return "decode"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// APIErrorKind is the error name spoo.me puts in its error bodies.
type APIErrorKind string

const (
	KindURL       APIErrorKind = "UrlError"
	KindAlias     APIErrorKind = "AliasError"
	KindPassword  APIErrorKind = "PasswordError"
	KindMaxClicks APIErrorKind = "MaxClicksError"
	KindEmoji     APIErrorKind = "EmojiError"
	KindUnknown   APIErrorKind = ""
)

// ParseAPIErrorKind maps an error name from a response body onto a known kind.
func ParseAPIErrorKind(name string) APIErrorKind {
	switch k := APIErrorKind(name); k {
	case KindURL, KindAlias, KindPassword, KindMaxClicks, KindEmoji:
		return k
	default:
		return KindUnknown
	}
}

// Sentinels for errors.Is against API errors of a given kind.
var (
	ErrURL       = errors.New("spoome: url rejected")
	ErrAlias     = errors.New("spoome: alias rejected")
	ErrPassword  = errors.New("spoome: password rejected")
	ErrMaxClicks = errors.New("spoome: max clicks rejected")
	ErrEmoji     = errors.New("spoome: emoji sequence rejected")
)

var kindSentinels = map[APIErrorKind]error{
	KindURL:       ErrURL,
	KindAlias:     ErrAlias,
	KindPassword:  ErrPassword,
	KindMaxClicks: ErrMaxClicks,
	KindEmoji:     ErrEmoji,
}

type ServiceError struct {
	Op      string
	Code    ErrorCode
	Message string

	// Field names the offending request field of a validation error.
	Field string
	// Kind and StatusCode are set on API errors.
	Kind       APIErrorKind
	StatusCode int
	// Body holds the raw response body of API and decode errors.
	Body []byte

	Err error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if e.Code == ErrorCodeAPI && e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's API kind.
func (e *ServiceError) Is(target error) bool {
	if e.Code != ErrorCodeAPI {
		return false
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func NewValidationError(op, field, message string) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    ErrorCodeValidation,
		Field:   field,
		Message: message,
	}
}

// NewAPIError builds an error for a non-2xx response. An empty message falls
// back to the status text.
func NewAPIError(op string, status int, kind APIErrorKind, message string, body []byte) *ServiceError {
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "unexpected status"
	}
	return &ServiceError{
		Op:         op,
		Code:       ErrorCodeAPI,
		Message:    message,
		Kind:       kind,
		StatusCode: status,
		Body:       body,
	}
}

func NewTransportError(op, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    ErrorCodeTransport,
		Message: message,
		Err:     err,
	}
}

func NewDecodeError(op, message string, body []byte, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    ErrorCodeDecode,
		Message: message,
		Body:    body,
		Err:     err,
	}
}

func hasCode(err error, code ErrorCode) bool {
	var serviceErr *ServiceError
	return errors.As(err, &serviceErr) && serviceErr.Code == code
}

func IsValidation(err error) bool { return hasCode(err, ErrorCodeValidation) }

func IsAPI(err error) bool { return hasCode(err, ErrorCodeAPI) }

func IsTransport(err error) bool { return hasCode(err, ErrorCodeTransport) }

func IsDecode(err error) bool { return hasCode(err, ErrorCodeDecode) }

// StatusCode returns the HTTP status carried by an API error, or 0.
func StatusCode(err error) int {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.StatusCode
	}
	return 0
}
