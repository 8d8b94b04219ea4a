package failure

import (
	"errors"
	"net/http"
)

// Kind is the closed set of failure categories the reservation core can
// produce. Callers branch on kinds; message text is presentation only.
type Kind string

const (
	KindInvalidPartySize   Kind = "invalid_party_size"
	KindPastDate           Kind = "past_date"
	KindNoAvailability     Kind = "no_availability"
	KindNotFound           Kind = "not_found"
	KindStorageConflict    Kind = "storage_conflict"
	KindStorageUnavailable Kind = "storage_unavailable"
	KindBadRequest         Kind = "bad_request"
	KindUnauthorized       Kind = "unauthorized"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "invalid limit parameter"}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// InvalidPartySize marks a party size outside the acceptable range. Never retried.
func InvalidPartySize(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidPartySize,
		Message: msg,
	}
}

// PastDate marks a requested time that is not in the future. Never retried.
func PastDate(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindPastDate,
		Message: msg,
	}
}

// NoAvailability marks a request no table could satisfy.
func NoAvailability(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindNoAvailability,
		Message: msg,
	}
}

// StorageConflict marks a transient write conflict under concurrency.
// Retried exactly once by the caller before being surfaced as no availability.
func StorageConflict(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindStorageConflict,
		Message: msg,
	}
}

// StorageUnavailable marks a connectivity or timeout failure of the
// persistence layer. Surfaced, never swallowed.
func StorageUnavailable(err error) error {
	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindStorageUnavailable,
		Message: err.Error(),
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// KindOf returns the failure kind of an error, or the empty kind for
// errors that did not originate from this package.
func KindOf(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
