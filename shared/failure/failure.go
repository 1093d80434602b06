package failure

import (
	"errors"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Reason is a stable machine-readable tag; failures sharing a reason match each other under errors.Is.
type Failure struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

const (
	ReasonSlotFull             = "slot_full"
	ReasonTargetSlotFull       = "target_slot_full"
	ReasonSlotClosed           = "slot_closed"
	ReasonInvalidTransition    = "invalid_transition"
	ReasonAlreadyTerminal      = "already_terminal"
	ReasonCapacityRaceLost     = "capacity_race_lost"
	ReasonRequiresManualReview = "requires_manual_review"
	ReasonRefundWindowClosed   = "refund_window_closed"
	ReasonUnavailable          = "unavailable"
)

// parentReasons lets a narrower reason also satisfy its broader one.
var parentReasons = map[string]string{
	ReasonAlreadyTerminal: ReasonInvalidTransition,
	ReasonTargetSlotFull:  ReasonSlotFull,
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

var (
	ErrSlotFull             = &Failure{Code: http.StatusConflict, Reason: ReasonSlotFull, Message: "slot is full"}
	ErrTargetSlotFull       = &Failure{Code: http.StatusConflict, Reason: ReasonTargetSlotFull, Message: "target slot is full"}
	ErrSlotClosed           = &Failure{Code: http.StatusConflict, Reason: ReasonSlotClosed, Message: "slot is not open for booking"}
	ErrInvalidTransition    = &Failure{Code: http.StatusConflict, Reason: ReasonInvalidTransition, Message: "invalid status transition"}
	ErrAlreadyTerminal      = &Failure{Code: http.StatusConflict, Reason: ReasonAlreadyTerminal, Message: "already in a terminal status"}
	ErrCapacityRaceLost     = &Failure{Code: http.StatusConflict, Reason: ReasonCapacityRaceLost, Message: "capacity changed concurrently, please retry"}
	ErrRequiresManualReview = &Failure{Code: http.StatusConflict, Reason: ReasonRequiresManualReview, Message: "payment requires manual review"}
	ErrRefundWindowClosed   = &Failure{Code: http.StatusConflict, Reason: ReasonRefundWindowClosed, Message: "refund window has closed"}
	ErrUnavailable          = &Failure{Code: http.StatusServiceUnavailable, Reason: ReasonUnavailable, Message: "resource is busy, please retry"}
)

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target carries the same reason as e or one of its parents.
func (e *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok || t.Reason == "" {
		return false
	}

	for reason := e.Reason; reason != ""; reason = parentReasons[reason] {
		if reason == t.Reason {
			return true
		}
	}

	return false
}

// WithMessage returns a copy of the given failure carrying a more specific message.
func WithMessage(base *Failure, msg string) error {
	return &Failure{
		Code:    base.Code,
		Reason:  base.Reason,
		Message: msg,
	}
}

// GetReason returns the machine-readable reason of an error interface, if any.
func GetReason(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Reason
	}

	return ""
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
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

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
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
