package booking

import (
	"errors"
	"fmt"
)

// ErrorCode classifies booking failures for callers and the HTTP layer.
type ErrorCode string

const (
	CodeNotFound             ErrorCode = "notFound"
	CodeSlotExpired          ErrorCode = "slotExpired"
	CodeInsufficientCapacity ErrorCode = "insufficientCapacity"
	CodeAlreadyCancelled     ErrorCode = "alreadyCancelled"
	CodeContentionTimeout    ErrorCode = "contentionTimeout"
	CodeInvalidRequest       ErrorCode = "invalidRequest"
)

// BookingError is the typed failure returned by the booking engine.
// Remaining is only meaningful for CodeInsufficientCapacity.
type BookingError struct {
	Code      ErrorCode
	Message   string
	Remaining int
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the booking error code from err, or "" if err is not a
// BookingError.
func CodeOf(err error) ErrorCode {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsCode reports whether err is a BookingError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func errSlotNotFound(slotID string) error {
	return &BookingError{Code: CodeNotFound, Message: fmt.Sprintf("slot %s not found", slotID)}
}

func errReservationNotFound(reservationID string) error {
	return &BookingError{Code: CodeNotFound, Message: fmt.Sprintf("reservation %s not found", reservationID)}
}

func errSlotExpired() error {
	return &BookingError{Code: CodeSlotExpired, Message: "this slot has already passed"}
}

func errInsufficientCapacity(remaining int) error {
	var msg string
	switch remaining {
	case 0:
		msg = "no seats left for this slot"
	case 1:
		msg = "only 1 seat left for this slot"
	default:
		msg = fmt.Sprintf("only %d seats left for this slot", remaining)
	}
	return &BookingError{Code: CodeInsufficientCapacity, Message: msg, Remaining: remaining}
}

func errAlreadyCancelled(reservationID string) error {
	return &BookingError{Code: CodeAlreadyCancelled, Message: fmt.Sprintf("reservation %s is already cancelled", reservationID)}
}

func errContentionTimeout(slotID string) error {
	return &BookingError{Code: CodeContentionTimeout, Message: fmt.Sprintf("timed out waiting for slot %s, please retry", slotID)}
}

func errInvalidRequest(msg string) error {
	return &BookingError{Code: CodeInvalidRequest, Message: msg}
}
