package entity

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrSeatUnavailable ErrorKind = "SEAT_UNAVAILABLE"
	ErrUnauthenticated ErrorKind = "UNAUTHENTICATED"
	ErrPaymentDeclined ErrorKind = "PAYMENT_DECLINED"
	ErrNetworkFailure  ErrorKind = "NETWORK_FAILURE"
	ErrValidation      ErrorKind = "VALIDATION"
	ErrBackend         ErrorKind = "BACKEND"
)

// BookingError carries an error kind and, when the backend supplied one,
// its reason string (e.g. SEATS_EXPIRED).
type BookingError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *BookingError) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = e.Kind.defaultMessage()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *BookingError) Unwrap() error { return e.Err }

// Message is the user-facing text: backend reason when present, else a generic one.
func (e *BookingError) Message() string {
	if e.Reason != "" {
		return e.Reason
	}
	return e.Kind.defaultMessage()
}

func (k ErrorKind) defaultMessage() string {
	switch k {
	case ErrSeatUnavailable:
		return "Seats no longer available"
	case ErrUnauthenticated:
		return "Login required"
	case ErrPaymentDeclined:
		return "Payment failed"
	case ErrNetworkFailure:
		return "Network error, please try again"
	case ErrValidation:
		return "Invalid request"
	default:
		return "Something went wrong"
	}
}

func NewBookingError(kind ErrorKind, reason string, err error) *BookingError {
	return &BookingError{Kind: kind, Reason: reason, Err: err}
}

// KindOf reports the kind of a wrapped *BookingError, or "" if there is none.
func KindOf(err error) ErrorKind {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// ReasonOf returns the user-facing message of err.
func ReasonOf(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Message()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
