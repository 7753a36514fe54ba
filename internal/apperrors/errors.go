// Package apperrors defines the error taxonomy surfaced to the presentation
// layer. Every failure leaving the optimistic manager is an *AppError.
package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies an AppError.
type Code string

const (
	// CodeValidation is a local, pre-submission rejection. Never hits the network.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeFetch is a failed list or refresh.
	CodeFetch Code = "FETCH_FAILED"
	// CodeCreate is a failed create; the tentative record was rolled back.
	CodeCreate Code = "CREATE_FAILED"
	// CodeConcurrentMutation is a create attempted while another is pending.
	CodeConcurrentMutation Code = "CONCURRENT_MUTATION"
	// CodeInternal is a store-side failure unrelated to the input.
	CodeInternal Code = "INTERNAL_ERROR"
)

// Validation reasons.
const (
	ReasonOwnerRequired    = "owner required"
	ReasonCategoryRequired = "category required"
	ReasonAmountInvalid    = "amount invalid"
)

// Messages the store puts in the "error" field for each validation reason.
const (
	WireOwnerRequired    = "farmer_name is required and must be a non-empty string"
	WireCategoryRequired = "crop is required and must be a non-empty string"
	WireAmountInvalid    = "amount must be a positive number"
)

var wireMessages = map[string]string{
	ReasonOwnerRequired:    WireOwnerRequired,
	ReasonCategoryRequired: WireCategoryRequired,
	ReasonAmountInvalid:    WireAmountInvalid,
}

// WireMessage returns the store's message for a validation reason. Unknown
// reasons are returned unchanged.
func WireMessage(reason string) string {
	if msg, ok := wireMessages[reason]; ok {
		return msg
	}
	return reason
}

// ReasonFromWire maps a store rejection message back to the validation
// reason it stands for, so a remote rejection reads like a local one.
func ReasonFromWire(msg string) (string, bool) {
	for reason, wire := range wireMessages {
		if wire == msg {
			return reason, true
		}
	}
	return "", false
}

// AppError carries a code, a human-readable message and an optional cause.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError without a cause.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an AppError around err.
func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Is reports whether any AppError in err's chain has the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	for err != nil {
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// Message returns the user-facing message of the outermost AppError in
// err's chain, or err.Error() when there is none.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Validation builds a validation failure with one of the Reason constants.
func Validation(reason string) *AppError {
	return New(CodeValidation, reason)
}

// ConcurrentMutation is returned when a create is attempted while another
// one has not settled.
func ConcurrentMutation() *AppError {
	return New(CodeConcurrentMutation, "another investment is still being saved")
}
