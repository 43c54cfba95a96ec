// Package apperr defines the error kinds the request boundary maps to
// HTTP statuses. Every domain failure wraps one of the sentinel kinds
// and carries a stable machine code.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal")
)

const (
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeAddressNotFound      = "ADDRESS_NOT_FOUND"
	CodeAddressDoesNotBelong = "ADDRESS_DOES_NOT_BELONG"
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"
	CodeCartItemNotFound     = "CART_ITEM_NOT_FOUND"
	CodeOrderNotFound        = "ORDER_NOT_FOUND"
	CodeUnprocessableEntity  = "UNPROCESSABLE_ENTITY"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeConflict             = "CONFLICT"
	CodeInternal             = "INTERNAL_ERROR"
)

type Error struct {
	kind error
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Code + ": " + e.Msg }

func (e *Error) Unwrap() error { return e.kind }

func New(kind error, code, msg string) *Error {
	return &Error{kind: kind, Code: code, Msg: msg}
}

func NotFound(code, msg string) *Error     { return New(ErrNotFound, code, msg) }
func Validation(msg string) *Error         { return New(ErrValidation, CodeUnprocessableEntity, msg) }
func Unauthorized(code, msg string) *Error { return New(ErrUnauthorized, code, msg) }

// CodeOf extracts the machine code from any error in the chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
