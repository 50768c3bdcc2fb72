package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrForeignKey    = errors.New("customer does not exist")

	// ErrInvalidInput is returned by the calculator when the display does not
	// hold a number.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDivisionByZero is never returned as an error value; it is carried by
	// the calculator state so the display can show it.
	ErrDivisionByZero = errors.New("division by zero")
)
