package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage failure")
	ErrNetwork           = errors.New("network failure")
	ErrInvalidTransition = errors.New("invalid timer transition")
)

// ValidationError reports input that must not be retried unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// StorageError wraps a failure of the underlying medium. Callers may retry.
type StorageError struct {
	Op  string
	Err error
}

func NewStorage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// NetworkError is returned by remote clients when the store cannot be reached.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func NewNetwork(op, url string, err error) *NetworkError {
	return &NetworkError{Op: op, URL: url, Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
