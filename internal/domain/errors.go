package domain

import (
	"errors"
	"fmt"
)

// NotConfiguredMessage instructs the operator to register an API key.
const NotConfiguredMessage = "API Key가 설정되지 않았습니다. 우측 상단의 설정 버튼을 통해 키를 등록해주세요."

// ValidationError reports malformed or empty local input.
// It is raised before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotConfiguredError reports that no usable credential exists.
type NotConfiguredError struct {
	Message string
}

func (e *NotConfiguredError) Error() string {
	return e.Message
}

// NewNotConfiguredError returns a NotConfiguredError carrying the registration instruction.
func NewNotConfiguredError() *NotConfiguredError {
	return &NotConfiguredError{Message: NotConfiguredMessage}
}

// ExternalCallError wraps any failure returned by the generation endpoint.
type ExternalCallError struct {
	Op  string
	Err error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsNotConfigured reports whether err is a NotConfiguredError.
func IsNotConfigured(err error) bool {
	var ncErr *NotConfiguredError
	return errors.As(err, &ncErr)
}

// IsExternalCall reports whether err is an ExternalCallError.
func IsExternalCall(err error) bool {
	var ecErr *ExternalCallError
	return errors.As(err, &ecErr)
}
