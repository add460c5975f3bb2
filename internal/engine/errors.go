package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRun is returned when a Registry is run a second time.
	ErrAlreadyRun = errors.New("registry has already been run")

	// ErrClosed is returned by operations on a closed Registry.
	ErrClosed = errors.New("registry is closed")
)

// RegistrationError represents a suite or test that cannot be registered.
//
// Registration errors include:
//   - Empty names, names containing "/", and duplicate suite or test names
//   - Invalid parameter declarations (duplicate names, empty enums,
//     inverted ranges, configuration counts that overflow int64)
//   - Missing test bodies
//   - More than one SetUp or TearDown in a suite
type RegistrationError struct {
	// Code identifies the error category.
	Code RegistrationErrorCode

	// Message is a human-readable description.
	Message string

	// Suite identifies the affected suite.
	Suite string

	// Test identifies the affected test, if any.
	Test string

	// Err is the underlying cause, if any.
	Err error
}

// RegistrationErrorCode categorizes registration errors.
type RegistrationErrorCode string

const (
	// ErrCodeNilSuite indicates a nil suite was added.
	ErrCodeNilSuite RegistrationErrorCode = "NIL_SUITE"

	// ErrCodeEmptyName indicates a suite or test without a name.
	ErrCodeEmptyName RegistrationErrorCode = "EMPTY_NAME"

	// ErrCodeInvalidName indicates a suite or test name containing the
	// filter path separator "/".
	ErrCodeInvalidName RegistrationErrorCode = "INVALID_NAME"

	// ErrCodeDuplicateSuite indicates two suites with the same name.
	ErrCodeDuplicateSuite RegistrationErrorCode = "DUPLICATE_SUITE"

	// ErrCodeDuplicateTest indicates two tests with the same name in a suite.
	ErrCodeDuplicateTest RegistrationErrorCode = "DUPLICATE_TEST"

	// ErrCodeInvalidParameters indicates a parameter list that cannot be built.
	ErrCodeInvalidParameters RegistrationErrorCode = "INVALID_PARAMETERS"

	// ErrCodeNilBody indicates a test or callback without a function.
	ErrCodeNilBody RegistrationErrorCode = "NIL_BODY"

	// ErrCodeDuplicateSetUp indicates a second SetUp in one suite.
	ErrCodeDuplicateSetUp RegistrationErrorCode = "DUPLICATE_SETUP"

	// ErrCodeDuplicateTearDown indicates a second TearDown in one suite.
	ErrCodeDuplicateTearDown RegistrationErrorCode = "DUPLICATE_TEARDOWN"
)

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	switch {
	case e.Suite != "" && e.Test != "":
		return fmt.Sprintf("%s: %s (suite=%s, test=%s)", e.Code, msg, e.Suite, e.Test)
	case e.Suite != "":
		return fmt.Sprintf("%s: %s (suite=%s)", e.Code, msg, e.Suite)
	default:
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
}

// Unwrap returns the underlying cause.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// IsRegistrationError returns true if err is or wraps a RegistrationError.
func IsRegistrationError(err error) bool {
	var re *RegistrationError
	return errors.As(err, &re)
}

// HasRegistrationCode reports whether err, or any error joined into it,
// is a RegistrationError with the given code.
func HasRegistrationCode(err error, code RegistrationErrorCode) bool {
	if err == nil {
		return false
	}
	var re *RegistrationError
	if errors.As(err, &re) && re.Code == code {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if HasRegistrationCode(e, code) {
				return true
			}
		}
	}
	return false
}

func newRegistrationError(code RegistrationErrorCode, suite, test, message string) *RegistrationError {
	return &RegistrationError{
		Code:    code,
		Message: message,
		Suite:   suite,
		Test:    test,
	}
}
