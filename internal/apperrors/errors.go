package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdg-garage/outing-api/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError is raised before any write happens.
type ValidationError struct {
	Result *validation.Result
}

func (e *ValidationError) Error() string {
	return "validation failed:\n" + e.Result.AllErrorsAsString()
}

func (e *ValidationError) Messages() []string {
	return e.Result.Messages()
}

type ConflictError struct {
	messages []string
}

func Conflict(messages ...string) *ConflictError {
	return &ConflictError{messages: messages}
}

func (e *ConflictError) Error() string {
	return "conflict:\n" + validation.Join(e.messages)
}

func (e *ConflictError) Messages() []string {
	return e.messages
}

type UnsupportedOperationError struct {
	Operation string
	Kind      string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported for %s records", e.Operation, e.Kind)
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// FromStore classifies a gorm error. Unique violations become a ConflictError with
// conflictMsg, missing rows wrap ErrNotFound, anything else is a PersistenceError.
func FromStore(op string, err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return Conflict(conflictMsg)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return &PersistenceError{Op: op, Err: err}
	}
}

// isUniqueViolation also matches the raw sqlite text, since the sqlite dialector only
// translates mattn driver errors and libsql reports its own.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsUnsupported(err error) bool {
	var u *UnsupportedOperationError
	return errors.As(err, &u)
}
