package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestFromStore(t *testing.T) {
	if FromStore("op", nil, "dup") != nil {
		t.Fatal("expected nil for nil error")
	}

	err := FromStore("insert participation", fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey), "already registered")
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "conflict:\n• already registered" {
		t.Errorf("unexpected message %q", err.Error())
	}

	libsql := errors.New("SQLITE_CONSTRAINT: UNIQUE constraint failed: catering_meals.participant_id, catering_meals.event_id")
	err = FromStore("insert meal", libsql, "meal already chosen")
	if !IsConflict(err) {
		t.Errorf("expected conflict for a raw sqlite unique violation, got %v", err)
	}

	err = FromStore("get participation", gorm.ErrRecordNotFound, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	boom := errors.New("disk full")
	err = FromStore("insert meal", boom, "")
	var pe *PersistenceError
	if !errors.As(err, &pe) || !errors.Is(err, boom) {
		t.Errorf("expected persistence error wrapping cause, got %v", err)
	}
}
