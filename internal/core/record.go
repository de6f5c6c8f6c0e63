package core

import (
	"errors"
	"strings"
	"time"
)

// MaxNotesLen bounds the free-text notes stored with a record.
const MaxNotesLen = 100

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrDuplicateExpense = errors.New("duplicate expense")
	ErrInsertFailed     = errors.New("insert failed")
	ErrEmptyCategory    = errors.New("empty category")
)

// Record is one user-entered expense. The store assigns the ID on insert;
// a record is never mutated afterwards.
type Record struct {
	ID        int64
	Title     string
	Amount    Money
	Category  string
	Timestamp time.Time
	Notes     string
	ImageRef  string
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Timestamp.IsZero() {
		return errors.New("zero timestamp")
	}
	return nil
}

// TruncateNotes caps notes at MaxNotesLen characters.
func TruncateNotes(notes string) string {
	runes := []rune(notes)
	if len(runes) <= MaxNotesLen {
		return notes
	}
	return string(runes[:MaxNotesLen])
}
