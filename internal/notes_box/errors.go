package notes_box

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrEmptySearchQuery = errors.New("no search query provided")
	ErrInvalidBody      = errors.New("invalid json body")
	ErrBodyTooLarge     = errors.New("request body too large")
)

// MissingFieldError is returned when a create or full update body
// lacks one of the required fields (or has it set to null).
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing required field(s): %s", strings.Join(e.Fields, ", "))
}
