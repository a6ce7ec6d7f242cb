package leave

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("leave request not found")
	ErrUnauthorized      = errors.New("actor is not the assigned reviewing officer")
	ErrInvalidTransition = errors.New("leave request status does not allow this action")
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects per-field submission problems detected before any
// store call is made.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Reason: reason})
}

func (e *ValidationError) hasIssues() bool {
	return len(e.Issues) > 0
}
