package kanbanize

import (
	"fmt"
	"strings"
)

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("Kanbanize error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type KanbanizeErrors struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e KanbanizeErrors) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
