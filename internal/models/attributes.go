package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidAttribute = errors.New("invalid task attribute")

var priorities = []string{"Low", "Average", "High"}

// TaskAttributes are the optional task details accepted by create and edit.
// Empty fields are left out of the request so the service keeps its current
// value.
type TaskAttributes struct {
	Title       string
	Description string
	Priority    string
	Assignee    string
	Color       string
	Size        string
	Tags        string
	Deadline    string
	ExtLink     string
	Type        string
	Template    string
	Extra       map[string]string
}

func (a TaskAttributes) Validate() error {
	if a.Priority != "" && canonicalPriority(a.Priority) == "" {
		return fmt.Errorf("%w: priority %q must be one of %s",
			ErrInvalidAttribute, a.Priority, strings.Join(priorities, ", "))
	}
	if a.Deadline != "" {
		if _, err := time.Parse(time.DateOnly, a.Deadline); err != nil {
			return fmt.Errorf("%w: deadline %q must be yyyy-mm-dd", ErrInvalidAttribute, a.Deadline)
		}
	}
	return nil
}

// Fields returns the request body fields for the attributes. Extra keys never
// override a named attribute.
func (a TaskAttributes) Fields() map[string]any {
	fields := make(map[string]any, len(a.Extra)+11)
	for k, v := range a.Extra {
		if v != "" {
			fields[k] = v
		}
	}

	named := []struct {
		key, value string
	}{
		{"title", a.Title},
		{"description", a.Description},
		{"priority", canonicalPriority(a.Priority)},
		{"assignee", a.Assignee},
		{"color", a.Color},
		{"size", a.Size},
		{"tags", a.Tags},
		{"deadline", a.Deadline},
		{"extlink", a.ExtLink},
		{"type", a.Type},
		{"template", a.Template},
	}
	for _, f := range named {
		if f.value != "" {
			fields[f.key] = f.value
		}
	}
	return fields
}

func canonicalPriority(p string) string {
	for _, known := range priorities {
		if strings.EqualFold(strings.TrimSpace(p), known) {
			return known
		}
	}
	return ""
}

// MoveOptions are the optional placement details of a move.
type MoveOptions struct {
	Lane            string
	Position        *int
	ExceedingReason string
}

func (o MoveOptions) Validate() error {
	if o.Position != nil && *o.Position < 0 {
		return fmt.Errorf("%w: position %d must not be negative", ErrInvalidAttribute, *o.Position)
	}
	return nil
}

func (o MoveOptions) Fields() map[string]any {
	fields := map[string]any{}
	if o.Lane != "" {
		fields["lane"] = o.Lane
	}
	if o.Position != nil {
		fields["position"] = *o.Position
	}
	if o.ExceedingReason != "" {
		fields["exceedingreason"] = o.ExceedingReason
	}
	return fields
}
