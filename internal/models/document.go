package models

import (
	"encoding/json"
	"strconv"
)

// Document is a decoded JSON object as returned by the board service.
type Document map[string]any

// String returns the value under key rendered as text. Missing keys and JSON
// nulls yield "".
func (d Document) String(key string) string {
	return scalarString(d[key])
}

func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Truthy reports whether a decoded JSON value counts as a positive answer:
// true, non-zero numbers, non-empty strings and non-empty arrays or objects.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	case Document:
		return len(val) > 0
	default:
		return true
	}
}
