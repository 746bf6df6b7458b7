package models

import (
	"fmt"
	"strconv"
	"time"
)

// Record is the flat key-value form every entity round-trips through. The
// storage layer decides how records map onto its key layout; entities only
// guarantee the round trip is lossless.
type Record map[string]any

func (r Record) stringValue(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (r Record) boolValue(key string) bool {
	if v, ok := r[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// intValue tolerates float64 because records that pass through JSON come
// back with numeric values widened.
func (r Record) intValue(key string) (int, error) {
	switch v := r[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, NewValidationError(key, "not an integer")
		}
		return n, nil
	case nil:
		return 0, NewValidationError(key, "missing")
	default:
		return 0, NewValidationError(key, fmt.Sprintf("unexpected type %T", v))
	}
}

func (r Record) floatValue(key string) (float64, error) {
	switch v := r[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, NewValidationError(key, "not a number")
		}
		return f, nil
	case nil:
		return 0, NewValidationError(key, "missing")
	default:
		return 0, NewValidationError(key, fmt.Sprintf("unexpected type %T", v))
	}
}

func (r Record) timeValue(key string) (time.Time, error) {
	s := r.stringValue(key)
	if s == "" {
		return time.Time{}, NewValidationError(key, "missing timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, NewValidationError(key, "malformed timestamp")
	}
	return t, nil
}

// optionalTime returns nil when the key is absent or empty.
func (r Record) optionalTime(key string) (*time.Time, error) {
	if r.stringValue(key) == "" {
		return nil, nil
	}
	t, err := r.timeValue(key)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r Record) stringSlice(key string) []string {
	switch v := r[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func putOptionalTime(r Record, key string, t *time.Time) {
	if t != nil {
		r[key] = t.Format(time.RFC3339Nano)
	}
}
