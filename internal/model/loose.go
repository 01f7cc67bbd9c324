package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Data files written by older releases of the UI are loosely typed: ports and
// passwords may be numbers, timeouts may be strings. The loose* types accept
// any scalar and convert it.

type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("cannot use %s as a string", kindOf(b))
	default:
		// number, true or false, kept as written
		*s = looseString(b)
	}
	return nil
}

type looseInt int64

func (n *looseInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*n = 0
	case float64:
		*n = looseInt(v)
	case bool:
		*n = 0
		if v {
			*n = 1
		}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			f = 0
		}
		*n = looseInt(f)
	default:
		return fmt.Errorf("cannot use %s as a number", kindOf(bytes.TrimSpace(b)))
	}
	return nil
}

type looseBool bool

func (p *looseBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*p = false
	case bool:
		*p = looseBool(v)
	case float64:
		*p = v != 0
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		*p = looseBool(err == nil && parsed)
	default:
		return fmt.Errorf("cannot use %s as a boolean", kindOf(bytes.TrimSpace(b)))
	}
	return nil
}

func kindOf(b []byte) string {
	if len(b) > 0 && b[0] == '[' {
		return "array"
	}
	return "object"
}

// decodeField decodes fields[key] into dst when present and removes the key,
// so that what remains in fields is the set of keys nobody claimed.
func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	delete(fields, key)
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
