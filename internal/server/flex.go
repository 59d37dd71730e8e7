package server

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexInt accepts a JSON number, a numeric string or null.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*n = 0
	case float64:
		*n = flexInt(t)
	case string:
		if strings.TrimSpace(t) == "" {
			*n = 0
			return nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return fmt.Errorf("not an integer: %q", t)
		}
		*n = flexInt(i)
	default:
		return fmt.Errorf("not an integer: %s", b)
	}
	return nil
}

// flexBool accepts a JSON bool or a string; any string starting with "y"
// is true.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = flexBool(t)
	case string:
		*f = flexBool(strings.HasPrefix(strings.ToLower(strings.TrimSpace(t)), "y"))
	default:
		*f = false
	}
	return nil
}

// stringList accepts a JSON array of strings or a single comma-separated
// string.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*l = nil
	case string:
		var out []string
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*l = out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("alternate subcategory is not a string: %v", e)
			}
			out = append(out, s)
		}
		*l = out
	default:
		return fmt.Errorf("not a string list: %s", b)
	}
	return nil
}
