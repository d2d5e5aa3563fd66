package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseFields builds a JSON request body from repeated --set key=value flags
// and --unset key flags. Unset keys are sent as explicit nulls.
func parseFields(set, unset []string) (map[string]any, error) {
	body := make(map[string]any, len(set)+len(unset))
	for _, kv := range set {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", kv)
		}
		if _, dup := body[key]; dup {
			return nil, fmt.Errorf("field %q given more than once", key)
		}
		body[key] = value
	}
	for _, key := range unset {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty --unset field")
		}
		if _, dup := body[key]; dup {
			return nil, fmt.Errorf("field %q given more than once", key)
		}
		body[key] = nil
	}
	return body, nil
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}
