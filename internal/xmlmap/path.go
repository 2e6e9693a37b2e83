package xmlmap

import "strings"

// List normalizes a field that may hold a single value or a list.
// nil yields an empty slice.
func List(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return t
	default:
		return []any{t}
	}
}

// First returns the first element of List(v), or nil.
func First(v any) any {
	l := List(v)
	if len(l) == 0 {
		return nil
	}
	return l[0]
}

// Map asserts v as a decoded element map.
func Map(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Path navigates a dot-separated key into nested maps.
// It returns nil when any segment is missing or not a map.
func Path(m map[string]any, path string) any {
	var cur any = m
	for _, p := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := mm[p]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// String returns the first non-empty string found at the candidate paths.
func String(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s, ok := Path(m, p).(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Any returns the first non-nil value found at the candidate paths.
func Any(m map[string]any, paths ...string) any {
	for _, p := range paths {
		if v := Path(m, p); v != nil {
			return v
		}
	}
	return nil
}
