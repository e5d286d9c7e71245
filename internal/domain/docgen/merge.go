package docgen

import "strings"

// IsEmpty is the single emptiness predicate used by every merge in the
// pipeline. Only nil and blank strings count as empty: 0, false and "0" are
// deliberate values an operator may have typed and must never be replaced.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// Merge combines a base data map with overrides. An override wins only when
// it is non-empty, so explicit caller input is never clobbered by a blank.
// Neither input is modified.
func Merge(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		if IsEmpty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// FillMissing sets key to value only when the map has no non-empty value for
// it already. This is the additive direction: derived fields fill gaps,
// they never overwrite.
func FillMissing(m map[string]any, key string, value any) {
	if current, ok := m[key]; ok && !IsEmpty(current) {
		return
	}
	if IsEmpty(value) {
		return
	}
	m[key] = value
}
