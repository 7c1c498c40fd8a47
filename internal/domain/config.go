package domain

import (
	"strings"
)

// Config is an untyped, arbitrarily nested configuration tree.
// Nested objects are Config values; leaves are whatever the preset author
// put there (numbers, strings, bools, arrays).
//
// Deltas are sparse: applying a delta merges it into the current tree,
// leaving keys the delta does not mention untouched. There is no schema
// validation; an unknown key path is simply created.
type Config map[string]any

// Merge applies a sparse delta to the config using deep-merge semantics:
// nested Config values merge recursively, everything else (scalars, arrays)
// replaces the existing value. Keys absent from the delta are unchanged.
// Unknown paths are created, not rejected.
func (c Config) Merge(delta Config) {
	for key, incoming := range delta {
		existing, ok := c[key]
		if !ok {
			c[key] = deepCopyValue(incoming)
			continue
		}

		existingMap, existingIsMap := asConfig(existing)
		incomingMap, incomingIsMap := asConfig(incoming)
		if existingIsMap && incomingIsMap {
			existingMap.Merge(incomingMap)
			c[key] = existingMap
			continue
		}

		// Scalar or array, or a type change: replace wholesale.
		c[key] = deepCopyValue(incoming)
	}
}

// Clone returns a deep copy of the config. Mutating the copy never affects
// the original, so descriptor defaults stay pristine across instances.
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}
	out := make(Config, len(c))
	for key, value := range c {
		out[key] = deepCopyValue(value)
	}
	return out
}

// ValueAt returns the value at a dot-separated key path ("color.hue").
// The second return is false when any path segment is missing.
func (c Config) ValueAt(path string) (any, bool) {
	segments := strings.Split(path, ".")
	current := c
	for i, segment := range segments {
		value, ok := current[segment]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, isMap := asConfig(value)
		if !isMap {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// FloatAt returns the numeric value at a dot-separated key path, accepting
// any numeric leaf type. Returns the fallback when missing or non-numeric.
func (c Config) FloatAt(path string, fallback float64) float64 {
	value, ok := c.ValueAt(path)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

// IntAt returns the integer value at a dot-separated key path.
// Returns the fallback when missing or non-numeric.
func (c Config) IntAt(path string, fallback int) int {
	value, ok := c.ValueAt(path)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	default:
		return fallback
	}
}

// BoolAt returns the boolean value at a dot-separated key path.
func (c Config) BoolAt(path string, fallback bool) bool {
	value, ok := c.ValueAt(path)
	if !ok {
		return fallback
	}
	b, isBool := value.(bool)
	if !isBool {
		return fallback
	}
	return b
}

// StringAt returns the string value at a dot-separated key path.
func (c Config) StringAt(path string, fallback string) string {
	value, ok := c.ValueAt(path)
	if !ok {
		return fallback
	}
	s, isString := value.(string)
	if !isString {
		return fallback
	}
	return s
}

// asConfig normalizes nested map values to Config. JSON round-trips produce
// map[string]any, hand-written literals produce Config; both must merge.
func asConfig(value any) (Config, bool) {
	switch v := value.(type) {
	case Config:
		return v, true
	case map[string]any:
		return Config(v), true
	default:
		return nil, false
	}
}

// deepCopyValue copies nested maps and slices so merged deltas never alias
// the caller's data.
func deepCopyValue(value any) any {
	switch v := value.(type) {
	case Config:
		return v.Clone()
	case map[string]any:
		return Config(v).Clone()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
