// Package schema normalizes tool input schemas into the dialect accepted by
// the reasoning engine. Tool servers describe their inputs with full JSON
// Schema; engine function-calling dialects accept only a subset, and reject
// requests carrying keywords like additionalProperties. Normalization strips
// the rejected keywords recursively while preserving type, required-field and
// enum constraints, which carry the semantic contract the engine needs to
// construct valid arguments.
package schema

// droppedKeywords are schema keywords the engine dialect rejects. Dropping is
// always safe: they only constrain inputs further, never change the meaning
// of what remains.
var droppedKeywords = map[string]struct{}{
	"additionalProperties":  {},
	"unevaluatedProperties": {},
	"$schema":               {},
	"$id":                   {},
	"$defs":                 {},
}

// Normalize returns a copy of the schema with unsupported keywords removed at
// every nesting level. It is pure and total: the input is never mutated,
// unknown structures pass through unchanged, and the function never fails.
// Normalize is idempotent, so it runs once per tool descriptor at catalog
// build time, not per call.
func Normalize(s map[string]any) map[string]any {
	if s == nil {
		return nil
	}
	cleaned := make(map[string]any, len(s))
	for k, v := range s {
		if _, drop := droppedKeywords[k]; drop {
			continue
		}
		cleaned[k] = normalizeValue(v)
	}
	return cleaned
}

// normalizeValue recurses into nested objects and arrays; scalars pass
// through untouched.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return Normalize(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
