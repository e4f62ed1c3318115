package llm

import (
	"encoding/json"
	"strings"
)

// Degraded-result keys: callers always get a mapping back, even when the
// model ignored the JSON-only instruction entirely.
const (
	ErrorKey     = "erreur"
	RawTextKey   = "texte_brut"
	ParseFailure = "Parsing JSON échoué"
)

// RecoverJSON coerces a model reply into a mapping. Strict parse first;
// then a bracket-depth scan for the first balanced top-level object, which
// tolerates surrounding prose, code fences, and braces inside quoted
// strings; finally the degraded {erreur, texte_brut} shape with the reply
// reproduced verbatim. It never fails.
func RecoverJSON(raw string) map[string]any {
	if m, ok := tryParse(strings.TrimSpace(raw)); ok {
		return m
	}
	if obj := balancedObject(raw); obj != "" {
		if m, ok := tryParse(obj); ok {
			return m
		}
	}
	return map[string]any{
		ErrorKey:   ParseFailure,
		RawTextKey: raw,
	}
}

func tryParse(s string) (map[string]any, bool) {
	if s == "" || s[0] != '{' {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

// balancedObject returns the first balanced {...} substring, tracking
// string literals and escapes so braces inside quoted values don't
// terminate the scan early.
func balancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
