package throttle

import "fmt"

// baseKeyMaxLen bounds BaseKey, so a misconfigured namespace prefix fails
// fast at New() instead of silently truncating or corrupting stored keys.
const baseKeyMaxLen = 64

// validateBaseKey checks the optional namespace prefix: ASCII
// alphanumerics plus a small punctuation set, up to baseKeyMaxLen bytes.
// An empty key is accepted and means "no namespace".
// A BaseKey is operator-chosen configuration, not request-supplied input,
// so it can be held to this stricter charset than the opaque per-request
// key (see DESIGN.md's key-charset Open Question decision).
func validateBaseKey(key string) error {
	if key == "" {
		return nil
	}
	if len(key) > baseKeyMaxLen {
		return fmt.Errorf("throttle: base key cannot exceed %d bytes, got %d bytes", baseKeyMaxLen, len(key))
	}
	for i, r := range key {
		if !isValidBaseKeyRune(r) {
			return fmt.Errorf("throttle: base key contains invalid character %q at position %d", r, i)
		}
	}
	return nil
}

func isValidBaseKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-' || r == ':' || r == '.' || r == '@' || r == '+':
		return true
	default:
		return false
	}
}
