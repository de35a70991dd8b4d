// Package wizard drives the multi-step form flows: field validation, the
// step machine and the finalize path that scores a sealed flow and records
// it against the population.
package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// Form holds one submitted step's raw values keyed by field name.
type Form map[string]string

// Get returns a trimmed field value.
func (f Form) Get(name string) string {
	return strings.TrimSpace(f[name])
}

// Bool interprets the usual checkbox encodings.
func (f Form) Bool(name string) bool {
	switch strings.ToLower(f.Get(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// ParseAmount parses a user-entered money amount. Thousands separators are
// tolerated; anything else non-numeric is rejected.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return v, nil
}

const maxTextLen = 100

// SanitizeText strips the characters the population store treats as markup
// hazards and caps the length.
func SanitizeText(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case '<', '>', '"', ';':
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxTextLen {
		out = out[:maxTextLen]
	}
	return out
}
