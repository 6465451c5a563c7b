// Package ident turns arbitrary display text into safe code
// identifiers for the emitters.
package ident

import (
	"fmt"
	"strings"
)

const (
	// DigitPrefix is prepended when sanitization yields a digit-leading name.
	DigitPrefix = "n_"
	// Fallback replaces names that sanitize to nothing at all.
	Fallback = "node"
)

// Sanitize maps text to a lower-cased identifier containing only
// [a-z0-9_]. It is total (defined for every input, including the empty
// string) and idempotent. It does NOT deduplicate across a compilation
// unit; use a Uniquer for that.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}

	s := strings.Trim(b.String(), "_")
	if s == "" {
		return Fallback
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = DigitPrefix + s
	}
	return s
}

// Uniquer hands out collision-free identifiers within one compilation
// unit. Differently labeled nodes can sanitize to the same name; the
// second taker gets a numeric suffix.
type Uniquer struct {
	taken map[string]int
}

// NewUniquer creates an empty uniquer.
func NewUniquer() *Uniquer {
	return &Uniquer{taken: make(map[string]int)}
}

// Take sanitizes text and returns a name not handed out before.
// Suffixed names are claimed too, so a later label that sanitizes
// straight to an already-issued suffix still comes back unique.
func (u *Uniquer) Take(text string) string {
	name := Sanitize(text)
	count, ok := u.taken[name]
	if !ok {
		u.taken[name] = 1
		return name
	}

	candidate := fmt.Sprintf("%s_%d", name, count+1)
	for {
		if _, clash := u.taken[candidate]; !clash {
			break
		}
		count++
		candidate = fmt.Sprintf("%s_%d", name, count+1)
	}
	u.taken[name] = count + 1
	u.taken[candidate] = 1
	return candidate
}
