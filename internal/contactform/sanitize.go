package contactform

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SingleLine collapses every whitespace run to one space and trims.
// Non-string input yields "".
func SingleLine(v any) string {
	s, _ := v.(string)
	return strings.Join(strings.Fields(s), " ")
}

// MultiLine strips carriage returns and trims, keeping inner newlines.
func MultiLine(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
}

// Email lowercases and trims v, returning "" unless it looks like local@domain.tld.
func Email(v any) string {
	s, _ := v.(string)
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailPattern.MatchString(s) {
		return ""
	}
	return s
}

// Phone keeps digits, whitespace and + ( ) . - only, then trims.
func Phone(v any) string {
	s, _ := v.(string)
	kept := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', unicode.IsSpace(r):
			return r
		case strings.ContainsRune("+().-", r):
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(kept)
}

// URL trims v. No further validation is applied.
func URL(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// pickChoice returns the trimmed value when it belongs to c, else "".
func pickChoice[T ~string](v any, c catalog[T]) T {
	s, _ := v.(string)
	key := T(strings.TrimSpace(s))
	if !c.has(key) {
		return ""
	}
	return key
}

// pickList keeps the string elements of v that belong to c, trimmed and
// de-duplicated in first-seen order. Non-list input yields an empty list.
func pickList[T ~string](v any, c catalog[T]) []T {
	var raw []any
	switch list := v.(type) {
	case []any:
		raw = list
	case []string:
		raw = make([]any, len(list))
		for i, s := range list {
			raw[i] = s
		}
	}
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		key := T(strings.TrimSpace(s))
		if !c.has(key) || slices.Contains(out, key) {
			continue
		}
		out = append(out, key)
	}
	return out
}
