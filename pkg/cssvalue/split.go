// Package cssvalue parses resolved style values: lengths, positions, colors,
// angles and 2D transforms. Every function is pure; a value that cannot be
// parsed reports ok=false (or a zero value) instead of an error so callers
// can fall back the way the style language itself does.
package cssvalue

import (
	"strings"
	"unicode"
)

// SplitTopLevel splits s on sep, ignoring separators nested inside
// parentheses or quotes. Parts are trimmed; empty parts are dropped.
func SplitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	var quote rune
	start := 0
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == sep && depth == 0:
			if p := strings.TrimSpace(s[start:i]); p != "" {
				parts = append(parts, p)
			}
			start = i + len(string(r))
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// Fields splits s on whitespace outside parentheses, so that
// "rgba(0, 0, 0, .5) 2px 4px" yields three fields.
func Fields(s string) []string {
	var out []string
	depth := 0
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case unicode.IsSpace(r) && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// Func splits a functional notation such as "circle(50% at 0 0)" into its
// lower-cased name and raw argument string.
func Func(s string) (name, args string, ok bool) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	name = strings.ToLower(strings.TrimSpace(s[:open]))
	for _, r := range name {
		if !(r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "", "", false
		}
	}
	return name, s[open+1 : len(s)-1], true
}

// Args splits a function argument list on commas, or on whitespace when no
// top-level comma is present.
func Args(args string) []string {
	if parts := SplitTopLevel(args, ','); len(parts) > 1 {
		return parts
	}
	return Fields(args)
}

// Unquote strips one level of matching single or double quotes.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// URL extracts the target of a url(...) token.
func URL(s string) (string, bool) {
	name, args, ok := Func(s)
	if !ok || name != "url" {
		return "", false
	}
	u := Unquote(args)
	return u, u != ""
}
