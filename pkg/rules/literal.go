package rules

import (
	"regexp"
	"strings"
)

// literalRe matches a byte-vector declaration initialized from a brace list,
// e.g. std::vector<uint8_t> value = {'h', 'e', 'l', 'l', 'o'};
var literalRe = regexp.MustCompile(`std::vector<uint8_t>\s+(\w+)\s*=\s*\{([^}]+)\};`)

// LiteralRule rewrites byte-vector declarations built from single-character
// literals into string declarations holding the concatenated characters.
//
// The rule is strict: if any element of the brace list is not a
// single-quoted one-character literal (numeric bytes, casts, hex escapes),
// the whole declaration is left untouched for manual follow-up. A partial
// conversion would silently corrupt the source, so declining is the only
// safe behavior here.
type LiteralRule struct{}

// NewLiteralRule creates a new LiteralRule.
func NewLiteralRule() *LiteralRule {
	return &LiteralRule{}
}

// Name implements Rule.
func (r *LiteralRule) Name() string {
	return "byte-literal-to-string"
}

// Apply implements Rule.
func (r *LiteralRule) Apply(src string) string {
	return literalRe.ReplaceAllStringFunc(src, func(match string) string {
		groups := literalRe.FindStringSubmatch(match)
		lit, ok := parseCharList(groups[2])
		if !ok {
			return match
		}
		return "std::string " + groups[1] + " = \"" + lit + "\";"
	})
}

// parseCharList parses a comma-separated list of single-quoted
// one-character literals and returns the concatenation re-escaped for a
// double-quoted string literal. It reports false if the list contains
// anything else, including an empty list.
func parseCharList(list string) (string, bool) {
	var out strings.Builder
	rest := strings.TrimSpace(list)
	if rest == "" {
		return "", false
	}
	for {
		c, remaining, ok := scanCharLiteral(rest)
		if !ok {
			return "", false
		}
		out.WriteString(escapeStringChar(c))
		rest = strings.TrimSpace(remaining)
		if rest == "" {
			return out.String(), true
		}
		if !strings.HasPrefix(rest, ",") {
			return "", false
		}
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			// Trailing comma with no element behind it.
			return "", false
		}
	}
}

// scanCharLiteral consumes one single-quoted character literal from the
// front of s, returning the decoded character and the unconsumed tail.
func scanCharLiteral(s string) (byte, string, bool) {
	if len(s) < 3 || s[0] != '\'' {
		return 0, "", false
	}
	if s[1] == '\\' {
		if len(s) < 4 || s[3] != '\'' {
			return 0, "", false
		}
		c, ok := decodeEscape(s[2])
		if !ok {
			return 0, "", false
		}
		return c, s[4:], true
	}
	if s[1] == '\'' || s[2] != '\'' {
		return 0, "", false
	}
	return s[1], s[3:], true
}

// decodeEscape maps the common C escape letters to their character values.
// Hex and multi-digit octal escapes are not handled; a list containing them
// makes the whole declaration decline.
func decodeEscape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case 'a':
		return '\a', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'v':
		return '\v', true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	}
	return 0, false
}

// escapeStringChar renders one character for use inside a double-quoted
// string literal.
func escapeStringChar(c byte) string {
	switch c {
	case '"':
		return `\"`
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case 0:
		return `\0`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\v':
		return `\v`
	}
	return string(c)
}
