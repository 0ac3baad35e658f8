package rules

import "regexp"

var (
	// fillCharRe matches a byte-vector fill constructor with a repeat count
	// and a character, e.g. std::vector<uint8_t> value(10, 'x')
	fillCharRe = regexp.MustCompile(`std::vector<uint8_t>\s+(\w+)\((\d+),\s*'((?:\\.|[^'\\]))'\)`)

	// fillCastRe matches the variant filling with a numeric byte behind a
	// narrowing cast, e.g. std::vector<uint8_t> value(n, static_cast<uint8_t>(i % 256))
	fillCastRe = regexp.MustCompile(`std::vector<uint8_t>\s+(\w+)\(([^,]+),\s*static_cast<uint8_t>\(([^)]+)\)\)`)
)

// FillRule rewrites byte-vector fill constructors into the equivalent
// string constructors: the repeat count is kept, a fill character moves
// into the string form, and a static_cast<uint8_t> narrows to char instead.
type FillRule struct{}

// NewFillRule creates a new FillRule.
func NewFillRule() *FillRule {
	return &FillRule{}
}

// Name implements Rule.
func (r *FillRule) Name() string {
	return "byte-fill-to-string"
}

// Apply implements Rule.
func (r *FillRule) Apply(src string) string {
	src = fillCharRe.ReplaceAllStringFunc(src, func(match string) string {
		groups := fillCharRe.FindStringSubmatch(match)
		c, rest, ok := scanCharLiteral("'" + groups[3] + "'")
		if !ok || rest != "" {
			return match
		}
		return "std::string " + groups[1] + "(" + groups[2] + ", \"" + escapeStringChar(c) + "\")"
	})
	return fillCastRe.ReplaceAllString(src, "std::string $1($2, static_cast<char>($3))")
}
