package rules

import "regexp"

// GetResultRule rewrites the read side of the migration. The old API
// returned a bare optional, so tests checked the fetched variable directly;
// the new API wraps the payload in a result, so every presence check
// becomes a conjunction of overall success and payload presence:
//
//	if (result.has_value())          →  if (result.success && result.value.has_value())
//	ASSERT_TRUE(result.has_value())  →  ASSERT_TRUE(result.success && result.value.has_value())
//	result->value                    →  *result.value
//
// The same rewrite applies to ASSERT_FALSE, EXPECT_TRUE and EXPECT_FALSE.
//
// Rewrites are constrained to variables provably bound from a Get call in
// the same file. A global has_value() substitution would also hit
// optionals that never passed through the client (hash-ring lookups,
// storage entries) and silently break them; tracking the fetched names
// first keeps the rule from touching anything it does not own.
type GetResultRule struct {
	fetchRe *regexp.Regexp
}

// NewGetResultRule creates the rule for the Get (read) call on the given
// receiver.
func NewGetResultRule(receiver string) *GetResultRule {
	recv := regexp.QuoteMeta(receiver)
	return &GetResultRule{
		fetchRe: regexp.MustCompile(`(?:const\s+)?auto&?\s+(\w+)\s*=\s*` + recv + `->Get\(`),
	}
}

// Name implements Rule.
func (r *GetResultRule) Name() string {
	return "get-result-conjunction"
}

// Apply implements Rule.
func (r *GetResultRule) Apply(src string) string {
	for _, name := range r.fetchedVars(src) {
		q := regexp.QuoteMeta(name)
		conj := name + ".success && " + name + ".value.has_value()"

		ifRe := regexp.MustCompile(`if \(` + q + `\.has_value\(\)\)`)
		src = ifRe.ReplaceAllString(src, "if ("+conj+")")

		assertRe := regexp.MustCompile(`(ASSERT_TRUE|ASSERT_FALSE|EXPECT_TRUE|EXPECT_FALSE)\(` + q + `\.has_value\(\)\)`)
		src = assertRe.ReplaceAllString(src, "${1}("+conj+")")

		derefRe := regexp.MustCompile(`\b` + q + `->value\b`)
		src = derefRe.ReplaceAllString(src, "*"+name+".value")
	}
	return src
}

// fetchedVars returns the names bound from a Get call, in first-appearance
// order without duplicates.
func (r *GetResultRule) fetchedVars(src string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range r.fetchRe.FindAllStringSubmatch(src, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
