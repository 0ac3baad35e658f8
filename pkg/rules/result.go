package rules

import (
	"regexp"
	"strings"
)

// ResultRule rewrites a one-line bool declaration fed by a mutating client
// call into two statements: a structured-result declaration and a bool
// declaration reading its success field. For example
//
//	bool ok = client_->Set(key, value);
//
// becomes
//
//	auto set_result = client_->Set(key, value);
//	bool ok = set_result.success;
//
// Only statements complete on a single line are matched; a call spanning
// several lines is left alone, since splicing the success read into the
// middle of it would break the source.
//
// Intermediate names are unique per file: the first call site gets the bare
// prefix, later ones a numbered suffix, and the allocator seeds itself from
// names already present in the input so a partially migrated file never
// ends up with two declarations of the same temporary.
type ResultRule struct {
	name   string
	prefix string
	lineRe *regexp.Regexp
	seedRe *regexp.Regexp
}

// NewSetResultRule creates the rule for the Set (write) call.
func NewSetResultRule(receiver string) *ResultRule {
	return newResultRule("set-bool-to-result", "set_result", receiver, "Set")
}

// NewDelResultRule creates the rule for the Delete (remove) call.
func NewDelResultRule(receiver string) *ResultRule {
	return newResultRule("delete-bool-to-result", "del_result", receiver, "Delete")
}

func newResultRule(name, prefix, receiver, method string) *ResultRule {
	recv := regexp.QuoteMeta(receiver)
	return &ResultRule{
		name:   name,
		prefix: prefix,
		lineRe: regexp.MustCompile(`^(\s*)bool\s+(\w+)\s*=\s*(` + recv + `->` + method + `\(.*\);)\s*$`),
		seedRe: regexp.MustCompile(`\b` + regexp.QuoteMeta(prefix) + `(\d*)\b`),
	}
}

// Name implements Rule.
func (r *ResultRule) Name() string {
	return r.name
}

// Apply implements Rule.
func (r *ResultRule) Apply(src string) string {
	names := newNameAllocator(r.prefix, r.seedRe, src)
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	changed := false
	for _, line := range lines {
		m := r.lineRe.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		indent, boolName, call := m[1], m[2], m[3]
		tmp := names.alloc()
		out = append(out, indent+"auto "+tmp+" = "+call)
		out = append(out, indent+"bool "+boolName+" = "+tmp+".success;")
		changed = true
	}
	if !changed {
		return src
	}
	return strings.Join(out, "\n")
}
