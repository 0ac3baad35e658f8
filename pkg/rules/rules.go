// Package rules defines the ordered set of text rewrite rules that migrate
// test sources from the old byte-vector/bool client API to the new
// OperationResult API.
package rules

// DefaultReceiver is the client receiver expression the rules match against
// when none is configured.
const DefaultReceiver = "client_"

// Rule is a single rewrite step of the migration.
//
// Apply is a pure function of its input: identical input always produces
// identical output, text the rule does not recognize passes through
// byte-for-byte, and the output of an Apply never matches the rule again.
// A rule that cannot fully convert a construct leaves it unchanged rather
// than emit broken source.
type Rule interface {
	// Name identifies the rule in logs and results.
	Name() string

	// Apply rewrites src and returns the new content.
	Apply(src string) string
}

// RuleSet is an ordered collection of rules. Order matters: later rules may
// rely on normalization done by earlier ones, and each rule must be safe to
// run on text already touched by its predecessors in the same pass.
type RuleSet []Rule

// Options configures rule construction.
type Options struct {
	// Receiver is the client receiver expression in the migrated sources,
	// e.g. "client_" for calls like client_->Set(...). Defaults to
	// DefaultReceiver when empty.
	Receiver string
}

// NewSet returns the full migration rule set in application order:
// byte-vector literals, byte-vector fills, Set call results, Delete call
// results, Get call results.
func NewSet(opts Options) RuleSet {
	recv := opts.Receiver
	if recv == "" {
		recv = DefaultReceiver
	}
	return RuleSet{
		NewLiteralRule(),
		NewFillRule(),
		NewSetResultRule(recv),
		NewDelResultRule(recv),
		NewGetResultRule(recv),
	}
}

// Apply folds every rule over src in order, each rule consuming the output
// of the previous one.
func (rs RuleSet) Apply(src string) string {
	for _, r := range rs {
		src = r.Apply(src)
	}
	return src
}

// Applied reports, in rule order, the names of the rules whose application
// would change src. It applies the set exactly like Apply does.
func (rs RuleSet) Applied(src string) (string, []string) {
	var hits []string
	for _, r := range rs {
		out := r.Apply(src)
		if out != src {
			hits = append(hits, r.Name())
		}
		src = out
	}
	return src, hits
}
