// Package policy holds the compiled-in allow/deny tables shellgate
// classifies simple commands against: a flat set of always-safe read-only
// utilities, and structured per-utility tables for tools whose subcommands
// split cleanly into read-only and mutating behavior (git, jj, gh, yarn,
// npm, bundle, mise, asdf, gem, brew, cargo, npx).
//
// These tables are Go constants, not data loaded from a config file. An
// external policy file would be an attack surface an agent's own tool calls
// could potentially influence; a value only an operator with repo-write
// access to shellgate itself can change is a narrower one.
package policy

// Decision is the verdict classification returns for a single simple
// command or, at the engine layer, an entire chain.
type Decision struct {
	Allow  bool
	Reason string
}

// Allow builds an affirmative Decision carrying a human-readable reason,
// useful for "check" debugging output and audit log rows.
func Allow(reason string) Decision {
	return Decision{Allow: true, Reason: reason}
}

// Deny builds a negative Decision. Every error path in this package and in
// internal/shell, internal/wrapper, and internal/engine ultimately resolves
// to a Deny rather than propagating as a bare error, per the fail-closed
// contract the hook's stdout protocol depends on.
func Deny(reason string) Decision {
	return Decision{Allow: false, Reason: reason}
}
