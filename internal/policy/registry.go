package policy

import "github.com/normanking/shellgate/internal/shell"

// structured holds the per-utility classifiers for tools whose subcommands
// split into read-only and mutating behavior. It is consulted only after
// classifyFlat has ruled the utility out of the flat safe set.
var structured = map[string]func(shell.SimpleCommand) Decision{
	"git":    classifyGit,
	"jj":     classifyJJ,
	"gh":     classifyGH,
	"yarn":   classifyYarn,
	"npm":    classifyNpm,
	"npx":    classifyNpx,
	"bundle": classifyBundle,
	"gem":    classifyGem,
	"mise":   classifyMise,
	"asdf":   classifyAsdf,
	"brew":   classifyBrew,
	"cargo":  classifyCargo,
}

// Classify decides a single simple command that is not a wrapper utility
// (the engine intercepts sh/bash/timeout/time/xargs/env before reaching
// here). It checks the flat safe set and narrow argument-sensitive
// carve-outs first, then the structured per-utility tables, and finally
// falls through to deny-by-default for any utility this registry has no
// opinion about.
func Classify(cmd shell.SimpleCommand) Decision {
	if len(cmd.Argv) == 0 {
		return Deny("empty command")
	}

	if d, ok := classifyFlat(cmd); ok {
		return d
	}

	if fn, ok := structured[cmd.Argv[0]]; ok {
		return fn(cmd)
	}

	return Deny("utility " + cmd.Argv[0] + " is not in the allowlist")
}
