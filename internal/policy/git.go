package policy

import (
	"strings"

	"github.com/normanking/shellgate/internal/shell"
)

// gitReadOnly lists git subcommands that only ever inspect repository state.
var gitReadOnly = map[string]bool{
	"log": true, "diff": true, "show": true, "status": true,
	"fetch": true, "ls-tree": true, "ls-files": true, "grep": true,
	"rev-parse": true, "rev-list": true, "cat-file": true,
	"merge-base": true, "merge-tree": true, "--version": true,
	"help": true, "--help": true, "shortlog": true, "describe": true,
	"blame": true, "reflog": true,
}

// gitRemoteReadOnly lists the "git remote" sub-subcommands that only read
// remote configuration. A bare "git remote" (listing configured remotes)
// is handled separately since it has no sub-subcommand at all.
var gitRemoteReadOnly = map[string]bool{
	"-v": true, "get-url": true, "show": true,
}

// gitBranchTagReadOnly lists the flags that keep "git branch"/"git tag" in
// their listing form. Any other flag (create, delete, force, rename) denies.
var gitBranchTagReadOnly = map[string]bool{
	"-l": true, "--list": true, "-v": true, "--contains": true,
}

// gitConfigMutating lists "git config" flags that write rather than read.
var gitConfigMutating = map[string]bool{
	"--add": true, "--unset": true, "--unset-all": true,
	"--replace-all": true, "--remove-section": true, "--rename-section": true,
	"-e": true, "--edit": true,
}

// classifyGit implements spec's git policy: a leading run of "-C DIR" pairs
// is stripped (git's own repo-selection flag), a leading "-c KEY=VAL" is
// denied outright since it can override arbitrary git behavior including
// hooks and credential helpers, and the first remaining argument is the
// subcommand checked against the read-only tables above.
func classifyGit(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	i := 0
	for i < len(args) {
		switch {
		case args[i] == "-c" || strings.HasPrefix(args[i], "-c"):
			return Deny("git -c overrides are not allowed")
		case args[i] == "-C":
			if i+1 >= len(args) {
				return Deny("git -C is missing its directory argument")
			}
			i += 2
			continue
		}
		break
	}

	if i >= len(args) {
		return Deny("git requires a subcommand")
	}

	sub := args[i]
	rest := args[i+1:]

	switch sub {
	case "remote":
		return classifyGitRemote(rest)
	case "branch":
		return classifyGitBranchOrTag("branch", rest)
	case "tag":
		return classifyGitBranchOrTag("tag", rest)
	case "config":
		return classifyGitConfig(rest)
	}
	if gitReadOnly[sub] {
		return Allow("git " + sub + " is read-only")
	}
	return Deny("git subcommand " + sub + " is not allowed")
}

func classifyGitRemote(rest []string) Decision {
	if len(rest) == 0 {
		return Allow("git remote with no arguments lists configured remotes")
	}
	if gitRemoteReadOnly[rest[0]] {
		return Allow("git remote " + rest[0] + " is read-only")
	}
	return Deny("git remote " + rest[0] + " is not allowed")
}

// classifyGitBranchOrTag allows only the listing forms of "git branch" and
// "git tag": no arguments, or a run of flags drawn from
// gitBranchTagReadOnly. Any create/delete/rename/force flag, or any bare
// positional argument (a branch or tag name to create), denies.
func classifyGitBranchOrTag(name string, rest []string) Decision {
	if len(rest) == 0 {
		return Allow("git " + name + " with no arguments lists " + name + "es")
	}
	for _, a := range rest {
		if !gitBranchTagReadOnly[a] {
			return Deny("git " + name + " " + a + " is not a listing form")
		}
	}
	return Allow("git " + name + " is a listing form")
}

// classifyGitConfig allows read forms ("git config <key>", "--get ...",
// "--list") and denies any flag that writes configuration, as well as the
// "git config <key> <value>" set form (more than one positional argument).
func classifyGitConfig(rest []string) Decision {
	if len(rest) == 0 {
		return Deny("git config requires a key or read flag")
	}
	positional := 0
	for _, a := range rest {
		if gitConfigMutating[a] {
			return Deny("git config " + a + " mutates configuration")
		}
		if !strings.HasPrefix(a, "-") {
			positional++
		}
	}
	if positional > 1 {
		return Deny("git config with a key and a value sets configuration")
	}
	return Allow("git config without a mutating flag or value is read-only")
}
