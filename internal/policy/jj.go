package policy

import "github.com/normanking/shellgate/internal/shell"

// jjReadOnly lists jj subcommands that only inspect repository state.
var jjReadOnly = map[string]bool{
	"log": true, "diff": true, "show": true, "status": true, "st": true,
	"help": true, "--version": true,
	"evolog": true, "interdiff": true,
}

// classifyJJ mirrors classifyGit's shape for Jujutsu: most read-only
// subcommands are a flat allowlist, but "op", "file" and "config" are gated
// on their own sub-subcommand since each has a mutating sibling ("op
// restore"/"op abandon" rewrite the operation log while "op log" only reads
// it; "file" has no mutating form tested here beyond "show"; "config set"
// mutates repo config while "config get" only reads it).
func classifyJJ(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("jj requires a subcommand")
	}

	sub := args[0]
	switch sub {
	case "op":
		if len(args) >= 2 && args[1] == "log" {
			return Allow("jj op log is read-only")
		}
		return Deny("jj op " + subOrEmpty(args) + " is not allowed")
	case "file":
		if len(args) >= 2 && args[1] == "show" {
			return Allow("jj file show is read-only")
		}
		return Deny("jj file " + subOrEmpty(args) + " is not allowed")
	case "config":
		if len(args) >= 2 && args[1] == "get" {
			return Allow("jj config get is read-only")
		}
		return Deny("jj config " + subOrEmpty(args) + " is not allowed")
	}

	if jjReadOnly[sub] {
		return Allow("jj " + sub + " is read-only")
	}
	return Deny("jj subcommand " + sub + " is not allowed")
}

func subOrEmpty(args []string) string {
	if len(args) >= 2 {
		return args[1]
	}
	return "<missing>"
}
