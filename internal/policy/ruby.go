package policy

import "github.com/normanking/shellgate/internal/shell"

var bundleReadOnly = map[string]bool{
	"list": true, "info": true, "show": true, "check": true,
}

// bundleExecAllowlist names the bundled test/lint tools "bundle exec" may
// invoke. Unlike bundleReadOnly, which gates bundle's own subcommands,
// this gates what bundle is allowed to hand control to — "bundle exec"
// otherwise runs anything on the bundle's PATH, including "rails console"
// or arbitrary ruby scripts.
var bundleExecAllowlist = map[string]bool{
	"rspec": true, "standardrb": true, "cucumber": true,
	"brakeman": true, "erb_lint": true, "herb": true,
	"rubocop": true, "steep": true, "sorbet": true,
}

func classifyBundle(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("bundle requires a subcommand")
	}
	sub := args[0]
	if sub == "exec" {
		if len(args) < 2 {
			return Deny("bundle exec requires a tool to run")
		}
		tool := args[1]
		if tool == "srb" {
			if len(args) >= 3 && args[2] == "tc" {
				return Allow("bundle exec srb tc is allowlisted")
			}
			return Deny("bundle exec srb " + subOrEmpty(args[1:]) + " is not allowlisted")
		}
		if bundleExecAllowlist[tool] {
			return Allow("bundle exec " + tool + " is allowlisted")
		}
		return Deny("bundle exec " + tool + " is not allowlisted")
	}
	if bundleReadOnly[sub] {
		return Allow("bundle " + sub + " is read-only")
	}
	return Deny("bundle subcommand " + sub + " is not allowed")
}

var gemReadOnly = map[string]bool{
	"list": true, "info": true, "environment": true, "env": true,
	"which": true, "pristine": true, "--version": true, "help": true,
	"contents": true, "specification": true,
}

func classifyGem(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("gem requires a subcommand")
	}
	if gemReadOnly[args[0]] {
		return Allow("gem " + args[0] + " is read-only")
	}
	return Deny("gem subcommand " + args[0] + " is not allowed")
}
