package policy

import (
	"strings"

	"github.com/normanking/shellgate/internal/shell"
)

var yarnReadOnly = map[string]bool{
	"list": true, "info": true, "why": true, "--version": true, "-v": true,
}

// classifyYarn allows the read-only inspection subcommands plus any "test"
// or "test:*" script invocation (yarn's own convention for package.json
// script names), the equivalent "run test"/"run test:*" form, and denies
// everything that mutates node_modules.
func classifyYarn(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("yarn requires a subcommand")
	}
	sub := args[0]
	if sub == "run" {
		if len(args) < 2 {
			return Deny("yarn run requires a script name")
		}
		script := args[1]
		if script == "test" || strings.HasPrefix(script, "test:") {
			return Allow("yarn run " + script + " runs the test script")
		}
		return Deny("yarn run " + script + " is not a test script")
	}
	if sub == "test" || strings.HasPrefix(sub, "test:") {
		return Allow("yarn " + sub + " runs the test script")
	}
	if yarnReadOnly[sub] {
		return Allow("yarn " + sub + " is read-only")
	}
	return Deny("yarn subcommand " + sub + " is not allowed")
}

var npmReadOnly = map[string]bool{
	"view": true, "info": true, "ls": true, "list": true, "search": true,
	"ping": true, "whoami": true, "outdated": true, "--version": true,
	"help": true,
}

func classifyNpm(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("npm requires a subcommand")
	}
	if npmReadOnly[args[0]] {
		return Allow("npm " + args[0] + " is read-only")
	}
	return Deny("npm subcommand " + args[0] + " is not allowed")
}

// npxAllowlist is the small, explicit set of packages npx is permitted to
// fetch and run. Unlike the other per-utility tables this is not "read-only
// vs mutating" — every npx invocation executes arbitrary third-party code by
// design — so the allowlist is scoped to specific known-good dev tooling
// rather than to a behavioral category. This list is a security-critical
// constant: adding an entry means trusting that package's install and
// runtime behavior completely.
var npxAllowlist = map[string]bool{
	"@herb-tools/linter": true,
	"eslint":             true,
	"karma":              true,
	"prettier":           true,
	"tsc":                true,
	"stylelint":          true,
	"jest":               true,
}

// classifyNpx skips npx's own flags (-y/--yes, --no-install, -p/--package
// NAME, a bare "--" terminator) to find the actual package/binary name
// being invoked. If a -p/--package value was seen, that value is the tool
// name checked against npxAllowlist per spec; otherwise the first
// remaining positional is.
func classifyNpx(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	pkg := ""
	i := 0
	for i < len(args) {
		switch {
		case args[i] == "-y" || args[i] == "--yes" || args[i] == "--no-install" || args[i] == "--":
			i++
			continue
		case args[i] == "-p" || args[i] == "--package":
			if i+1 >= len(args) {
				return Deny("npx " + args[i] + " is missing its value")
			}
			pkg = args[i+1]
			i += 2
			continue
		}
		break
	}

	if i >= len(args) {
		return Deny("npx requires a package to run")
	}
	tool := pkg
	if tool == "" {
		tool = args[i]
	}
	if npxAllowlist[tool] {
		return Allow("npx " + tool + " is allowlisted")
	}
	return Deny("npx package " + tool + " is not allowlisted")
}
