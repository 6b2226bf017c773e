package policy

import (
	"strings"

	"github.com/normanking/shellgate/internal/shell"
)

// ghEntityTopLevels are the gh subcommands that take a shared read-only
// action set as their next word: view, list, diff, checks, status.
var ghEntityTopLevels = map[string]bool{
	"pr": true, "issue": true, "run": true, "release": true, "repo": true,
}

// ghReadOnlyActions is the single action set spec §4.4.2 applies uniformly
// across pr/issue/run/release/repo.
var ghReadOnlyActions = map[string]bool{
	"view": true, "list": true, "diff": true, "checks": true, "status": true,
}

// classifyGH handles gh's ordinary subcommands via ghReadOnlyActions, and
// routes "gh api" to classifyGHAPI, which has to infer an HTTP method rather
// than look one up in a table.
func classifyGH(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("gh requires a subcommand")
	}

	sub := args[0]
	switch sub {
	case "api":
		if len(args) < 2 {
			return Deny("gh api requires an endpoint")
		}
		return classifyGHAPI(args[1:])
	case "search":
		if len(args) < 2 {
			return Deny("gh search requires a target")
		}
		return Allow("gh search is read-only")
	case "auth":
		if len(args) >= 2 && args[1] == "status" {
			return Allow("gh auth status is read-only")
		}
		return Deny("gh auth " + subOrEmpty(args) + " is not allowed")
	case "help", "--version":
		return Allow("gh " + sub + " is read-only")
	}

	if !ghEntityTopLevels[sub] {
		return Deny("gh subcommand " + sub + " is not allowed")
	}
	if len(args) < 2 {
		return Deny("gh " + sub + " requires an action")
	}
	if ghReadOnlyActions[args[1]] {
		return Allow("gh " + sub + " " + args[1] + " is read-only")
	}
	return Deny("gh " + sub + " " + args[1] + " is not allowed")
}

// classifyGHAPI infers the effective HTTP method of a "gh api" invocation.
// The endpoint itself is trusted verbatim (this engine has no notion of
// which REST paths are sensitive); what matters is whether the call is
// forced into a non-GET method via -X/--method, or implicitly mutating via
// a field-setting flag (-f, -F, --field, --raw-field) with no explicit
// "-X GET" to override that implication.
func classifyGHAPI(args []string) Decision {
	method := ""
	hasFieldFlag := false

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-X" || a == "--method":
			if i+1 >= len(args) {
				return Deny("gh api " + a + " is missing its value")
			}
			method = args[i+1]
			i++
		case strings.HasPrefix(a, "--method="):
			method = strings.TrimPrefix(a, "--method=")
		case a == "-f" || a == "-F" || a == "--field" || a == "--raw-field":
			hasFieldFlag = true
		}
	}

	if method != "" && !strings.EqualFold(method, "GET") {
		return Deny("gh api -X " + method + " is a mutating request")
	}
	if hasFieldFlag && !strings.EqualFold(method, "GET") {
		return Deny("gh api field flags imply a mutating request")
	}
	return Allow("gh api defaults to GET")
}
