package policy

import "github.com/normanking/shellgate/internal/shell"

var miseReadOnly = map[string]bool{
	"ls": true, "list": true, "current": true, "which": true,
	"doctor": true, "--version": true, "env": true, "help": true,
}

// classifyMise gates "mise settings" on its own "get" sub-subcommand, since
// "settings set" mutates global toolchain configuration.
func classifyMise(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("mise requires a subcommand")
	}
	if args[0] == "settings" {
		if len(args) >= 2 && args[1] == "get" {
			return Allow("mise settings get is read-only")
		}
		return Deny("mise settings " + subOrEmpty(args) + " is not allowed")
	}
	if miseReadOnly[args[0]] {
		return Allow("mise " + args[0] + " is read-only")
	}
	return Deny("mise subcommand " + args[0] + " is not allowed")
}

var asdfReadOnly = map[string]bool{
	"current": true, "which": true, "help": true, "list": true,
	"--version": true, "info": true,
}

// classifyAsdf gates "asdf plugin" on its own "list" sub-subcommand, since
// "plugin add"/"plugin remove" install or delete plugin code.
func classifyAsdf(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("asdf requires a subcommand")
	}
	if args[0] == "plugin" {
		if len(args) >= 2 && args[1] == "list" {
			return Allow("asdf plugin list is read-only")
		}
		return Deny("asdf plugin " + subOrEmpty(args) + " is not allowed")
	}
	if asdfReadOnly[args[0]] {
		return Allow("asdf " + args[0] + " is read-only")
	}
	return Deny("asdf subcommand " + args[0] + " is not allowed")
}

var brewReadOnly = map[string]bool{
	"list": true, "info": true, "--version": true, "help": true,
	"config": true, "doctor": true, "deps": true, "desc": true, "home": true,
}

func classifyBrew(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("brew requires a subcommand")
	}
	if brewReadOnly[args[0]] {
		return Allow("brew " + args[0] + " is read-only")
	}
	return Deny("brew subcommand " + args[0] + " is not allowed")
}

// cargoReadOnly includes build and test actions alongside pure inspection
// commands: cargo build/test/bench compile and run project-local code under
// cargo's own sandboxed target directory, unlike "cargo install" (writes
// outside the project) or "cargo run" (executes the built binary directly).
var cargoReadOnly = map[string]bool{
	"clippy": true, "test": true, "build": true, "check": true,
	"doc": true, "search": true, "--version": true, "bench": true,
	"fmt": true, "tree": true, "metadata": true,
}

func classifyCargo(cmd shell.SimpleCommand) Decision {
	args := cmd.Argv[1:]
	if len(args) == 0 {
		return Deny("cargo requires a subcommand")
	}
	if cargoReadOnly[args[0]] {
		return Allow("cargo " + args[0] + " is allowed")
	}
	return Deny("cargo subcommand " + args[0] + " is not allowed")
}
