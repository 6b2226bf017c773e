package policy

import (
	"strings"

	"github.com/normanking/shellgate/internal/shell"
)

// flatSafe is the set of inspection utilities that are allowed regardless of
// their arguments. Arguments are not examined, so argument-driven side
// effects such as find's -delete/-exec or awk's system() are not filtered
// here.
var flatSafe = map[string]bool{
	"grep": true, "egrep": true, "fgrep": true, "rg": true,
	"find": true, "cat": true, "jq": true, "yq": true,
	"base64": true, "xxd": true, "od": true, "hexdump": true,
	"pgrep": true, "ps": true, "getconf": true,
	"ls": true, "wc": true, "head": true, "tail": true,
	"less": true, "more": true,
	"sort": true, "uniq": true, "diff": true, "cut": true,
	"tr": true, "nl": true, "column": true, "comm": true,
	"join": true, "paste": true, "rev": true, "shuf": true,
	"tac": true, "yes": true, "seq": true,
	"file": true, "stat": true, "du": true, "df": true,
	"which": true, "whoami": true, "pwd": true,
	"echo": true, "printf": true, "date": true,
	"basename": true, "dirname": true, "readlink": true, "realpath": true,
	"true": true, "false": true, "test": true, "[": true,
	"printenv": true, "hostname": true, "uname": true,
	"id": true, "groups": true, "awk": true,
	"type": true, "command": true,
}

// classifyFlat handles utilities outside the flat-safe set that still need a
// narrow, argument-sensitive carve-out: sed and tee can both write files, so
// they are allowed only in the read-only shapes an inspection workflow
// actually needs.
func classifyFlat(cmd shell.SimpleCommand) (Decision, bool) {
	name := cmd.Argv[0]
	if flatSafe[name] {
		return Allow(name + " is in the flat safe set"), true
	}
	switch name {
	case "sed":
		return classifySed(cmd.Argv[1:]), true
	case "tee":
		return classifyTee(cmd.Argv[1:]), true
	}
	return Decision{}, false
}

// classifySed denies any in-place edit ("-i", "-i.bak", "--in-place", or an
// -i inside a short-option cluster such as "-ni"). The sed script itself is
// not inspected, so its w/W commands and the s///w flag, which write to a
// named file, are not detected here.
func classifySed(args []string) Decision {
	for _, a := range args {
		if a == "--in-place" || strings.HasPrefix(a, "--in-place=") {
			return Deny("sed -i performs an in-place edit")
		}
		if len(a) > 1 && a[0] == '-' && a[1] != '-' {
			for _, c := range a[1:] {
				if c == 'i' {
					return Deny("sed -i performs an in-place edit")
				}
				if c == 'e' || c == 'f' || c == 'l' {
					break // the rest of the word is this flag's value
				}
			}
		}
	}
	return Allow("sed without -i is not an in-place edit")
}

// classifyTee denies writing to anything but stdout or /dev/null: a bare
// "tee" with no file operand, or a file operand that is itself "-", only
// echoes its input back out.
func classifyTee(args []string) Decision {
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			continue
		}
		if a == "-" || a == "/dev/null" {
			continue
		}
		return Deny("tee would write to " + a)
	}
	return Allow("tee without a real file target only echoes stdin")
}
