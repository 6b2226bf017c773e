// Package wrapper extracts the inner command a wrapper utility (sh -c,
// bash -c, timeout, time, xargs, a bare env) would actually run, so the
// engine can re-run classification on that inner command instead of
// classifying the wrapper invocation itself — which would otherwise always
// look like a harmless single call to "timeout" or "env".
//
// Every function here is a pure extraction: none of them recurse or
// re-tokenize. The engine owns recursion and the depth/shrinkage bookkeeping
// that bounds it.
package wrapper

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingScript is returned when "sh -c"/"bash -c" has no script
	// argument to unwrap.
	ErrMissingScript = errors.New("missing -c script")
	// ErrMissingDuration is returned when timeout has no duration operand.
	ErrMissingDuration = errors.New("missing duration")
	// ErrMissingCommand is returned when a wrapper has no inner command left
	// after its own flags and operands are consumed.
	ErrMissingCommand = errors.New("missing inner command")
)

// UnwrapShC extracts the script string from "sh -c SCRIPT [args...]" or
// "bash -c SCRIPT [args...]". ok is false when argv isn't sh/bash at all, or
// is sh/bash without a "-c" flag (e.g. "bash script.sh") — a form this
// engine refuses rather than treats as equivalent to running a script file,
// since that requires reading a file this engine never touches.
func UnwrapShC(argv []string) (script string, ok bool, err error) {
	if len(argv) == 0 || (argv[0] != "sh" && argv[0] != "bash") {
		return "", false, nil
	}
	if len(argv) < 2 || argv[1] != "-c" {
		return "", false, nil
	}
	if len(argv) < 3 {
		return "", true, ErrMissingScript
	}
	return argv[2], true, nil
}

// UnwrapTimeout extracts the inner command from
// "timeout [OPTS] DURATION CMD...". Recognized OPTS are timeout's own
// signal/kill-after/preserve-status/foreground/verbose flags; anything else
// in flag position is treated as the duration operand, matching how GNU
// timeout itself stops option parsing at the first non-option argument.
func UnwrapTimeout(argv []string) ([]string, error) {
	args := argv[1:]
	i := 0
loop:
	for i < len(args) {
		switch {
		case args[i] == "--preserve-status" || args[i] == "--foreground" ||
			args[i] == "-v" || args[i] == "--verbose":
			i++
		case args[i] == "-s" || args[i] == "--signal" || args[i] == "-k" || args[i] == "--kill-after":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("timeout %s requires a value", args[i])
			}
			i += 2
		case strings.HasPrefix(args[i], "--signal=") || strings.HasPrefix(args[i], "--kill-after="):
			i++
		default:
			break loop
		}
	}
	if i >= len(args) {
		return nil, ErrMissingDuration
	}
	i++ // consume the duration operand itself
	if i >= len(args) {
		return nil, ErrMissingCommand
	}
	return args[i:], nil
}

// UnwrapTime extracts the inner command from "time [-p] CMD...".
func UnwrapTime(argv []string) ([]string, error) {
	args := argv[1:]
	i := 0
	if i < len(args) && args[i] == "-p" {
		i++
	}
	if i >= len(args) {
		return nil, ErrMissingCommand
	}
	return args[i:], nil
}

// UnwrapXargs extracts the utility and its fixed arguments from
// "xargs [OPTS] UTIL ARGS...". It recognizes xargs's boolean flags (-0, -r,
// -t, -p, -x, a bare "--") and its value-taking flags (-n, -I, -P, -L, -s,
// -a, -d, -E), then returns whatever follows as the inner command.
func UnwrapXargs(argv []string) ([]string, error) {
	args := argv[1:]
	i := 0
loop:
	for i < len(args) {
		switch {
		case args[i] == "-0" || args[i] == "-r" || args[i] == "-t" ||
			args[i] == "-p" || args[i] == "-x" || args[i] == "--":
			i++
		case args[i] == "-n" || args[i] == "-I" || args[i] == "-P" ||
			args[i] == "-L" || args[i] == "-s" || args[i] == "-a" ||
			args[i] == "-d" || args[i] == "-E":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("xargs %s requires a value", args[i])
			}
			i += 2
		default:
			break loop
		}
	}
	if i >= len(args) {
		return nil, ErrMissingCommand
	}
	return args[i:], nil
}

// UnwrapEnv extracts the inner command from
// "env [-i] [NAME=VALUE...] [--] UTIL ARGS...". A bare "env" with no
// arguments is handled by the engine before reaching here (it's a read of
// the current environment, not a wrapper at all).
func UnwrapEnv(argv []string) ([]string, error) {
	args := argv[1:]
	i := 0
loop:
	for i < len(args) {
		switch {
		case args[i] == "-i" || args[i] == "--ignore-environment":
			i++
		case args[i] == "--":
			i++
			break loop
		case strings.Contains(args[i], "=") && !strings.HasPrefix(args[i], "-"):
			i++
		default:
			break loop
		}
	}
	if i >= len(args) {
		return nil, ErrMissingCommand
	}
	return args[i:], nil
}
