package shell

import (
	"errors"
	"regexp"
)

// ErrEmptyCommand is returned when a segment of the chain has no argv left
// after assignment prefixes are stripped — e.g. a bare "FOO=bar" between two
// semicolons, or two operators with nothing between them.
var ErrEmptyCommand = errors.New("empty command")

var assignmentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// Assignment is a single "NAME=VALUE" prefix stripped from the front of a
// simple command, e.g. the RACK_ENV=test in "RACK_ENV=test bundle exec rspec".
type Assignment struct {
	Name  string
	Value string
}

// SimpleCommand is one command in a chain: its leading environment
// assignments (if any) and its argument vector. Argv is always non-empty by
// construction — Segment rejects an assignment-only or empty segment.
type SimpleCommand struct {
	Assigns []Assignment
	Argv    []string
}

// Chain is an ordered sequence of simple commands joined by pipe, and-if,
// or-if, or semicolon combinators. Per the engine's invariant, every
// SimpleCommand in a Chain must independently classify as Allow for the
// chain as a whole to be allowed — the combinators themselves carry no
// policy weight, since short-circuiting semantics (&&, ||) and sequencing
// (;) don't change which commands could execute.
type Chain struct {
	Commands []SimpleCommand
}

// Segment splits a token stream into a Chain, stripping leading NAME=VALUE
// assignments off the front of each simple command. It returns
// ErrEmptyCommand if any segment (between operators, or at the very start or
// end) has no argv left after assignments are removed.
func Segment(tokens []Token) (Chain, error) {
	var chain Chain
	var cur []Token

	flushSegment := func() error {
		cmd, err := toSimpleCommand(cur)
		if err != nil {
			return err
		}
		chain.Commands = append(chain.Commands, cmd)
		cur = nil
		return nil
	}

	for _, tok := range tokens {
		if tok.IsOperator() {
			if err := flushSegment(); err != nil {
				return Chain{}, err
			}
			continue
		}
		cur = append(cur, tok)
	}
	if err := flushSegment(); err != nil {
		return Chain{}, err
	}

	return chain, nil
}

func toSimpleCommand(tokens []Token) (SimpleCommand, error) {
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Value
	}
	return FromArgv(words)
}

// FromArgv builds a SimpleCommand directly from an already-split word list,
// stripping leading NAME=VALUE assignments the same way toSimpleCommand
// does for tokenized input. It's exported for internal/engine, which
// re-enters segmentation on an argv slice recovered from unwrapping
// timeout/time/xargs/env rather than from fresh tokens.
func FromArgv(words []string) (SimpleCommand, error) {
	var cmd SimpleCommand
	i := 0
	for i < len(words) {
		v := words[i]
		if !assignmentRe.MatchString(v) {
			break
		}
		idx := indexByte(v, '=')
		cmd.Assigns = append(cmd.Assigns, Assignment{Name: v[:idx], Value: v[idx+1:]})
		i++
	}
	for ; i < len(words); i++ {
		cmd.Argv = append(cmd.Argv, words[i])
	}
	if len(cmd.Argv) == 0 {
		return SimpleCommand{}, ErrEmptyCommand
	}
	return cmd, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
