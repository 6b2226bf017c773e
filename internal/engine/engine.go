// Package engine ties internal/shell, internal/wrapper, and internal/policy
// together into the single pure decision function shellgate's hook exists to
// call: given a raw command line, decide whether every simple command it
// could run is on the allowlist.
//
// This plays the role the teacher's tools.Executor.Execute pipeline plays —
// validate, assess, decide — but as a pure function with no execution step:
// shellgate never runs the command it is judging.
package engine

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/normanking/shellgate/internal/policy"
	"github.com/normanking/shellgate/internal/shell"
	"github.com/normanking/shellgate/internal/wrapper"
)

// defaultCacheSize is used when WithCache is given a non-positive size.
const defaultCacheSize = 256

// Decision is the engine's verdict on a command line.
type Decision = policy.Decision

// maxWrapperDepth bounds how many times a wrapper utility (sh -c, timeout,
// xargs, ...) can be unwrapped before the engine gives up and denies. Each
// unwrap also has to produce a strictly shorter remaining line than the one
// that contained it, so depth alone isn't load-bearing for termination —
// this is a defense-in-depth cap, not the only thing preventing a loop.
const maxWrapperDepth = 8

// Stats counts the decisions an Engine has made, mirroring the bookkeeping
// the teacher's tools.Executor keeps on tool invocations — reused here for a
// different metric (allow/deny tallies instead of execution outcomes). Parse
// and unwrap failures are counted as Deny.
type Stats struct {
	Total int
	Allow int
	Deny  int
}

// Engine wraps the stateless Decide function with the stats counters an
// operator-facing "shellgate check" command or audit summary wants, plus an
// optional memoization cache. The zero value is ready to use.
type Engine struct {
	mu    sync.Mutex
	stats Stats
	cache *lru.Cache[string, Decision]
}

// Option configures an Engine, mirroring the teacher's ExecutorOption
// functional-options pattern.
type Option func(*Engine)

// WithCache bounds the engine's decision memoization to size entries. Since
// Decide is a pure function of its input line, repeated identical commands —
// common in agent loops polling "git status" — are served from cache instead
// of re-tokenized. A non-positive size falls back to defaultCacheSize.
func WithCache(size int) Option {
	return func(e *Engine) {
		if size <= 0 {
			size = defaultCacheSize
		}
		c, err := lru.New[string, Decision](size)
		if err != nil {
			// Only returns an error for a non-positive size, which is
			// already ruled out above.
			return
		}
		e.cache = c
	}
}

// New returns a ready-to-use Engine. Without WithCache, every call
// re-tokenizes and re-classifies the line.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide classifies a raw command line, records it in e's running stats, and
// serves or populates the memoization cache when one is configured.
func (e *Engine) Decide(line string) Decision {
	e.mu.Lock()
	if e.cache != nil {
		if d, ok := e.cache.Get(line); ok {
			e.stats.Total++
			if d.Allow {
				e.stats.Allow++
			} else {
				e.stats.Deny++
			}
			e.mu.Unlock()
			return d
		}
	}
	e.mu.Unlock()

	d := Decide(line)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Total++
	if d.Allow {
		e.stats.Allow++
	} else {
		e.stats.Deny++
	}
	if e.cache != nil {
		e.cache.Add(line, d)
	}
	return d
}

// Stats returns a snapshot of the decisions made so far.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Decide is the stateless top-level entry point: tokenize, segment, and
// require every simple command in the resulting chain to independently
// classify as Allow. Any parse failure, depth overrun, or policy denial
// anywhere in the chain denies the whole line — spec's "one strict
// combinator" invariant.
func Decide(line string) Decision {
	return decide(line, 0, len(line)+1)
}

// decide is Decide's recursive core. parentLen is the length of the line
// that produced this one through wrapper unwrapping (or len(line)+1 at the
// top level, which can never trigger the shrinkage check); every recursive
// call into a "sh -c"/"bash -c" script must strictly shrink relative to it.
func decide(line string, depth int, parentLen int) Decision {
	if depth > maxWrapperDepth {
		return policy.Deny("wrapper unwrap depth exceeded")
	}
	if len(line) >= parentLen {
		return policy.Deny("wrapper re-evaluation did not shrink the command")
	}

	tokens, err := shell.Tokenize(line)
	if err != nil {
		return policy.Deny(err.Error())
	}
	chain, err := shell.Segment(tokens)
	if err != nil {
		return policy.Deny(err.Error())
	}
	if len(chain.Commands) == 0 {
		return policy.Deny("empty chain")
	}

	for _, cmd := range chain.Commands {
		d := classify(cmd, depth, len(line))
		if !d.Allow {
			return d
		}
	}
	return policy.Allow("every command in the chain is allowed")
}

// classify routes a single simple command to a wrapper unwrap or, for
// anything that isn't a wrapper, straight to policy.Classify.
func classify(cmd shell.SimpleCommand, depth int, lineLen int) Decision {
	if len(cmd.Argv) == 0 {
		return policy.Deny("empty command")
	}

	switch cmd.Argv[0] {
	case "sh", "bash":
		script, ok, err := wrapper.UnwrapShC(cmd.Argv)
		if err != nil {
			return policy.Deny(err.Error())
		}
		if !ok {
			return policy.Deny(cmd.Argv[0] + " without -c is not allowed")
		}
		return decide(script, depth+1, lineLen)

	case "timeout":
		inner, err := wrapper.UnwrapTimeout(cmd.Argv)
		if err != nil {
			return policy.Deny(fmt.Sprintf("timeout: %v", err))
		}
		return classifyArgv(inner, depth+1, lineLen)

	case "time":
		inner, err := wrapper.UnwrapTime(cmd.Argv)
		if err != nil {
			return policy.Deny(fmt.Sprintf("time: %v", err))
		}
		return classifyArgv(inner, depth+1, lineLen)

	case "xargs":
		inner, err := wrapper.UnwrapXargs(cmd.Argv)
		if err != nil {
			return policy.Deny(fmt.Sprintf("xargs: %v", err))
		}
		return classifyArgv(inner, depth+1, lineLen)

	case "env":
		if len(cmd.Argv) == 1 {
			return policy.Allow("bare env reads the current environment")
		}
		inner, err := wrapper.UnwrapEnv(cmd.Argv)
		if err != nil {
			return policy.Deny(fmt.Sprintf("env: %v", err))
		}
		return classifyArgv(inner, depth+1, lineLen)

	default:
		return policy.Classify(cmd)
	}
}

// classifyArgv re-enters assignment stripping on an argv slice recovered
// from a wrapper (timeout/time/xargs/env can each be followed directly by a
// "NAME=VALUE inner-command" pair) and classifies the result.
func classifyArgv(argv []string, depth int, lineLen int) Decision {
	if depth > maxWrapperDepth {
		return policy.Deny("wrapper unwrap depth exceeded")
	}
	sc, err := shell.FromArgv(argv)
	if err != nil {
		return policy.Deny(err.Error())
	}
	return classify(sc, depth, lineLen)
}
