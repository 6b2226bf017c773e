// Package hook implements the stdin/stdout JSON envelope shellgate's hook
// binary speaks, grounded on the PermissionRequest hook shape the agent
// runtime's own example hooks use (session_id/tool_name/tool_input/cwd in,
// a decision object out) — adapted to the flatter "permissionDecision" wire
// contract this engine's own reference test suite checks for verbatim.
package hook

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/normanking/shellgate/internal/policy"
)

// Request is the subset of the agent runtime's PermissionRequest hook
// payload shellgate reads. Every other field in the envelope — and there
// may be many, depending on the runtime — is decoded into nothing and
// ignored; only ToolName and ToolInput.Command are load-bearing.
type Request struct {
	SessionID string    `json:"session_id,omitempty"`
	ToolName  string    `json:"tool_name,omitempty"`
	ToolInput ToolInput `json:"tool_input"`
	Cwd       string    `json:"cwd,omitempty"`
}

// ToolInput carries the one field this engine actually classifies.
type ToolInput struct {
	Command string `json:"command"`
}

// Response is the decision envelope written to stdout. Only the literal
// substring `"permissionDecision": "allow"` is load-bearing to a caller —
// everything else, including an explicit "deny", is advisory — but the
// full struct is still emitted so "shellgate check" and the audit log have
// a reason to show.
type Response struct {
	PermissionDecision string `json:"permissionDecision"`
	Reason             string `json:"reason,omitempty"`
}

const (
	decisionAllow = "allow"
	decisionDeny  = "deny"
)

// Decode reads and parses a hook request from r. A malformed envelope is a
// caller error, not a policy question, so it's returned as a plain error —
// the caller (cmd/shellgate) is responsible for turning any such error into
// a fail-closed Deny response before it ever reaches this package's
// contract with stdout.
func Decode(r io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// CorrelationID returns req.SessionID if the caller supplied one, or a
// freshly generated UUID otherwise. Every decision is logged and, when
// auditing is enabled, persisted under this ID so a single invocation's
// trace can be reconstructed even when the runtime's own session_id is
// absent (some hook invocations, e.g. a local "shellgate check", have none).
func CorrelationID(req Request) string {
	if req.SessionID != "" {
		return req.SessionID
	}
	return uuid.NewString()
}

// Encode writes d to w as the Response envelope.
//
// This deliberately uses MarshalIndent rather than a plain Encoder: the
// wire contract callers rely on (including this engine's own reference test
// suite) is the literal substring `"permissionDecision": "allow"` — with a
// space after the colon. encoding/json's compact encoder never inserts that
// space; its indenting encoder always does when given a non-empty indent,
// which is the only documented way to get it without hand-building JSON.
func Encode(w io.Writer, d policy.Decision) error {
	resp := Response{Reason: d.Reason}
	if d.Allow {
		resp.PermissionDecision = decisionAllow
	} else {
		resp.PermissionDecision = decisionDeny
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// IsBashInvocation reports whether req targets the Bash tool, the only
// ToolName this engine has an opinion about. Every other tool name — Read,
// Glob, Grep, WebFetch, and so on — is outside the scope of a shell command
// gate and should be allowed to pass through by the caller without
// consulting the engine at all.
func IsBashInvocation(req Request) bool {
	return req.ToolName == "" || req.ToolName == "Bash"
}
