package sandbox

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soupgym/soupgym/internal/domain"
)

// buildScript assembles the script the interpreter actually runs: the
// context prelude followed by the submission. The prelude binds the
// read-only execution context and, unless networking is allowed,
// replaces the socket entry points so any network attempt raises
// immediately instead of hanging.
func buildScript(code string, view domain.TaskView, allowNetwork bool) (string, error) {
	artifact, err := pyString(view.Artifact)
	if err != nil {
		return "", err
	}
	query, err := pyString(view.Query)
	if err != nil {
		return "", err
	}
	metaJSON, err := json.Marshal(map[string]any{
		"answer_schema": view.AnswerSchema,
		"normalization": view.Normalization,
		"limit_reasons": view.LimitReasons,
	})
	if err != nil {
		return "", fmt.Errorf("encode task metadata: %w", err)
	}
	// The metadata dict is decoded from JSON at runtime; embedding the
	// JSON text as a Python string sidesteps true/True literal drift.
	meta, err := pyString(string(metaJSON))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# soupgym execution context (generated)\n")
	if !allowNetwork {
		b.WriteString(`import socket as _soupgym_socket
def _soupgym_deny(*_args, **_kwargs):
    raise OSError("soupgym: network access is disabled in this sandbox")
_soupgym_socket.socket = _soupgym_deny
_soupgym_socket.create_connection = _soupgym_deny
_soupgym_socket.getaddrinfo = _soupgym_deny
_soupgym_socket.gethostbyname = _soupgym_deny
`)
	}
	fmt.Fprintf(&b, "ARTIFACT = %s\n", artifact)
	fmt.Fprintf(&b, "QUERY = %s\n", query)
	fmt.Fprintf(&b, "_SOUPGYM_METADATA = %s\n", meta)
	b.WriteString(`def task_metadata():
    import json as _json
    return _json.loads(_SOUPGYM_METADATA)
`)
	b.WriteString("# --- submission ---\n")
	b.WriteString(code)
	b.WriteString("\n")
	return b.String(), nil
}

// pyString encodes a Go string as a Python string literal. JSON string
// syntax (including \uXXXX escapes) is valid Python source.
func pyString(s string) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode context value: %w", err)
	}
	return string(raw), nil
}
