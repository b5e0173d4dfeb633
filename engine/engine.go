// Package engine defines the reasoning engine boundary: an opaque
// request/response service that accepts the full conversation plus the tool
// catalog in its own dialect and returns either structured tool calls or
// free text. Provider adapters live in subpackages; this package owns the
// normalized request/response shapes so downstream logic never branches per
// vendor.
package engine

import (
	"context"
	"fmt"

	"github.com/exportbay/fleetagent/core"
)

// ToolDefinition declaratively exposes a callable tool to the engine.
// Parameters is a normalized (engine-dialect) JSON-Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized engine input produced by the loop: the full
// conversation snapshot plus the session's tool catalog. The engine is
// stateless between calls and depends entirely on Contents for context.
type Request struct {
	Contents []core.Content   `json:"contents"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
}

// Response is the engine's answer for one round: assistant content whose
// parts carry text, tool calls, or both. No tool-call parts means the turn is
// a final answer.
type Response struct {
	Content core.Content `json:"content"`
}

// Engine is the minimal interface required to drive one reasoning round.
// Errors returned here are infrastructure failures (transport, quota); the
// loop retries once and then aborts the query.
type Engine interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns metadata about the engine implementation.
	Info() Info
}

// Info contains metadata about an engine implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "gemini", "openai", "anthropic", ...
}

// Stub is a scripted in-memory Engine useful for tests. Each Generate call
// consumes the next scripted response in order; it records every request it
// receives so tests can assert on the conversation the loop sent.
type Stub struct {
	info      Info
	responses []StubResponse
	calls     int

	// Requests holds every request seen, in order.
	Requests []Request
}

// StubResponse is one scripted engine round: either content or an error.
type StubResponse struct {
	Content core.Content
	Err     error
}

// NewStub constructs a scripted engine.
func NewStub(responses ...StubResponse) *Stub {
	return &Stub{info: Info{Name: "stub", Provider: "test"}, responses: responses}
}

// StubText scripts a plain-text answer round.
func StubText(text string) StubResponse {
	return StubResponse{Content: core.Content{
		Role:  "assistant",
		Parts: []core.Part{core.TextPart{Text: text}},
	}}
}

// StubToolCall scripts a single-tool-call round.
func StubToolCall(name string, args map[string]any) StubResponse {
	return StubResponse{Content: core.Content{
		Role:  "assistant",
		Parts: []core.Part{core.ToolCallPart{ToolCall: core.ToolCall{Name: name, Arguments: args}}},
	}}
}

// StubErr scripts an engine infrastructure failure.
func StubErr(err error) StubResponse { return StubResponse{Err: err} }

// Generate implements Engine by replaying the script. Once the script is
// exhausted it keeps returning the last scripted response, which lets tests
// model an engine that never stops requesting tools.
func (s *Stub) Generate(_ context.Context, req Request) (*Response, error) {
	s.Requests = append(s.Requests, req)
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("stub engine has no scripted responses")
	}
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	scripted := s.responses[idx]
	if scripted.Err != nil {
		return nil, scripted.Err
	}
	return &Response{Content: scripted.Content}, nil
}

// Info implements Engine.
func (s *Stub) Info() Info { return s.info }

// Calls returns how many Generate calls the stub has served.
func (s *Stub) Calls() int { return s.calls }
