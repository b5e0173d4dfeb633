package core

// Part represents a polymorphic segment of role-based content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string // Plain UTF-8 text
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// ToolCall describes a tool invocation requested by the reasoning engine.
// Arguments are the already-decoded argument object; engines that surface
// raw JSON strings decode them before constructing the part.
type ToolCall struct {
	ID        string         `json:"id,omitempty"` // Correlates the call to its result
	Name      string         `json:"name"`         // Tool name as listed in the catalog
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolCallPart wraps a ToolCall as a content part.
type ToolCallPart struct {
	ToolCall ToolCall
}

// isPart implements the Part interface for ToolCallPart.
func (ToolCallPart) isPart() {}

// ToolResult describes the outcome of a previously requested tool call.
// Exactly one of Text / Error is meaningful: Error is empty on success and
// carries the failure description otherwise. Either way the result is
// conversation data, never a loop-level error.
type ToolResult struct {
	ID    string `json:"id"`              // Matches the originating ToolCall ID
	Name  string `json:"name"`            // Tool name
	Text  string `json:"text,omitempty"`  // Successful result text
	Error string `json:"error,omitempty"` // Populated on failure
}

// ToolResultPart wraps a ToolResult as a content part.
type ToolResultPart struct {
	ToolResult ToolResult
}

// isPart implements the Part interface for ToolResultPart.
func (ToolResultPart) isPart() {}

// Content holds role + ordered parts.
type Content struct {
	Role  string `json:"role,omitempty"` // Conversation role (user, assistant, tool)
	Parts []Part `json:"parts"`          // Ordered heterogeneous parts
}

// Text concatenates all text parts of the content in order.
func (c Content) Text() string {
	var out string
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}

// ToolCalls returns any ToolCall parts contained within the content
// preserving their original order.
func (c Content) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range c.Parts {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc.ToolCall)
		}
	}
	return calls
}

// ToolResults returns any ToolResult parts contained within the content
// preserving their original order.
func (c Content) ToolResults() []ToolResult {
	var results []ToolResult
	for _, p := range c.Parts {
		if tr, ok := p.(ToolResultPart); ok {
			results = append(results, tr.ToolResult)
		}
	}
	return results
}
