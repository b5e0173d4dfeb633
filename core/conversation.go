package core

import "github.com/google/uuid"

// NewID generates a new unique identifier used to correlate tool calls with
// their results.
func NewID() string { return uuid.NewString() }

// Conversation is the append-only turn log for a single query resolution.
// Turns are totally ordered by append time and never removed or mutated after
// being appended; the log is both the audit trail and the engine's memory.
// The reasoning engine is stateless between calls, so every round receives
// the full history via Snapshot.
//
// A Conversation is owned by exactly one orchestration loop for the duration
// of one query and is discarded when the loop terminates. It is not safe for
// concurrent appends.
type Conversation struct {
	contents []Content
}

// NewConversation returns an empty conversation log.
func NewConversation() *Conversation { return &Conversation{} }

// AppendUser appends a user text turn.
func (c *Conversation) AppendUser(text string) {
	c.contents = append(c.contents, Content{Role: "user", Parts: []Part{TextPart{Text: text}}})
}

// AppendEngine appends an engine (assistant) turn. Every ToolCallPart is
// guaranteed a non-empty call ID on append: engines that supply their own
// correlation IDs keep them, otherwise a fresh one is assigned here.
func (c *Conversation) AppendEngine(content Content) Content {
	parts := make([]Part, len(content.Parts))
	for i, p := range content.Parts {
		if tc, ok := p.(ToolCallPart); ok && tc.ToolCall.ID == "" {
			tc.ToolCall.ID = NewID()
			parts[i] = tc
			continue
		}
		parts[i] = p
	}
	appended := Content{Role: "assistant", Parts: parts}
	c.contents = append(c.contents, appended)
	return appended
}

// AppendToolResult appends the outcome of a tool call as a tool-role turn.
func (c *Conversation) AppendToolResult(result ToolResult) {
	c.contents = append(c.contents, Content{Role: "tool", Parts: []Part{ToolResultPart{ToolResult: result}}})
}

// Snapshot returns a copy of the full ordered history for sending to the
// engine. The returned slice is independent of the log; part values are
// immutable after append so a shallow copy of each Content suffices.
func (c *Conversation) Snapshot() []Content {
	out := make([]Content, len(c.contents))
	for i, content := range c.contents {
		parts := make([]Part, len(content.Parts))
		copy(parts, content.Parts)
		out[i] = Content{Role: content.Role, Parts: parts}
	}
	return out
}

// PendingCalls returns tool calls that do not yet have a matching result,
// in request order. The loop must resolve all of them before the next engine
// round.
func (c *Conversation) PendingCalls() []ToolCall {
	resolved := map[string]bool{}
	for _, content := range c.contents {
		for _, r := range content.ToolResults() {
			resolved[r.ID] = true
		}
	}
	var pending []ToolCall
	for _, content := range c.contents {
		for _, call := range content.ToolCalls() {
			if !resolved[call.ID] {
				pending = append(pending, call)
			}
		}
	}
	return pending
}

// Len returns the number of turns appended so far.
func (c *Conversation) Len() int { return len(c.contents) }
