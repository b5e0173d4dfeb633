// Package anthropic provides an engine wrapper for the Anthropic Claude API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/exportbay/fleetagent/core"
	"github.com/exportbay/fleetagent/engine"
)

// Options configure the Anthropic engine adapter (model id, temperature,
// max tokens, API key).
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Engine wraps the Anthropic Messages API behind the generic engine.Engine
// interface.
type Engine struct {
	client *anthropic.Client
	opts   Options
}

// NewEngine creates a new Anthropic engine using the official client.
func NewEngine(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Model:       string(anthropic.ModelClaude3_5Sonnet20241022),
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Engine{client: &client, opts: opts}
}

// Generate implements engine.Engine with a blocking message request.
func (e *Engine) Generate(ctx context.Context, req engine.Request) (*engine.Response, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(e.opts.Model),
		Messages:    buildMessages(req.Contents),
		MaxTokens:   e.opts.MaxTokens,
		Temperature: anthropic.Float(e.opts.Temperature),
	}
	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	resp, err := e.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var parts []core.Part
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			textBlock := block.AsText()
			if textBlock.Text != "" {
				parts = append(parts, core.TextPart{Text: textBlock.Text})
			}
		case "tool_use":
			toolBlock := block.AsToolUse()
			parts = append(parts, core.ToolCallPart{ToolCall: core.ToolCall{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: decodeInput(toolBlock.Input),
			}})
		}
	}

	return &engine.Response{Content: core.Content{Role: "assistant", Parts: parts}}, nil
}

// Info returns metadata describing this Anthropic engine implementation.
func (e *Engine) Info() engine.Info {
	return engine.Info{Name: e.opts.Model, Provider: "anthropic"}
}

// buildMessages converts normalized contents to the Anthropic message format.
// Assistant tool calls become tool_use blocks; the tool-role turn that
// follows becomes a user message of tool_result blocks, as the Messages API
// requires.
func buildMessages(contents []core.Content) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, c := range contents {
		switch c.Role {
		case "user":
			if text := c.Text(); text != "" {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
			}
		case "assistant":
			var blocks []anthropic.ContentBlockParamUnion
			if text := c.Text(); text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(text))
			}
			for _, call := range c.ToolCalls() {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Arguments, call.Name))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			}
		case "tool":
			var blocks []anthropic.ContentBlockParamUnion
			for _, r := range c.ToolResults() {
				text := r.Text
				isError := false
				if r.Error != "" {
					text = r.Error
					isError = true
				}
				blocks = append(blocks, anthropic.NewToolResultBlock(r.ID, text, isError))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewUserMessage(blocks...))
			}
		}
	}
	return messages
}

// buildTools converts catalog tool definitions to the Anthropic tool format.
func buildTools(defs []engine.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))
	for i, d := range defs {
		inputSchema := anthropic.ToolInputSchemaParam{Type: constant.Object("object")}
		if d.Parameters != nil {
			if properties, ok := d.Parameters["properties"]; ok {
				inputSchema.Properties = properties
			}
			inputSchema.Required = toStringSlice(d.Parameters["required"])
		}
		tools[i] = anthropic.ToolUnionParamOfTool(inputSchema, d.Name)
	}
	return tools
}

// decodeInput converts a tool_use block's input into an argument map. The SDK
// surfaces it as raw JSON; malformed input decodes to an empty object so the
// executor's schema validation can reject it.
func decodeInput(input any) map[string]any {
	var raw []byte
	switch v := input.(type) {
	case map[string]any:
		return v
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		return map[string]any{}
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

// toStringSlice accepts both []string and JSON-decoded []any shapes.
func toStringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
