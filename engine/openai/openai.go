// Package openai provides an implementation of engine.Engine using the OpenAI
// Chat Completions API with function/tool calling. It adapts the normalized
// Request/Response structures into the SDK's message format and back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/exportbay/fleetagent/core"
	"github.com/exportbay/fleetagent/engine"
)

// Options configure the OpenAI engine adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Engine wraps the OpenAI Chat Completions API behind the generic
// engine.Engine interface.
type Engine struct {
	client *openai.Client
	opts   Options
}

// NewEngine creates a new OpenAI engine using the official client. The API
// key is read from the environment by the SDK.
func NewEngine(optFns ...func(o *Options)) *Engine {
	client := openai.NewClient()
	return NewEngineFromClient(&client, optFns...)
}

// NewEngineFromClient creates a new OpenAI engine from an existing client.
func NewEngineFromClient(client *openai.Client, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{client: client, opts: opts}
}

// Generate implements engine.Engine with a blocking chat completion.
func (e *Engine) Generate(ctx context.Context, req engine.Request) (*engine.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req.Contents),
		Model:               e.opts.Model,
		Temperature:         openai.Float(e.opts.Temperature),
		MaxCompletionTokens: openai.Int(e.opts.MaxCompletionTokens),
	}
	if tools := buildTools(req.Tools); len(tools) > 0 {
		params.Tools = tools
	}

	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	msg := resp.Choices[0].Message
	parts := make([]core.Part, 0, len(msg.ToolCalls)+1)
	if msg.Content != "" {
		parts = append(parts, core.TextPart{Text: msg.Content})
	}
	for _, tc := range msg.ToolCalls {
		parts = append(parts, core.ToolCallPart{ToolCall: core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: decodeArguments(tc.Function.Arguments),
		}})
	}

	return &engine.Response{Content: core.Content{Role: "assistant", Parts: parts}}, nil
}

// Info returns metadata describing this OpenAI engine implementation.
func (e *Engine) Info() engine.Info {
	return engine.Info{Name: e.opts.Model, Provider: "openai"}
}

// buildMessages converts normalized contents into OpenAI chat messages.
// Tool-role turns become tool messages correlated by call ID, which the chat
// API requires to directly follow the assistant turn carrying the calls; the
// conversation log already guarantees that ordering.
func buildMessages(contents []core.Content) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	for _, c := range contents {
		switch c.Role {
		case "user":
			messages = append(messages, openai.UserMessage(c.Text()))
		case "assistant":
			toolCalls := extractToolCalls(c)
			if len(toolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(c.Text()))
				continue
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				},
			})
		case "tool":
			for _, r := range c.ToolResults() {
				text := r.Text
				if r.Error != "" {
					text = r.Error
				}
				messages = append(messages, openai.ToolMessage(text, r.ID))
			}
		default:
			if text := c.Text(); text != "" {
				messages = append(messages, openai.UserMessage(text))
			}
		}
	}
	return messages
}

// extractToolCalls converts tool call parts into the SDK's parameter shape.
func extractToolCalls(c core.Content) []openai.ChatCompletionMessageToolCallParam {
	var toolCalls []openai.ChatCompletionMessageToolCallParam
	for _, call := range c.ToolCalls() {
		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
			ID:   call.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      call.Name,
				Arguments: encodeArguments(call.Arguments),
			},
		})
	}
	return toolCalls
}

// buildTools converts catalog tool definitions to the SDK's format.
func buildTools(defs []engine.ToolDefinition) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, len(defs))
	for i, d := range defs {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        d.Name,
				Description: openai.String(d.Description),
				Parameters:  openai.FunctionParameters(d.Parameters),
			},
		}
	}
	return tools
}

// encodeArguments serializes the argument object to the JSON string the chat
// API expects.
func encodeArguments(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// decodeArguments parses the model-supplied JSON argument string. Malformed
// output decodes to an empty object so the executor's schema validation can
// reject it, rather than failing the round here.
func decodeArguments(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{}
	}
	return args
}
