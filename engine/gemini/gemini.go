// Package gemini provides an implementation of engine.Engine using Google's
// Gemini API with function calling. It adapts the normalized Request/Response
// structures into the genai SDK's chat format and back.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/exportbay/fleetagent/core"
	"github.com/exportbay/fleetagent/engine"
)

// Options configure the Gemini engine adapter.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// Engine wraps the Gemini API behind the generic engine.Engine interface.
type Engine struct {
	client *genai.Client
	model  *genai.GenerativeModel
	opts   Options
}

// NewEngine creates a new Gemini engine using the official client.
func NewEngine(ctx context.Context, apiKey string, optFns ...func(o *Options)) (*Engine, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}

	opts := Options{
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(opts.Temperature)
	model.SetMaxOutputTokens(opts.MaxOutputTokens)

	return &Engine{client: client, model: model, opts: opts}, nil
}

// Generate implements engine.Engine using a blocking chat request.
func (e *Engine) Generate(ctx context.Context, req engine.Request) (*engine.Response, error) {
	if len(req.Contents) == 0 {
		return nil, errors.New("no contents provided")
	}

	e.model.Tools = buildTools(req.Tools)

	history := make([]*genai.Content, 0, len(req.Contents)-1)
	for _, c := range req.Contents[:len(req.Contents)-1] {
		history = append(history, toGeminiContent(c))
	}

	chat := e.model.StartChat()
	chat.History = history

	last := toGeminiContent(req.Contents[len(req.Contents)-1])
	resp, err := chat.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	return parseResponse(resp)
}

// Close releases the underlying API client.
func (e *Engine) Close() error { return e.client.Close() }

// Info returns metadata describing this Gemini engine implementation.
func (e *Engine) Info() engine.Info {
	return engine.Info{Name: e.opts.Model, Provider: "gemini"}
}

// toGeminiContent converts one normalized content into the SDK's shape.
// Gemini's role vocabulary is user/model/function.
func toGeminiContent(c core.Content) *genai.Content {
	role := "user"
	switch c.Role {
	case "assistant":
		role = "model"
	case "tool":
		role = "function"
	}

	parts := make([]genai.Part, 0, len(c.Parts))
	for _, p := range c.Parts {
		switch part := p.(type) {
		case core.TextPart:
			if part.Text != "" {
				parts = append(parts, genai.Text(part.Text))
			}
		case core.ToolCallPart:
			parts = append(parts, genai.FunctionCall{
				Name: part.ToolCall.Name,
				Args: part.ToolCall.Arguments,
			})
		case core.ToolResultPart:
			result := part.ToolResult.Text
			if part.ToolResult.Error != "" {
				result = part.ToolResult.Error
			}
			parts = append(parts, genai.FunctionResponse{
				Name:     part.ToolResult.Name,
				Response: map[string]any{"result": result},
			})
		}
	}
	return &genai.Content{Role: role, Parts: parts}
}

// parseResponse converts a Gemini response into the normalized shape.
// Gemini does not assign call IDs; the conversation log assigns fresh ones.
func parseResponse(resp *genai.GenerateContentResponse) (*engine.Response, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("no content returned from gemini")
	}

	var parts []core.Part
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			if v != "" {
				parts = append(parts, core.TextPart{Text: string(v)})
			}
		case genai.FunctionCall:
			parts = append(parts, core.ToolCallPart{ToolCall: core.ToolCall{
				Name:      v.Name,
				Arguments: v.Args,
			}})
		}
	}

	return &engine.Response{Content: core.Content{Role: "assistant", Parts: parts}}, nil
}

// buildTools converts catalog tool definitions to the Gemini SDK's format.
func buildTools(defs []engine.ToolDefinition) []*genai.Tool {
	if len(defs) == 0 {
		return nil
	}
	declarations := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, d := range defs {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  toGeminiSchema(d.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// toGeminiSchema converts a normalized schema map into the SDK's typed
// schema. Keywords the typed schema cannot express are ignored here; the
// normalizer has already removed the ones Gemini rejects outright.
func toGeminiSchema(s map[string]any) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{}
	if desc, ok := s["description"].(string); ok {
		out.Description = desc
	}
	if format, ok := s["format"].(string); ok {
		out.Format = format
	}

	switch s["type"] {
	case "object":
		out.Type = genai.TypeObject
	case "string":
		out.Type = genai.TypeString
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	case "array":
		out.Type = genai.TypeArray
	}

	if props, ok := s["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]any); ok {
				out.Properties[name] = toGeminiSchema(sub)
			}
		}
	}
	if items, ok := s["items"].(map[string]any); ok {
		out.Items = toGeminiSchema(items)
	}
	out.Required = toStringSlice(s["required"])
	out.Enum = toStringSlice(s["enum"])

	return out
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
