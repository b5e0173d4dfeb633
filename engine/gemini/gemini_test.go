package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportbay/fleetagent/core"
	"github.com/exportbay/fleetagent/engine"
)

func TestToGeminiContentRoles(t *testing.T) {
	user := toGeminiContent(core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: "hi"}}})
	assert.Equal(t, "user", user.Role)

	assistant := toGeminiContent(core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: "hello"}}})
	assert.Equal(t, "model", assistant.Role)

	tool := toGeminiContent(core.Content{Role: "tool", Parts: []core.Part{
		core.ToolResultPart{ToolResult: core.ToolResult{ID: "c1", Name: "echo", Text: "ok"}},
	}})
	assert.Equal(t, "function", tool.Role)

	require.Len(t, tool.Parts, 1)
	fr, ok := tool.Parts[0].(genai.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "echo", fr.Name)
	assert.Equal(t, "ok", fr.Response["result"])
}

func TestToGeminiContentToolFailureCarriesErrorText(t *testing.T) {
	content := toGeminiContent(core.Content{Role: "tool", Parts: []core.Part{
		core.ToolResultPart{ToolResult: core.ToolResult{ID: "c1", Name: "lookup", Error: "Error: Could not find details for vehicle 999."}},
	}})

	fr := content.Parts[0].(genai.FunctionResponse)
	assert.Equal(t, "Error: Could not find details for vehicle 999.", fr.Response["result"])
}

func TestToGeminiSchema(t *testing.T) {
	s := toGeminiSchema(map[string]any{
		"type":        "object",
		"description": "Vehicle query",
		"properties": map[string]any{
			"vehicle_id": map[string]any{"type": "string"},
			"count":      map[string]any{"type": "integer"},
			"status":     map[string]any{"type": "string", "enum": []any{"In Port", "Shipped"}},
			"tags":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"vehicle_id"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"vehicle_id"}, s.Required)
	assert.Equal(t, genai.TypeString, s.Properties["vehicle_id"].Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["count"].Type)
	assert.Equal(t, []string{"In Port", "Shipped"}, s.Properties["status"].Enum)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]engine.ToolDefinition{
		{Name: "get_vehicle_details", Description: "Lookup", Parameters: map[string]any{"type": "object"}},
		{Name: "list_vehicles", Description: "Inventory", Parameters: map[string]any{"type": "object"}},
	})

	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 2)
	assert.Equal(t, "get_vehicle_details", tools[0].FunctionDeclarations[0].Name)

	assert.Nil(t, buildTools(nil))
}

func TestParseResponseToolCall(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []genai.Part{genai.FunctionCall{
					Name: "get_vehicle_details",
					Args: map[string]any{"vehicle_id": "102"},
				}},
			},
		}},
	}

	parsed, err := parseResponse(resp)
	require.NoError(t, err)

	calls := parsed.Content.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "get_vehicle_details", calls[0].Name)
	assert.Equal(t, "102", calls[0].Arguments["vehicle_id"])
	assert.Empty(t, calls[0].ID, "gemini assigns no call IDs; the log does")
}

func TestParseResponseEmpty(t *testing.T) {
	_, err := parseResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}

func TestNewEngineRequiresAPIKey(t *testing.T) {
	_, err := NewEngine(t.Context(), "")
	assert.Error(t, err)
}
