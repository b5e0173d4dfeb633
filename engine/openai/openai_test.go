package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportbay/fleetagent/core"
	"github.com/exportbay/fleetagent/engine"
)

func TestBuildMessagesRoundTrip(t *testing.T) {
	contents := []core.Content{
		{Role: "user", Parts: []core.Part{core.TextPart{Text: "status of vehicle 102"}}},
		{Role: "assistant", Parts: []core.Part{
			core.ToolCallPart{ToolCall: core.ToolCall{ID: "call-1", Name: "get_vehicle_details", Arguments: map[string]any{"vehicle_id": "102"}}},
		}},
		{Role: "tool", Parts: []core.Part{
			core.ToolResultPart{ToolResult: core.ToolResult{ID: "call-1", Name: "get_vehicle_details", Text: "Vehicle 102: Honda Fit"}},
		}},
	}

	messages := buildMessages(contents)
	require.Len(t, messages, 3)

	assert.NotNil(t, messages[0].OfUser)
	require.NotNil(t, messages[1].OfAssistant)
	require.Len(t, messages[1].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "call-1", messages[1].OfAssistant.ToolCalls[0].ID)
	assert.JSONEq(t, `{"vehicle_id":"102"}`, messages[1].OfAssistant.ToolCalls[0].Function.Arguments)
	assert.NotNil(t, messages[2].OfTool)
}

func TestBuildMessagesToolFailureText(t *testing.T) {
	contents := []core.Content{
		{Role: "tool", Parts: []core.Part{
			core.ToolResultPart{ToolResult: core.ToolResult{ID: "call-9", Name: "lookup", Error: "tool lookup timed out after 5s"}},
		}},
	}

	messages := buildMessages(contents)
	require.Len(t, messages, 1)
	require.NotNil(t, messages[0].OfTool)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]engine.ToolDefinition{
		{Name: "list_vehicles", Description: "Inventory", Parameters: map[string]any{"type": "object"}},
	})

	require.Len(t, tools, 1)
	assert.Equal(t, "list_vehicles", tools[0].Function.Name)
}

func TestArgumentCodec(t *testing.T) {
	assert.Equal(t, "{}", encodeArguments(nil))
	assert.JSONEq(t, `{"a":1}`, encodeArguments(map[string]any{"a": 1}))

	assert.Equal(t, map[string]any{}, decodeArguments(""))
	assert.Equal(t, map[string]any{}, decodeArguments("not json"))
	assert.Equal(t, map[string]any{"vehicle_id": "102"}, decodeArguments(`{"vehicle_id":"102"}`))
}
