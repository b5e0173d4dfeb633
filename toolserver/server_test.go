package toolserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportbay/fleetagent/vehicle"
)

// setupSession wires the tool server to a live data API over in-memory MCP
// transports and returns a connected client session.
func setupSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := httptest.NewServer(vehicle.NewRouter(vehicle.NewStore()))
	t.Cleanup(api.Close)

	server := New(vehicle.NewClient(api.URL, time.Second))

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(t.Context())

	serverSession, err := server.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = serverSession.Close()
	})

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(t.Context(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListToolsAdvertisesStrictSchemas(t *testing.T) {
	session := setupSession(t)

	names := map[string]bool{}
	var detailsSchema any
	for tool, err := range session.Tools(t.Context(), nil) {
		require.NoError(t, err)
		names[tool.Name] = true
		if tool.Name == "get_vehicle_details" {
			detailsSchema = tool.InputSchema
		}
	}

	assert.Equal(t, map[string]bool{
		"get_vehicle_details":   true,
		"list_vehicles":         true,
		"search_vehicles":       true,
		"update_vehicle_status": true,
	}, names)

	// The advertised schema keeps its strict authoring keywords; stripping
	// them is the consumer's job.
	raw, err := json.Marshal(detailsSchema)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"additionalProperties":false`)
}

func TestGetVehicleDetails(t *testing.T) {
	session := setupSession(t)

	result := callTool(t, session, "get_vehicle_details", map[string]any{"vehicle_id": "102"})
	assert.False(t, result.IsError)
	assert.Equal(t, "Vehicle 102: Honda Fit is currently Shipped heading to Kandy.", resultText(t, result))
}

func TestGetVehicleDetailsUnknownID(t *testing.T) {
	session := setupSession(t)

	result := callTool(t, session, "get_vehicle_details", map[string]any{"vehicle_id": "999"})
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: Could not find details for vehicle 999.", resultText(t, result))
}

func TestListVehicles(t *testing.T) {
	session := setupSession(t)

	result := callTool(t, session, "list_vehicles", map[string]any{})
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Found 5 vehicle(s):")
	assert.Contains(t, text, "Vehicle 101: Toyota HiAce is currently In Port heading to Colombo.")
}

func TestSearchVehicles(t *testing.T) {
	session := setupSession(t)

	result := callTool(t, session, "search_vehicles", map[string]any{"status": "shipped"})
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Found 2 vehicle(s):")
	assert.Contains(t, text, "Vehicle 104: Tesla Model X")
}

func TestSearchVehiclesNoMatches(t *testing.T) {
	session := setupSession(t)

	result := callTool(t, session, "search_vehicles", map[string]any{"make": "DeLorean"})
	assert.False(t, result.IsError, "an empty result set is data, not a failure")
	assert.Equal(t, "No vehicles matched the given criteria.", resultText(t, result))
}

func TestUpdateVehicleStatus(t *testing.T) {
	session := setupSession(t)

	result := callTool(t, session, "update_vehicle_status", map[string]any{
		"vehicle_id": "101",
		"status":     "Shipped",
	})
	assert.False(t, result.IsError)
	assert.Equal(t, "Vehicle 101: Toyota HiAce is currently Shipped heading to Colombo.", resultText(t, result))

	follow := callTool(t, session, "get_vehicle_details", map[string]any{"vehicle_id": "101"})
	assert.Contains(t, resultText(t, follow), "Shipped")
}

func TestDataAPIUnreachable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := New(vehicle.NewClient("http://127.0.0.1:1", 200*time.Millisecond))

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(t.Context(), serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(t.Context(), clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	result, err := session.CallTool(t.Context(), &mcp.CallToolParams{
		Name:      "get_vehicle_details",
		Arguments: map[string]any{"vehicle_id": "101"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Could not fetch details for vehicle 101")
}
