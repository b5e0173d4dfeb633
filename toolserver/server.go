// Package toolserver exposes the vehicle fleet as MCP tools. It sits between
// the agent's executor and the vehicle data API: tool calls arrive over an
// MCP transport, get translated into HTTP requests against the data API, and
// return one-line textual results. Domain failures (unknown vehicle, empty
// search) come back as error-flagged results, never protocol errors.
package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/exportbay/fleetagent/vehicle"
)

// noExtraProps is the boolean false schema; as a value for
// additionalProperties it marshals to the strict "additionalProperties":
// false keyword the consuming agent normalizes away.
func noExtraProps() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}

// Server registers the fleet tools on an MCP server backed by a vehicle data
// API client.
type Server struct {
	mcp  *mcp.Server
	data *vehicle.Client
}

// New builds the tool server. Tool input schemas intentionally carry strict
// authoring keywords like additionalProperties; the consuming agent
// normalizes them into its engine's dialect.
func New(data *vehicle.Client) *Server {
	s := &Server{
		mcp:  mcp.NewServer(&mcp.Implementation{Name: "vehicle-export-server", Version: "0.1.0"}, nil),
		data: data,
	}
	s.register()
	return s
}

// Run serves MCP over the given transport until the context is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// Connect attaches the server to a transport and returns the session,
// primarily for in-memory wiring.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, transport, nil)
}

func (s *Server) register() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_vehicle_details",
		Description: "Fetches real-time status and details for a specific vehicle by its ID.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"vehicle_id": {
					Type:        "string",
					Description: "The vehicle's numeric ID, e.g. 102",
				},
			},
			Required:             []string{"vehicle_id"},
			AdditionalProperties: noExtraProps(),
		},
	}, s.getVehicleDetails)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_vehicles",
		Description: "Lists every vehicle in the export fleet with its current status.",
		InputSchema: &jsonschema.Schema{
			Type:                 "object",
			Properties:           map[string]*jsonschema.Schema{},
			AdditionalProperties: noExtraProps(),
		},
	}, s.listVehicles)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "search_vehicles",
		Description: "Searches the fleet by make, model, status and/or destination. All criteria are optional, case-insensitive substring matches; multiple criteria intersect.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"make":        {Type: "string"},
				"model":       {Type: "string"},
				"status":      {Type: "string"},
				"destination": {Type: "string"},
			},
			AdditionalProperties: noExtraProps(),
		},
	}, s.searchVehicles)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "update_vehicle_status",
		Description: "Updates the status of a vehicle, e.g. when it moves from In Port to Shipped.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"vehicle_id": {Type: "string"},
				"status":     {Type: "string"},
			},
			Required:             []string{"vehicle_id", "status"},
			AdditionalProperties: noExtraProps(),
		},
	}, s.updateVehicleStatus)
}

func (s *Server) getVehicleDetails(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		VehicleID string `json:"vehicle_id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("Error: "+err.Error()), nil
	}

	v, err := s.data.Get(ctx, args.VehicleID)
	if errors.Is(err, vehicle.ErrNotFound) {
		return errorResult(fmt.Sprintf("Error: Could not find details for vehicle %s.", args.VehicleID)), nil
	}
	if err != nil {
		return errorResult(fmt.Sprintf("Error: Could not fetch details for vehicle %s: %v", args.VehicleID, err)), nil
	}
	return textResult(v.Summary()), nil
}

func (s *Server) listVehicles(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicles, err := s.data.List(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: Could not fetch the vehicle inventory: %v", err)), nil
	}
	return textResult(renderVehicles(vehicles)), nil
}

func (s *Server) searchVehicles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Make        string `json:"make"`
		Model       string `json:"model"`
		Status      string `json:"status"`
		Destination string `json:"destination"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("Error: "+err.Error()), nil
	}

	results, err := s.data.Search(ctx, vehicle.Filter{
		Make:        args.Make,
		Model:       args.Model,
		Status:      args.Status,
		Destination: args.Destination,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Error: Vehicle search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return textResult("No vehicles matched the given criteria."), nil
	}
	return textResult(renderVehicles(results)), nil
}

func (s *Server) updateVehicleStatus(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		VehicleID string `json:"vehicle_id"`
		Status    string `json:"status"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult("Error: "+err.Error()), nil
	}

	v, err := s.data.UpdateStatus(ctx, args.VehicleID, args.Status)
	if errors.Is(err, vehicle.ErrNotFound) {
		return errorResult(fmt.Sprintf("Error: Could not find details for vehicle %s.", args.VehicleID)), nil
	}
	if err != nil {
		return errorResult(fmt.Sprintf("Error: Could not update vehicle %s: %v", args.VehicleID, err)), nil
	}
	return textResult(v.Summary()), nil
}

func decodeArgs(req *mcp.CallToolRequest, out any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, out); err != nil {
		return fmt.Errorf("invalid tool arguments: %v", err)
	}
	return nil
}

func renderVehicles(vehicles []vehicle.Vehicle) string {
	lines := make([]string, 0, len(vehicles)+1)
	lines = append(lines, fmt.Sprintf("Found %d vehicle(s):", len(vehicles)))
	for _, v := range vehicles {
		lines = append(lines, v.Summary())
	}
	return strings.Join(lines, "\n")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
