// Command fleetmcp serves the vehicle fleet tools over MCP on stdio. It is
// meant to be spawned by an agent via a stdio:// server spec and translates
// tool calls into requests against the vehicle data API.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/exportbay/fleetagent/toolserver"
	"github.com/exportbay/fleetagent/vehicle"
)

func main() {
	var (
		dataAPIURL string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fleetmcp",
		Short: "MCP tool server for the vehicle export fleet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := toolserver.New(vehicle.NewClient(dataAPIURL, timeout))
			return server.Run(ctx, &mcp.StdioTransport{})
		},
	}

	cmd.Flags().StringVar(&dataAPIURL, "data-api", "http://127.0.0.1:8001", "base URL of the vehicle data API")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-request timeout against the data API")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
