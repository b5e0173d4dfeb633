// Command fleetapi serves the vehicle data API backing the fleet tools.
package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/exportbay/fleetagent/vehicle"
)

func main() {
	var addr string

	cmd := &cobra.Command{
		Use:   "fleetapi",
		Short: "In-memory vehicle data API",
		RunE: func(_ *cobra.Command, _ []string) error {
			gin.SetMode(gin.ReleaseMode)
			router := vehicle.NewRouter(vehicle.NewStore())
			fmt.Fprintln(os.Stderr, "fleetapi listening on", addr)
			return router.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8001", "listen address")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
