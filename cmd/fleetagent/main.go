// Command fleetagent answers questions about the export fleet by driving a
// reasoning engine against the fleet's MCP tool server.
//
// One-shot:
//
//	fleetagent "Where is vehicle 102 right now?"
//
// Interactive:
//
//	fleetagent
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/exportbay/fleetagent"
	"github.com/exportbay/fleetagent/config"
	"github.com/exportbay/fleetagent/core"
)

func main() {
	var (
		configPath string
		provider   string
		model      string
		server     string
		maxSteps   int
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "fleetagent [query]",
		Short: "Ask the vehicle export fleet assistant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.Provider = provider
			}
			if model != "" {
				cfg.Model = model
			}
			if server != "" {
				cfg.ServerSpec = server
			}
			if maxSteps > 0 {
				cfg.MaxSteps = maxSteps
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session, err := fleetagent.NewSession(ctx, cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			if len(args) == 1 {
				return ask(ctx, session, args[0])
			}
			return repl(ctx, session)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&provider, "provider", "", "engine provider: gemini, openai or anthropic")
	cmd.Flags().StringVar(&model, "model", "", "override the provider's default model")
	cmd.Flags().StringVar(&server, "server", "", "tool server spec, e.g. stdio://fleetmcp or sse://http://host/sse")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "bound on engine round-trips per query")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func ask(ctx context.Context, session *fleetagent.Session, query string) error {
	outcome, _ := session.Ask(ctx, query)
	switch outcome.Kind {
	case core.OutcomeFinalAnswer:
		fmt.Println(outcome.Answer)
		return nil
	case core.OutcomeStepLimit:
		return fmt.Errorf("gave up: engine step limit reached before a final answer")
	default:
		return fmt.Errorf("query aborted: %w", outcome.Err)
	}
}

func repl(ctx context.Context, session *fleetagent.Session) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			return nil
		}
		if err := ask(ctx, session, query); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
