// Package fleetagent provides a high-level façade over the orchestration
// loop and its collaborators (reasoning engine, tool executor, catalog).
// Most applications interact with this package by:
//  1. Loading a Config (environment, .env, optional YAML)
//  2. Creating a Session via NewSession()
//  3. Asking queries with Ask() until done, then Close()
//
// A Session pins the tool catalog at construction time; tools added to the
// executor afterwards become visible only to later sessions.
package fleetagent

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"

	"github.com/exportbay/fleetagent/config"
	"github.com/exportbay/fleetagent/core"
	"github.com/exportbay/fleetagent/engine"
	"github.com/exportbay/fleetagent/engine/anthropic"
	"github.com/exportbay/fleetagent/engine/gemini"
	"github.com/exportbay/fleetagent/engine/openai"
	"github.com/exportbay/fleetagent/executor"
	"github.com/exportbay/fleetagent/logging"
	"github.com/exportbay/fleetagent/loop"
	"github.com/exportbay/fleetagent/tool"
)

// Options configure a Session beyond what Config carries.
type Options struct {
	// Logger defaults to a structured logger at the configured level.
	Logger logging.Logger
	// Engine overrides provider selection entirely, mainly for tests.
	Engine engine.Engine
}

// Session wires one engine, one executor connection, and one immutable tool
// catalog into a ready-to-use orchestration loop.
type Session struct {
	engine  engine.Engine
	exec    *executor.Client
	catalog *tool.Catalog
	loop    *loop.Loop
	logger  logging.Logger
}

// NewSession assembles a session from configuration. It connects to the tool
// executor and fetches the catalog eagerly, so a misconfigured server fails
// here rather than mid-conversation.
func NewSession(ctx context.Context, cfg *config.Config, optFns ...func(o *Options)) (*Session, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(&logging.Config{Level: logging.ParseLevel(cfg.LogLevel), Format: "text"})
	}

	eng := opts.Engine
	if eng == nil {
		var err error
		eng, err = buildEngine(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	exec := executor.NewClient(cfg.ServerSpec, func(o *executor.Options) {
		o.Timeout = cfg.ToolTimeout
		o.Logger = logger
	})

	catalog, err := tool.BuildCatalog(ctx, exec)
	if err != nil {
		_ = exec.Close()
		return nil, fmt.Errorf("build tool catalog: %w", err)
	}
	logger.Info("session ready", "provider", eng.Info().Provider, "model", eng.Info().Name, "tools", catalog.Len())

	l := loop.New(eng, exec, catalog, func(o *loop.Options) {
		o.MaxSteps = cfg.MaxSteps
		o.Logger = logger
	})

	return &Session{engine: eng, exec: exec, catalog: catalog, loop: l, logger: logger}, nil
}

// Ask resolves one user query through the orchestration loop.
func (s *Session) Ask(ctx context.Context, query string) (core.Outcome, *core.Conversation) {
	return s.loop.Run(ctx, query)
}

// Tools returns the session's pinned catalog entries in listing order.
func (s *Session) Tools() []tool.Descriptor {
	return s.catalog.Descriptors()
}

// Close releases the executor connection and any engine resources.
func (s *Session) Close() error {
	err := s.exec.Close()
	if closer, ok := s.engine.(interface{ Close() error }); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// buildEngine selects and constructs the configured provider adapter.
func buildEngine(ctx context.Context, cfg *config.Config) (engine.Engine, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewEngine(ctx, cfg.APIKey, func(o *gemini.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		})
	case "openai":
		var clientOpts []openaiopt.RequestOption
		if cfg.APIKey != "" {
			clientOpts = append(clientOpts, openaiopt.WithAPIKey(cfg.APIKey))
		}
		client := openaisdk.NewClient(clientOpts...)
		return openai.NewEngineFromClient(&client, func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case "anthropic":
		return anthropic.NewEngine(func(o *anthropic.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown engine provider %q", cfg.Provider)
	}
}
