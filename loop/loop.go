// Package loop runs the tool-calling orchestration cycle: send the
// conversation to the reasoning engine, execute any tool calls it requests,
// fold the results back into the log, and repeat until the engine answers in
// plain text or a bound trips.
package loop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/exportbay/fleetagent/core"
	"github.com/exportbay/fleetagent/engine"
	"github.com/exportbay/fleetagent/executor"
	"github.com/exportbay/fleetagent/logging"
	"github.com/exportbay/fleetagent/tool"
)

// DefaultMaxSteps bounds engine round-trips per query.
const DefaultMaxSteps = 8

// DefaultRetryBackoff is the pause before the single engine retry.
const DefaultRetryBackoff = 500 * time.Millisecond

// Invoker dispatches one tool call and reports its outcome. Implemented by
// the executor client.
type Invoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) executor.Outcome
}

// Options configure a Loop.
type Options struct {
	// MaxSteps bounds engine round-trips per query. Zero selects the default.
	MaxSteps int
	// RetryBackoff is the pause before the single engine retry.
	RetryBackoff time.Duration
	Logger       logging.Logger
}

// Loop drives one query to a terminal outcome. A Loop is cheap and
// stateless between runs; each Run owns its own conversation log.
type Loop struct {
	engine  engine.Engine
	invoker Invoker
	catalog *tool.Catalog
	opts    Options
}

// New creates an orchestration loop over an engine, an invoker, and the
// session's tool catalog.
func New(eng engine.Engine, invoker Invoker, catalog *tool.Catalog, optFns ...func(o *Options)) *Loop {
	opts := Options{
		MaxSteps:     DefaultMaxSteps,
		RetryBackoff: DefaultRetryBackoff,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Loop{engine: eng, invoker: invoker, catalog: catalog, opts: opts}
}

// Run resolves a single user query. It always returns a terminal outcome and
// the conversation log that produced it; the log is returned even on abort so
// callers can inspect how far the run got.
func (l *Loop) Run(ctx context.Context, query string) (core.Outcome, *core.Conversation) {
	conv := core.NewConversation()
	conv.AppendUser(query)

	defs := l.toolDefinitions()
	limiter := core.NewStepLimiter(l.opts.MaxSteps)

	for {
		if err := limiter.Increment(); err != nil {
			l.opts.Logger.Warn("step limit reached", "max_steps", l.opts.MaxSteps)
			return core.StepLimitExceeded(), conv
		}

		resp, err := l.generate(ctx, engine.Request{Contents: conv.Snapshot(), Tools: defs})
		if err != nil {
			return core.Aborted(err), conv
		}

		content := conv.AppendEngine(resp.Content)
		pending := conv.PendingCalls()
		if len(pending) == 0 {
			answer := content.Text()
			l.opts.Logger.Info("final answer", "steps", limiter.Count())
			return core.FinalAnswer(answer), conv
		}

		l.opts.Logger.Debug("dispatching tool calls", "count", len(pending), "step", limiter.Count())
		for _, result := range l.dispatch(ctx, pending) {
			conv.AppendToolResult(result)
		}
	}
}

// generate calls the engine, retrying exactly once on failure. A cancelled
// context suppresses the retry.
func (l *Loop) generate(ctx context.Context, req engine.Request) (*engine.Response, error) {
	resp, err := l.engine.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("engine call: %w", err)
	}

	l.opts.Logger.Warn("engine call failed, retrying once", "error", err)
	select {
	case <-time.After(l.opts.RetryBackoff):
	case <-ctx.Done():
		return nil, fmt.Errorf("engine call: %w", err)
	}

	resp, retryErr := l.engine.Generate(ctx, req)
	if retryErr != nil {
		return nil, fmt.Errorf("engine call failed after retry: %w", retryErr)
	}
	return resp, nil
}

// dispatch executes one round of tool calls concurrently and folds the
// outcomes back in request order. The calls of a round are independent of
// each other, so order only matters for the log, not for execution.
func (l *Loop) dispatch(ctx context.Context, calls []core.ToolCall) []core.ToolResult {
	results := make([]core.ToolResult, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call core.ToolCall) {
			defer wg.Done()
			results[i] = l.invoke(ctx, call)
		}(i, call)
	}
	wg.Wait()

	return results
}

// invoke runs one tool call. Every failure mode becomes result data in the
// log for the engine to reason about; nothing here terminates the loop.
func (l *Loop) invoke(ctx context.Context, call core.ToolCall) core.ToolResult {
	result := core.ToolResult{ID: call.ID, Name: call.Name}

	if _, ok := l.catalog.Get(call.Name); !ok {
		result.Error = fmt.Sprintf("Error: tool %q is not available in this session.", call.Name)
		l.opts.Logger.Warn("engine requested unknown tool", "tool", call.Name)
		return result
	}

	outcome := l.invoker.Invoke(ctx, call.Name, call.Arguments)
	if outcome.OK() {
		result.Text = outcome.Text
		return result
	}

	result.Error = outcome.Failure.Message
	l.opts.Logger.Warn("tool call failed",
		"tool", call.Name,
		"reason", outcome.Failure.Reason.String(),
	)
	return result
}

// toolDefinitions projects the catalog into the engine-facing shape.
func (l *Loop) toolDefinitions() []engine.ToolDefinition {
	descriptors := l.catalog.Descriptors()
	defs := make([]engine.ToolDefinition, len(descriptors))
	for i, d := range descriptors {
		defs[i] = engine.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.InputSchema,
		}
	}
	return defs
}
