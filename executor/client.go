// Package executor provides the client side of the tool executor protocol: a
// thin MCP (Model Context Protocol) client that lists the executor's tools
// once per session and translates each invocation into the closed
// Success/Failure outcome the orchestration loop folds back into the
// conversation.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/exportbay/fleetagent/logging"
	"github.com/exportbay/fleetagent/tool"
)

// DefaultInvokeTimeout bounds every tool call; exceeding it yields a
// Failure(timeout) outcome rather than a hung loop.
const DefaultInvokeTimeout = 5 * time.Second

// transportBuilder is overridden in tests to stub the transport factory.
var transportBuilder = buildTransport

// Options configure the executor client.
type Options struct {
	// Timeout bounds a single Invoke call.
	Timeout time.Duration
	// Logger receives per-invocation records.
	Logger logging.Logger
}

// Client wraps an MCP client session behind the loop's executor surface.
// Connection is established lazily on first use and reused for the session;
// handshake with the executor is idempotent and completes before the first
// tool listing. The client holds no per-invocation state, so one instance is
// safe for concurrent invocations.
type Client struct {
	impl    *mcp.Client
	session *mcp.ClientSession

	spec    string
	timeout time.Duration
	logger  logging.Logger

	once       sync.Once
	connectErr error
}

// NewClient constructs a client from a transport specification string:
//
//	stdio://<command and args>   spawn a subprocess speaking MCP on stdio
//	sse://<url>, http(s)://<url> connect to a server-sent-events endpoint
//	<command and args>           bare strings default to stdio
func NewClient(spec string, optFns ...func(o *Options)) *Client {
	opts := Options{
		Timeout: DefaultInvokeTimeout,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	impl := mcp.NewClient(&mcp.Implementation{Name: "fleetagent", Version: "0.1.0"}, nil)

	return &Client{
		impl:    impl,
		spec:    spec,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

func (c *Client) ensureConnected(ctx context.Context) error {
	c.once.Do(func() {
		transport, err := transportBuilder(ctx, c.spec)
		if err != nil {
			c.connectErr = fmt.Errorf("build transport: %w", err)
			return
		}
		session, err := c.impl.Connect(ctx, transport, nil)
		if err != nil {
			c.connectErr = fmt.Errorf("connect executor: %w", err)
			return
		}
		c.session = session
	})
	return c.connectErr
}

// ListTools fetches the executor's full tool list. Called once at session
// start to build the catalog; implements tool.Lister.
func (c *Client) ListTools(ctx context.Context) ([]tool.Descriptor, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	var descriptors []tool.Descriptor
	for t, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		descriptors = append(descriptors, toDescriptor(t))
	}
	return descriptors, nil
}

// Invoke calls the named tool with the given argument object. The call is
// bounded by the configured timeout and never returns a Go error: every
// failure mode maps onto the closed Reason set so the loop can treat it as
// conversation data. Cancelling ctx stops the wait without corrupting any
// loop state.
func (c *Client) Invoke(ctx context.Context, name string, args map[string]any) Outcome {
	if err := c.ensureConnected(ctx); err != nil {
		return Fail(ReasonTransport, err.Error())
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.session.CallTool(callCtx, &mcp.CallToolParams{Name: name, Arguments: args})
	dur := time.Since(start)

	c.logger.Info("executor.invoke", "tool", name, "duration_ms", dur.Milliseconds(), "error", err != nil)

	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
			return Fail(ReasonTimeout, fmt.Sprintf("tool %s timed out after %s", name, c.timeout))
		case isUnknownTool(err):
			return Fail(ReasonNotFound, err.Error())
		default:
			return Fail(ReasonTransport, err.Error())
		}
	}

	text := flattenText(result.Content)
	if result.IsError {
		// The executor's rejection is surfaced verbatim; a miss on the target
		// entity gets the dedicated reason so the loop can distinguish it.
		if isNotFoundText(text) {
			return Fail(ReasonNotFound, text)
		}
		return Fail(ReasonExecutor, text)
	}
	return Success(text)
}

// Close shuts down the underlying session, if any.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

// toDescriptor converts an SDK tool into the catalog descriptor shape. The
// SDK's schema type is decoupled from ours via a JSON round-trip.
func toDescriptor(t *mcp.Tool) tool.Descriptor {
	d := tool.Descriptor{Name: t.Name, Description: t.Description}
	if t.InputSchema != nil {
		raw, err := json.Marshal(t.InputSchema)
		if err == nil {
			var m map[string]any
			if json.Unmarshal(raw, &m) == nil {
				d.InputSchema = m
			}
		}
	}
	return d
}

// flattenText concatenates the text segments of a tool result.
func flattenText(content []mcp.Content) string {
	var b strings.Builder
	for _, part := range content {
		if tc, ok := part.(*mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// isUnknownTool matches the protocol error the server returns for a tool
// name missing from its registry.
func isUnknownTool(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown tool") || strings.Contains(msg, "tool not found")
}

// isNotFoundText matches executor-reported misses on the target entity,
// e.g. "Error: Could not find details for vehicle 999."
func isNotFoundText(text string) bool {
	msg := strings.ToLower(text)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "could not find")
}

func buildTransport(ctx context.Context, spec string) (mcp.Transport, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("executor transport spec is empty")
	}

	lowered := strings.ToLower(spec)
	switch {
	case strings.HasPrefix(lowered, "stdio://"):
		return commandTransport(ctx, spec[len("stdio://"):])
	case strings.HasPrefix(lowered, "sse://"):
		return &mcp.SSEClientTransport{Endpoint: spec[len("sse://"):]}, nil
	case strings.HasPrefix(lowered, "http://"), strings.HasPrefix(lowered, "https://"):
		return &mcp.SSEClientTransport{Endpoint: spec}, nil
	}
	return commandTransport(ctx, spec)
}
