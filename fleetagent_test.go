package fleetagent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/exportbay/fleetagent/config"
	"github.com/exportbay/fleetagent/engine"
	"github.com/exportbay/fleetagent/logging"
)

func TestNewSessionUnknownProvider(t *testing.T) {
	cfg := &config.Config{Provider: "mystery", ServerSpec: "stdio://true", ToolTimeout: time.Second}

	_, err := NewSession(t.Context(), cfg)
	assert.ErrorContains(t, err, "unknown engine provider")
}

func TestNewSessionFailsOnUnreachableExecutor(t *testing.T) {
	cfg := &config.Config{
		Provider:    "gemini",
		ServerSpec:  "sse://http://127.0.0.1:1/sse",
		ToolTimeout: 200 * time.Millisecond,
		MaxSteps:    8,
	}

	_, err := NewSession(t.Context(), cfg, func(o *Options) {
		o.Engine = engine.NewStub(engine.StubText("unused"))
		o.Logger = logging.NoOpLogger{}
	})
	assert.Error(t, err, "catalog construction must surface executor connectivity failures")
}
