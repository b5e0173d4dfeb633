// Package tool defines the tool catalog advertised to the reasoning engine: a
// session-immutable, ordered set of named tool descriptors with normalized
// input schemas.
package tool

import (
	"context"
	"fmt"

	"github.com/exportbay/fleetagent/schema"
)

// Descriptor declaratively exposes a callable tool to the reasoning engine.
type Descriptor struct {
	// Name is the unique tool identifier used in invocation requests.
	Name string `json:"name"`
	// Description is shown to the engine to help it decide when to call the tool.
	Description string `json:"description"`
	// InputSchema is a JSON-Schema-like object describing accepted arguments.
	// Inside a Catalog it is always in normalized (engine-dialect) form.
	InputSchema map[string]any `json:"input_schema"`
}

// Lister fetches the raw tool list from the executor. Implemented by the
// executor client; satisfied by any stub in tests.
type Lister interface {
	ListTools(ctx context.Context) ([]Descriptor, error)
}

// Catalog is the snapshot of available tools for one session. It is built
// once before the loop starts and read-only thereafter, so it can be shared
// across concurrent invocations without locking.
type Catalog struct {
	ordered []Descriptor
	byName  map[string]int
}

// BuildCatalog fetches the tool list and normalizes every input schema
// exactly once. Duplicate names are a configuration fault and rejected.
func BuildCatalog(ctx context.Context, lister Lister) (*Catalog, error) {
	descriptors, err := lister.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	c := &Catalog{byName: make(map[string]int, len(descriptors))}
	for _, d := range descriptors {
		if _, exists := c.byName[d.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q in catalog", d.Name)
		}
		d.InputSchema = schema.Normalize(d.InputSchema)
		c.byName[d.Name] = len(c.ordered)
		c.ordered = append(c.ordered, d)
	}

	return c, nil
}

// Descriptors returns the catalog entries in listing order. The returned
// slice is a copy; the catalog itself stays immutable.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Get looks up a descriptor by name.
func (c *Catalog) Get(name string) (Descriptor, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return c.ordered[i], true
}

// Len returns the number of tools in the catalog.
func (c *Catalog) Len() int { return len(c.ordered) }
