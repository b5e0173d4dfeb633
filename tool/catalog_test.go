package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister struct {
	descriptors []Descriptor
	err         error
}

func (s staticLister) ListTools(_ context.Context) ([]Descriptor, error) {
	return s.descriptors, s.err
}

func TestBuildCatalogNormalizesOnce(t *testing.T) {
	lister := staticLister{descriptors: []Descriptor{
		{
			Name:        "get_vehicle_details",
			Description: "Fetch vehicle status",
			InputSchema: map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"vehicle_id": map[string]any{"type": "string"},
				},
				"required": []any{"vehicle_id"},
			},
		},
		{Name: "list_vehicles", Description: "List inventory", InputSchema: map[string]any{"type": "object"}},
	}}

	catalog, err := BuildCatalog(context.Background(), lister)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	d, ok := catalog.Get("get_vehicle_details")
	require.True(t, ok)
	assert.NotContains(t, d.InputSchema, "additionalProperties")
	assert.Equal(t, []any{"vehicle_id"}, d.InputSchema["required"])
}

func TestBuildCatalogPreservesOrder(t *testing.T) {
	lister := staticLister{descriptors: []Descriptor{
		{Name: "b_tool"}, {Name: "a_tool"}, {Name: "c_tool"},
	}}

	catalog, err := BuildCatalog(context.Background(), lister)
	require.NoError(t, err)

	var names []string
	for _, d := range catalog.Descriptors() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"b_tool", "a_tool", "c_tool"}, names)
}

func TestBuildCatalogRejectsDuplicateNames(t *testing.T) {
	lister := staticLister{descriptors: []Descriptor{
		{Name: "echo"}, {Name: "echo"},
	}}

	_, err := BuildCatalog(context.Background(), lister)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}

func TestBuildCatalogPropagatesListError(t *testing.T) {
	lister := staticLister{err: errors.New("transport down")}

	_, err := BuildCatalog(context.Background(), lister)
	assert.Error(t, err)
}

func TestCatalogGetMissing(t *testing.T) {
	catalog, err := BuildCatalog(context.Background(), staticLister{})
	require.NoError(t, err)

	_, ok := catalog.Get("nope")
	assert.False(t, ok)
}
