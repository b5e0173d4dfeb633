// Package vehicle holds the export fleet data source: an in-memory vehicle
// store, the HTTP API that serves it, and the client the tool server uses to
// reach that API.
package vehicle

import (
	"sort"
	"strings"
	"sync"
)

// Vehicle is one unit in the export fleet.
type Vehicle struct {
	ID          string `json:"id"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	Destination string `json:"destination"`
}

// Summary renders the one-line description used in tool results.
func (v Vehicle) Summary() string {
	return "Vehicle " + v.ID + ": " + v.Make + " " + v.Model +
		" is currently " + v.Status + " heading to " + v.Destination + "."
}

// Filter selects vehicles by optional criteria. Each non-empty field matches
// case-insensitively anywhere in the corresponding vehicle field; multiple
// fields intersect.
type Filter struct {
	Make        string
	Model       string
	Status      string
	Destination string
}

func (f Filter) matches(v Vehicle) bool {
	contains := func(value, term string) bool {
		return term == "" || strings.Contains(strings.ToLower(value), strings.ToLower(term))
	}
	return contains(v.Make, f.Make) &&
		contains(v.Model, f.Model) &&
		contains(v.Status, f.Status) &&
		contains(v.Destination, f.Destination)
}

// Store is a concurrency-safe in-memory vehicle registry.
type Store struct {
	mu       sync.RWMutex
	vehicles map[string]Vehicle
}

// NewStore returns a store seeded with the demo export fleet.
func NewStore() *Store {
	seed := []Vehicle{
		{ID: "101", Make: "Toyota", Model: "HiAce", Status: "In Port", Destination: "Colombo"},
		{ID: "102", Make: "Honda", Model: "Fit", Status: "Shipped", Destination: "Kandy"},
		{ID: "103", Make: "Ford", Model: "Transit", Status: "In Port", Destination: "Galle"},
		{ID: "104", Make: "Tesla", Model: "Model X", Status: "Shipped", Destination: "Jaffna"},
		{ID: "105", Make: "Nissan", Model: "NV200", Status: "In Port", Destination: "Trincomalee"},
	}
	vehicles := make(map[string]Vehicle, len(seed))
	for _, v := range seed {
		vehicles[v.ID] = v
	}
	return &Store{vehicles: vehicles}
}

// List returns all vehicles ordered by ID.
func (s *Store) List() []Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Search returns the vehicles matching all of the filter's criteria, ordered
// by ID.
func (s *Store) Search(f Filter) []Vehicle {
	var out []Vehicle
	for _, v := range s.List() {
		if f.matches(v) {
			out = append(out, v)
		}
	}
	return out
}

// Get looks up one vehicle by ID.
func (s *Store) Get(id string) (Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	return v, ok
}

// UpdateStatus replaces the status field of one vehicle. It reports false if
// the vehicle does not exist.
func (s *Store) UpdateStatus(id, status string) (Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok {
		return Vehicle{}, false
	}
	v.Status = status
	s.vehicles[id] = v
	return v, true
}
