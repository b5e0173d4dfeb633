// Package core contains the shared data model of the agent: role-tagged
// conversation content built from a closed set of part types, the append-only
// conversation log for a single query, the step limiter bounding engine
// round-trips, and the terminal loop outcome.
package core
