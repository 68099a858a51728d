package models

import "time"

// Query lookup outcome constants
const (
	OutcomePredicted = "predicted"
	OutcomeNoData    = "no_data"
	OutcomeDegraded  = "degraded"
	OutcomeFailed    = "failed"
)

// QueryLookup represents a per-repository request count by outcome.
type QueryLookup struct {
	Repo       string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}
