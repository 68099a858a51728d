package models

// Query intent constants
const (
	IntentFix        = "fix"
	IntentOptimize   = "optimize"
	IntentDebug      = "debug"
	IntentImplement  = "implement"
	IntentUnderstand = "understand"
	IntentGeneral    = "general"
)

// Severity constants
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// QueryProfile is the structured form of a free-text developer query.
// It is produced once per request and never mutated afterwards.
type QueryProfile struct {
	Intent      string   `json:"intent"`
	Keywords    []string `json:"keywords"`
	TechStack   []string `json:"tech_stack"`
	SearchTerms string   `json:"search_terms"`
	Severity    string   `json:"severity"`
}
