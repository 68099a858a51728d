package models

// Strategy labels for clustered solution evidence.
const (
	StrategyUpgradeDependency   = "upgrade_dependency"
	StrategyDowngradeDependency = "downgrade_dependency"
	StrategyConfigurationChange = "configuration_change"
	StrategyWorkaround          = "workaround"
	StrategyCodeFix             = "code_fix"
	StrategyGeneralFix          = "general_fix"
)

// Confidence tiers
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// CommentEvidence is a single thread comment judged to contain a candidate fix.
type CommentEvidence struct {
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// IssueAnalysis is the mined view of one closed issue's discussion thread.
type IssueAnalysis struct {
	IssueNumber   int               `json:"issue_number"`
	Title         string            `json:"title"`
	URL           string            `json:"url"`
	Solutions     []CommentEvidence `json:"solutions"`
	SuccessCount  int               `json:"success_indicators"`
	FailureCount  int               `json:"failure_indicators"`
	TotalComments int               `json:"total_comments"`
	Labels        []string          `json:"labels"`
}

// EvidenceRef points back at the issue a solution excerpt came from.
type EvidenceRef struct {
	Issue int    `json:"issue"`
	Link  string `json:"link"`
	Title string `json:"title"`
}

// SolutionGroup accumulates signal for one strategy label across all analyzed issues.
type SolutionGroup struct {
	Label        string        `json:"label"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Trials       int           `json:"trials"`
	Evidence     []EvidenceRef `json:"evidence"`
}

// Prediction is the derived, read-only view of a SolutionGroup.
type Prediction struct {
	Label        string        `json:"label"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Trials       int           `json:"trials"`
	SuccessRate  float64       `json:"success_rate"`
	Confidence   string        `json:"confidence"`
	Evidence     []EvidenceRef `json:"evidence"`
}

// PredictionReport is the predictor's result for one request.
type PredictionReport struct {
	Predictions         []Prediction `json:"predictions"`
	TotalIssuesAnalyzed int          `json:"total_issues_analyzed,omitempty"`
	Confidence          string       `json:"confidence"`
	Message             string       `json:"message,omitempty"`
	Error               string       `json:"error,omitempty"`
}
