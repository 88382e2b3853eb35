package analyzer

import (
	"github.com/ppiankov/opskit/internal/locust"
)

// Severity levels for findings.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// FindingID identifies the kind of problem detected on an endpoint.
type FindingID string

const (
	FindingSlowEndpoint    FindingID = "SLOW_ENDPOINT"
	FindingFailingEndpoint FindingID = "FAILING_ENDPOINT"
)

// Finding is a single endpoint that crossed a threshold.
type Finding struct {
	ID       FindingID      `json:"id"`
	Severity Severity       `json:"severity"`
	Endpoint string         `json:"endpoint"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Summary holds the headline totals of a load test report.
type Summary struct {
	TotalEndpoints int            `json:"total_endpoints"`
	TotalRequests  int            `json:"total_requests"`
	TotalFails     int            `json:"total_fails"`
	FailurePercent float64        `json:"failure_percent"`
	TotalFindings  int            `json:"total_findings"`
	BySeverity     map[string]int `json:"by_severity"`
	LinesRead      int            `json:"lines_read"`
	LinesMatched   int            `json:"lines_matched"`
}

// AnalysisResult holds the aggregated report, findings and summary.
type AnalysisResult struct {
	Report   *locust.Report `json:"report"`
	Findings []Finding      `json:"findings"`
	Summary  Summary        `json:"summary"`
}

// AnalyzerConfig controls threshold checks. Zero disables a check.
type AnalyzerConfig struct {
	SlowThresholdMs float64
	MaxFailurePct   float64
}
