package report

import (
	"io"
	"time"

	"github.com/ppiankov/opskit/internal/analyzer"
	"github.com/ppiankov/opskit/internal/locust"
)

// Reporter renders analysis data.
type Reporter interface {
	Generate(data Data) error
}

// Data is everything a reporter needs about one analyzed load test log.
type Data struct {
	Tool      string             `json:"tool"`
	Version   string             `json:"version"`
	RunID     string             `json:"run_id"`
	Timestamp time.Time          `json:"timestamp"`
	Source    Source             `json:"source"`
	Config    ReportConfig       `json:"config"`
	Report    *locust.Report     `json:"report"`
	Findings  []analyzer.Finding `json:"findings"`
	Summary   analyzer.Summary   `json:"summary"`
}

// Source describes the analyzed input.
type Source struct {
	Path string `json:"path"`
}

// ReportConfig records the settings used for the analysis.
type ReportConfig struct {
	TopN            int     `json:"top_n"`
	SlowThresholdMs float64 `json:"slow_threshold_ms,omitempty"`
	MaxFailurePct   float64 `json:"max_failure_pct,omitempty"`
}

// TextReporter writes the human-readable summary.
type TextReporter struct {
	Writer io.Writer
}

// JSONReporter writes the opskit/v1 JSON envelope.
type JSONReporter struct {
	Writer io.Writer
}

// SARIFReporter writes findings as SARIF v2.1.0.
type SARIFReporter struct {
	Writer io.Writer
}
