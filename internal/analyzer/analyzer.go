package analyzer

import (
	"fmt"

	"github.com/ppiankov/opskit/internal/locust"
)

// Analyze checks every endpoint of the report against the configured thresholds
// and computes the summary.
func Analyze(report *locust.Report, cfg AnalyzerConfig) *AnalysisResult {
	var findings []Finding

	for _, ep := range report.Endpoints {
		meanAvg := ep.MeanAvg()
		if cfg.SlowThresholdMs > 0 && meanAvg > cfg.SlowThresholdMs {
			severity := SeverityMedium
			if meanAvg > 2*cfg.SlowThresholdMs {
				severity = SeverityHigh
			}
			findings = append(findings, Finding{
				ID:       FindingSlowEndpoint,
				Severity: severity,
				Endpoint: ep.Key,
				Message:  fmt.Sprintf("Mean avg response time %.2fms exceeds %.0fms", meanAvg, cfg.SlowThresholdMs),
				Metadata: map[string]any{
					"mean_avg_ms": meanAvg,
					"max_ms":      ep.MaxResponse(),
					"samples":     ep.Count,
				},
			})
		}

		if cfg.MaxFailurePct > 0 && ep.Count > 0 {
			pct := float64(ep.Fails) / float64(ep.Count) * 100
			if pct > cfg.MaxFailurePct {
				findings = append(findings, Finding{
					ID:       FindingFailingEndpoint,
					Severity: SeverityHigh,
					Endpoint: ep.Key,
					Message:  fmt.Sprintf("Failure rate %.2f%% exceeds %.2f%%", pct, cfg.MaxFailurePct),
					Metadata: map[string]any{
						"fails":   ep.Fails,
						"samples": ep.Count,
					},
				})
			}
		}
	}

	summary := Summary{
		TotalEndpoints: report.TotalEndpoints,
		TotalRequests:  report.TotalRequests,
		TotalFails:     report.TotalFails,
		FailurePercent: report.FailurePercent,
		TotalFindings:  len(findings),
		BySeverity:     make(map[string]int),
		LinesRead:      report.LinesRead,
		LinesMatched:   report.LinesMatched,
	}
	for _, f := range findings {
		summary.BySeverity[string(f.Severity)]++
	}

	return &AnalysisResult{
		Report:   report,
		Findings: findings,
		Summary:  summary,
	}
}
