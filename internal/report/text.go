package report

import (
	"fmt"
	"strings"
)

// Generate writes totals, the slowest and busiest rankings, and any findings.
func (r *TextReporter) Generate(data Data) error {
	var b strings.Builder
	rep := data.Report

	fmt.Fprintf(&b, "Total endpoints: %d\n", rep.TotalEndpoints)
	fmt.Fprintf(&b, "Total requests: %d\n", rep.TotalRequests)
	fmt.Fprintf(&b, "Total failures: %d (%.2f%%)\n\n", rep.TotalFails, rep.FailurePercent)

	if rep.TotalEndpoints == 0 {
		b.WriteString("No stats lines matched.\n")
		return r.flush(b.String())
	}

	n := data.Config.TopN
	if n <= 0 {
		n = len(rep.Slowest)
	}

	fmt.Fprintf(&b, "Top %d slowest endpoints (avg response time):\n", n)
	for _, e := range rep.Slowest {
		fmt.Fprintf(&b, "%s: avg=%.2fms, max=%dms, fails=%d\n", e.Key, e.MeanAvg, e.MaxResponse, e.Fails)
	}

	fmt.Fprintf(&b, "\nTop %d endpoints by request count:\n", n)
	for _, e := range rep.Busiest {
		fmt.Fprintf(&b, "%s: requests=%d, avg=%.2fms, fails=%d\n", e.Key, e.Count, e.MeanAvg, e.Fails)
	}

	if len(data.Findings) > 0 {
		fmt.Fprintf(&b, "\nFindings (%d):\n", len(data.Findings))
		for _, f := range data.Findings {
			fmt.Fprintf(&b, "  [%s] %s %s: %s\n", strings.ToUpper(string(f.Severity)), f.ID, f.Endpoint, f.Message)
		}
	}

	return r.flush(b.String())
}

func (r *TextReporter) flush(s string) error {
	if _, err := fmt.Fprint(r.Writer, s); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}
