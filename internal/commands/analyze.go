package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/google/uuid"
	"github.com/ppiankov/opskit/internal/analyzer"
	"github.com/ppiankov/opskit/internal/aws"
	"github.com/ppiankov/opskit/internal/locust"
	"github.com/ppiankov/opskit/internal/report"
	"github.com/spf13/cobra"
)

const defaultLogFile = "locust_logs_highload.txt"

var analyzeFlags struct {
	logFile          string
	format           string
	outputFile       string
	top              int
	slowThresholdMs  float64
	maxFailurePct    float64
	publishNamespace string
	timeout          time.Duration
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [LOGFILE]",
	Short: "Summarize a Locust stats log",
	Long: `Read a Locust console stats log, group rows by "METHOD /path" and print
totals, the slowest endpoints by mean average response time and the busiest
endpoints by number of stats rows. Use "-" to read from stdin.

Thresholds turn slow or failing endpoints into findings, shown in text output
and emitted as JSON or SARIF for CI gates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.logFile, "logfile", defaultLogFile, "Stats log to analyze")
	analyzeCmd.Flags().StringVar(&analyzeFlags.format, "format", "text", "Output format: text, json, sarif")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.outputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().IntVar(&analyzeFlags.top, "top", locust.DefaultTopN, "Number of endpoints in each ranking")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.slowThresholdMs, "slow-threshold-ms", 0, "Flag endpoints whose mean avg exceeds this (0 disables)")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.maxFailurePct, "max-failure-pct", 0, "Flag endpoints whose failure rate exceeds this percent (0 disables)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.publishNamespace, "publish-namespace", "", "Publish endpoint metrics to this CloudWatch namespace")
	analyzeCmd.Flags().DurationVar(&analyzeFlags.timeout, "timeout", 2*time.Minute, "Timeout for publishing metrics")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	applyAnalyzeDefaults(cmd.Flags().Changed)
	if len(args) == 1 {
		analyzeFlags.logFile = args[0]
	}

	rep, err := readStats(analyzeFlags.logFile, analyzeFlags.top)
	if err != nil {
		return err
	}
	slog.Debug("Stats log read", "path", analyzeFlags.logFile, "lines", rep.LinesRead, "matched", rep.LinesMatched)

	analysis := analyzer.Analyze(rep, analyzer.AnalyzerConfig{
		SlowThresholdMs: analyzeFlags.slowThresholdMs,
		MaxFailurePct:   analyzeFlags.maxFailurePct,
	})

	data := report.Data{
		Tool:      "opskit",
		Version:   version,
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    report.Source{Path: analyzeFlags.logFile},
		Config: report.ReportConfig{
			TopN:            analyzeFlags.top,
			SlowThresholdMs: analyzeFlags.slowThresholdMs,
			MaxFailurePct:   analyzeFlags.maxFailurePct,
		},
		Report:   rep,
		Findings: analysis.Findings,
		Summary:  analysis.Summary,
	}

	w, closeOut, err := openOutput(analyzeFlags.outputFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	reporter, err := selectReporter(analyzeFlags.format, w)
	if err != nil {
		return err
	}
	if err := reporter.Generate(data); err != nil {
		return err
	}

	if analyzeFlags.publishNamespace == "" {
		return nil
	}
	return publishMetrics(cmd.Context(), rep)
}

func readStats(path string, top int) (*locust.Report, error) {
	if path == "-" {
		rep, err := locust.Analyze(os.Stdin, top)
		if err != nil {
			return nil, fmt.Errorf("analyze stdin: %w", err)
		}
		return rep, nil
	}
	return locust.AnalyzeFile(path, top)
}

func publishMetrics(ctx context.Context, rep *locust.Report) error {
	if analyzeFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, analyzeFlags.timeout)
		defer cancel()
	}

	client, err := newAWSClient(ctx)
	if err != nil {
		return err
	}

	publisher := aws.NewMetricsPublisher(cloudwatch.NewFromConfig(client.Config()), analyzeFlags.publishNamespace)
	n, err := publisher.PublishReport(ctx, rep)
	if err != nil {
		return enhanceError("publish metrics", err)
	}
	slog.Info("Published metrics", "namespace", analyzeFlags.publishNamespace, "datums", n)
	return nil
}

// applyAnalyzeDefaults applies config file values to flags the user did not set.
func applyAnalyzeDefaults(changed func(name string) bool) {
	if !changed("format") && cfg.Format != "" {
		analyzeFlags.format = cfg.Format
	}
	if !changed("logfile") && cfg.Analyze.LogFile != "" {
		analyzeFlags.logFile = cfg.Analyze.LogFile
	}
	if !changed("top") && cfg.Analyze.Top > 0 {
		analyzeFlags.top = cfg.Analyze.Top
	}
	if !changed("slow-threshold-ms") && cfg.Analyze.SlowThresholdMs > 0 {
		analyzeFlags.slowThresholdMs = cfg.Analyze.SlowThresholdMs
	}
	if !changed("max-failure-pct") && cfg.Analyze.MaxFailurePct > 0 {
		analyzeFlags.maxFailurePct = cfg.Analyze.MaxFailurePct
	}
}
