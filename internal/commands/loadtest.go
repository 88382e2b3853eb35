package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppiankov/opskit/internal/loadgen"
	"github.com/spf13/cobra"
)

var loadtestFlags struct {
	host          string
	alb           string
	users         int
	spawnRate     float64
	duration      time.Duration
	minWait       time.Duration
	maxWait       time.Duration
	statsInterval time.Duration
	outputFile    string
	seed          uint64
}

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Generate storefront load and print Locust-style stats",
	Long: `Spawn simulated shoppers against a storefront. Each user visits the index,
then browses products, changes currency, adds to cart, views the cart and
checks out with weighted probability, waiting a random think time between
actions.

A stats table in the Locust console layout is printed every --stats-interval
and at the end. Save it with --output and feed it to 'opskit analyze'.`,
	RunE: runLoadtest,
}

func init() {
	loadtestCmd.Flags().StringVar(&loadtestFlags.host, "host", "", "Base URL of the storefront (e.g. http://frontend.local)")
	loadtestCmd.Flags().StringVar(&loadtestFlags.alb, "alb", "", "Resolve --host from the DNS name of this ELBv2 load balancer")
	loadtestCmd.Flags().IntVar(&loadtestFlags.users, "users", loadgen.DefaultUsers, "Number of simulated users")
	loadtestCmd.Flags().Float64Var(&loadtestFlags.spawnRate, "spawn-rate", loadgen.DefaultSpawnRate, "Users started per second")
	loadtestCmd.Flags().DurationVar(&loadtestFlags.duration, "duration", loadgen.DefaultDuration, "Test duration")
	loadtestCmd.Flags().DurationVar(&loadtestFlags.minWait, "min-wait", loadgen.DefaultMinWait, "Minimum think time between tasks")
	loadtestCmd.Flags().DurationVar(&loadtestFlags.maxWait, "max-wait", loadgen.DefaultMaxWait, "Maximum think time between tasks")
	loadtestCmd.Flags().DurationVar(&loadtestFlags.statsInterval, "stats-interval", loadgen.DefaultStatsInterval, "How often to print the stats table")
	loadtestCmd.Flags().StringVarP(&loadtestFlags.outputFile, "output", "o", "", "Write stats tables to this file (default: stdout)")
	loadtestCmd.Flags().Uint64Var(&loadtestFlags.seed, "seed", 0, "Random seed (default: time based)")
}

func runLoadtest(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	applyLoadtestDefaults(cmd.Flags().Changed)

	host, err := resolveHost(ctx)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(loadtestFlags.outputFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	runner, err := loadgen.NewRunner(loadgen.Config{
		Host:          host,
		Users:         loadtestFlags.users,
		SpawnRate:     loadtestFlags.spawnRate,
		Duration:      loadtestFlags.duration,
		MinWait:       loadtestFlags.minWait,
		MaxWait:       loadtestFlags.maxWait,
		StatsInterval: loadtestFlags.statsInterval,
		Seed:          loadtestFlags.seed,
	}, nil, w)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Load testing %s with %d users for %s\n", host, loadtestFlags.users, loadtestFlags.duration)
	return runner.Run(ctx)
}

func resolveHost(ctx context.Context) (string, error) {
	if loadtestFlags.host != "" {
		return loadtestFlags.host, nil
	}
	if loadtestFlags.alb == "" {
		return "", fmt.Errorf("no target; use --host or --alb")
	}

	client, err := newAWSClient(ctx)
	if err != nil {
		return "", err
	}
	target, err := client.ResolveLoadBalancer(ctx, loadtestFlags.alb)
	if err != nil {
		return "", enhanceError("resolve load balancer", err)
	}
	return target.URL(), nil
}

// applyLoadtestDefaults applies config file values to flags the user did not set.
func applyLoadtestDefaults(changed func(name string) bool) {
	lt := cfg.LoadTest
	if !changed("host") && lt.Host != "" {
		loadtestFlags.host = lt.Host
	}
	if !changed("alb") && lt.ALB != "" {
		loadtestFlags.alb = lt.ALB
	}
	if !changed("users") && lt.Users > 0 {
		loadtestFlags.users = lt.Users
	}
	if !changed("spawn-rate") && lt.SpawnRate > 0 {
		loadtestFlags.spawnRate = lt.SpawnRate
	}
	if d := lt.DurationOf("duration"); !changed("duration") && d > 0 {
		loadtestFlags.duration = d
	}
	if d := lt.DurationOf("min_wait"); !changed("min-wait") && d > 0 {
		loadtestFlags.minWait = d
	}
	if d := lt.DurationOf("max_wait"); !changed("max-wait") && d > 0 {
		loadtestFlags.maxWait = d
	}
	if d := lt.DurationOf("stats_interval"); !changed("stats-interval") && d > 0 {
		loadtestFlags.statsInterval = d
	}
	if !changed("output") && lt.Output != "" {
		loadtestFlags.outputFile = lt.Output
	}
}
