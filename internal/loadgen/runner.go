// Package loadgen drives simulated storefront shoppers against an HTTP host
// and reports per-endpoint statistics in the Locust console layout.
package loadgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config controls a load test run.
type Config struct {
	Host           string
	Users          int
	SpawnRate      float64
	Duration       time.Duration
	MinWait        time.Duration
	MaxWait        time.Duration
	StatsInterval  time.Duration
	RequestTimeout time.Duration
	Seed           uint64
}

// Defaults for unset Config fields.
const (
	DefaultUsers          = 10
	DefaultSpawnRate      = 1.0
	DefaultDuration       = 5 * time.Minute
	DefaultMinWait        = 1 * time.Second
	DefaultMaxWait        = 10 * time.Second
	DefaultStatsInterval  = 30 * time.Second
	DefaultRequestTimeout = 60 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Users <= 0 {
		c.Users = DefaultUsers
	}
	if c.SpawnRate <= 0 {
		c.SpawnRate = DefaultSpawnRate
	}
	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}
	if c.MinWait <= 0 && c.MaxWait <= 0 {
		c.MinWait, c.MaxWait = DefaultMinWait, DefaultMaxWait
	}
	if c.MaxWait < c.MinWait {
		c.MaxWait = c.MinWait
	}
	if c.StatsInterval <= 0 {
		c.StatsInterval = DefaultStatsInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

// Validate checks the settings that have no default.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	u, err := url.Parse(c.Host)
	if err != nil {
		return fmt.Errorf("parse host %s: %w", c.Host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("host %s must start with http:// or https://", c.Host)
	}
	return nil
}

// Runner executes a load test.
type Runner struct {
	cfg       Config
	tasks     []Task
	stats     *Stats
	out       io.Writer
	transport http.RoundTripper
}

// NewRunner validates cfg and prepares a run that writes stats tables to out.
func NewRunner(cfg Config, tasks []Task, out io.Writer) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		tasks = DefaultTasks()
	}
	if totalWeight(tasks) == 0 {
		return nil, errors.New("task weights sum to zero")
	}
	cfg = cfg.withDefaults()

	return &Runner{
		cfg:   cfg,
		tasks: tasks,
		stats: NewStats(),
		out:   out,
		transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.Users * 2,
			MaxIdleConnsPerHost: cfg.Users * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}, nil
}

// Stats returns the live statistics collector.
func (r *Runner) Stats() *Stats {
	return r.stats
}

// Run spawns users until Duration elapses or ctx is cancelled, printing a
// stats table every StatsInterval and once more at the end.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	slog.Info("Starting load test", "host", r.cfg.Host, "users", r.cfg.Users, "spawn_rate", r.cfg.SpawnRate, "duration", r.cfg.Duration)

	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		r.printPeriodically(ctx)
	}()

	g, gctx := errgroup.WithContext(ctx)
	spawnEvery := time.Duration(float64(time.Second) / r.cfg.SpawnRate)

	for i := 0; i < r.cfg.Users; i++ {
		if i > 0 && !sleep(gctx, spawnEvery) {
			break
		}
		user, err := newUser(r.cfg.Host, r.transport, r.cfg.RequestTimeout, r.stats, r.cfg.Seed+uint64(i), r.cfg.MinWait, r.cfg.MaxWait)
		if err != nil {
			cancel()
			_ = g.Wait()
			<-printerDone
			return fmt.Errorf("create user %d: %w", i, err)
		}
		g.Go(func() error {
			r.runUser(gctx, user)
			return nil
		})
	}

	_ = g.Wait()
	<-ctx.Done()
	<-printerDone

	if err := r.stats.WriteTable(r.out); err != nil {
		return err
	}
	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runUser executes the on-start index visit, then weighted tasks separated by
// think time until ctx ends.
func (r *Runner) runUser(ctx context.Context, u *User) {
	index(ctx, u)

	total := totalWeight(r.tasks)
	for ctx.Err() == nil {
		if !sleep(ctx, u.thinkTime()) {
			return
		}
		task := pickTask(r.tasks, u.rng.IntN(total))
		task.Run(ctx, u)
	}
}

func (r *Runner) printPeriodically(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.stats.WriteTable(r.out); err != nil {
				slog.Warn("Failed to write stats", "error", err)
			}
		}
	}
}

// sleep waits for d or until ctx ends. Reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
