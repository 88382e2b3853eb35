package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds opskit configuration loaded from .opskit.yaml.
type Config struct {
	Regions   []string  `yaml:"regions"`
	Profile   string    `yaml:"profile"`
	Format    string    `yaml:"format"`
	Timeout   string    `yaml:"timeout"`
	OutputDir string    `yaml:"output_dir"`
	Analyze   Analyze   `yaml:"analyze"`
	LoadTest  LoadTest  `yaml:"loadtest"`
	Resources Resources `yaml:"resources"`
	GitHub    GitHub    `yaml:"github"`
}

// Analyze configures the load test log analyzer.
type Analyze struct {
	LogFile         string  `yaml:"logfile"`
	Top             int     `yaml:"top"`
	SlowThresholdMs float64 `yaml:"slow_threshold_ms"`
	MaxFailurePct   float64 `yaml:"max_failure_pct"`
}

// LoadTest configures the load generator.
type LoadTest struct {
	Host          string  `yaml:"host"`
	ALB           string  `yaml:"alb"`
	Users         int     `yaml:"users"`
	SpawnRate     float64 `yaml:"spawn_rate"`
	Duration      string  `yaml:"duration"`
	MinWait       string  `yaml:"min_wait"`
	MaxWait       string  `yaml:"max_wait"`
	StatsInterval string  `yaml:"stats_interval"`
	Output        string  `yaml:"output"`
}

// Resources narrows the tagged resource scan.
type Resources struct {
	Types []string `yaml:"types"`
	Tags  []string `yaml:"tags"`
}

// ParseTags converts tag strings ("Key=Value" or "Key") into a map.
// Key-only entries have an empty string value, meaning "match any value".
func ParseTags(tags []string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, s := range tags {
		if k, v, ok := strings.Cut(s, "="); ok {
			m[k] = v
		} else {
			m[s] = ""
		}
	}
	return m
}

// GitHub configures the repository scaffolder.
type GitHub struct {
	Owner       string            `yaml:"owner"`
	Repo        string            `yaml:"repo"`
	Description string            `yaml:"description"`
	Private     bool              `yaml:"private"`
	Files       map[string]string `yaml:"files"`
}

// TimeoutDuration parses the timeout string as a duration.
func (c Config) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout)
}

// DurationOf parses one of the load test duration fields. Empty or invalid
// values yield zero so the caller's default applies.
func (l LoadTest) DurationOf(field string) time.Duration {
	switch strings.ToLower(field) {
	case "duration":
		return parseDuration(l.Duration)
	case "min_wait":
		return parseDuration(l.MinWait)
	case "max_wait":
		return parseDuration(l.MaxWait)
	case "stats_interval":
		return parseDuration(l.StatsInterval)
	default:
		return 0
	}
}

func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, _ := time.ParseDuration(s)
	return d
}

// LoadEnv reads KEY=VALUE pairs from a .env file in dir into the process
// environment. Variables that are already set are not overridden. A missing
// file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load searches for .opskit.yaml or .opskit.yml in the given directory
// and returns the parsed config. Returns an empty Config if no file is found.
func Load(dir string) (Config, error) {
	candidates := []string{
		filepath.Join(dir, ".opskit.yaml"),
		filepath.Join(dir, ".opskit.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Config{}, nil
}
