package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Profile != "" {
		t.Fatalf("expected empty profile, got %q", cfg.Profile)
	}
	if cfg.Analyze.Top != 0 {
		t.Fatalf("expected zero top, got %d", cfg.Analyze.Top)
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	content := `profile: production
regions:
  - us-east-1
  - eu-west-1
format: json
timeout: 5m
output_dir: out
analyze:
  logfile: run.txt
  top: 5
  slow_threshold_ms: 500
  max_failure_pct: 2.5
loadtest:
  host: http://frontend.local
  users: 50
  spawn_rate: 5
  duration: 10m
  min_wait: 1s
  max_wait: 10s
  stats_interval: 30s
resources:
  types:
    - ec2:instance
  tags:
    - "Environment=production"
github:
  owner: acme
  repo: monitoring
  private: true
  files:
    README.md: "# Monitoring"
`
	if err := os.WriteFile(filepath.Join(dir, ".opskit.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Profile != "production" {
		t.Fatalf("expected profile production, got %q", cfg.Profile)
	}
	if len(cfg.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(cfg.Regions))
	}
	if cfg.Format != "json" {
		t.Fatalf("expected format json, got %q", cfg.Format)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("expected output_dir out, got %q", cfg.OutputDir)
	}
	if cfg.Analyze.LogFile != "run.txt" || cfg.Analyze.Top != 5 {
		t.Fatalf("unexpected analyze section: %+v", cfg.Analyze)
	}
	if cfg.Analyze.SlowThresholdMs != 500 || cfg.Analyze.MaxFailurePct != 2.5 {
		t.Fatalf("unexpected analyze thresholds: %+v", cfg.Analyze)
	}
	if cfg.LoadTest.Users != 50 || cfg.LoadTest.SpawnRate != 5 {
		t.Fatalf("unexpected loadtest section: %+v", cfg.LoadTest)
	}
	if cfg.LoadTest.DurationOf("duration").Minutes() != 10 {
		t.Fatalf("expected 10m duration, got %s", cfg.LoadTest.DurationOf("duration"))
	}
	if cfg.LoadTest.DurationOf("stats_interval").Seconds() != 30 {
		t.Fatalf("expected 30s stats interval, got %s", cfg.LoadTest.DurationOf("stats_interval"))
	}
	if len(cfg.Resources.Types) != 1 || len(cfg.Resources.Tags) != 1 {
		t.Fatalf("unexpected resources section: %+v", cfg.Resources)
	}
	if cfg.GitHub.Owner != "acme" || !cfg.GitHub.Private {
		t.Fatalf("unexpected github section: %+v", cfg.GitHub)
	}
	if cfg.GitHub.Files["README.md"] != "# Monitoring" {
		t.Fatalf("unexpected github files: %v", cfg.GitHub.Files)
	}
}

func TestLoad_FractionalSpawnRate(t *testing.T) {
	dir := t.TempDir()
	content := `loadtest:
  spawn_rate: 0.5
`
	if err := os.WriteFile(filepath.Join(dir, ".opskit.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LoadTest.SpawnRate != 0.5 {
		t.Fatalf("expected spawn rate 0.5, got %v", cfg.LoadTest.SpawnRate)
	}
}

func TestLoad_YMLExtension(t *testing.T) {
	dir := t.TempDir()
	content := `profile: staging
`
	if err := os.WriteFile(filepath.Join(dir, ".opskit.yml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Profile != "staging" {
		t.Fatalf("expected profile staging, got %q", cfg.Profile)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	content := `[invalid yaml content`
	if err := os.WriteFile(filepath.Join(dir, ".opskit.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_YAMLPriority(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".opskit.yaml"), []byte(`profile: from-yaml`), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".opskit.yml"), []byte(`profile: from-yml`), 0o644); err != nil {
		t.Fatalf("write yml: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// .yaml should take priority over .yml
	if cfg.Profile != "from-yaml" {
		t.Fatalf("expected profile from-yaml (priority), got %q", cfg.Profile)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OPSKIT_TEST_TOKEN=abc123\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("OPSKIT_TEST_TOKEN", "")
	if err := os.Unsetenv("OPSKIT_TEST_TOKEN"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	if err := LoadEnv(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("OPSKIT_TEST_TOKEN"); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
}

func TestLoadEnv_ExistingWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OPSKIT_TEST_PROFILE=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("OPSKIT_TEST_PROFILE", "from-env")

	if err := LoadEnv(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("OPSKIT_TEST_PROFILE"); got != "from-env" {
		t.Fatalf("expected from-env, got %q", got)
	}
}

func TestLoadEnv_NoFile(t *testing.T) {
	if err := LoadEnv(t.TempDir()); err != nil {
		t.Fatalf("expected no error without .env, got %v", err)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want map[string]string
	}{
		{"empty", nil, nil},
		{"key=value", []string{"Environment=production"}, map[string]string{"Environment": "production"}},
		{"key-only", []string{"temporary"}, map[string]string{"temporary": ""}},
		{"mixed", []string{"Env=prod", "team"}, map[string]string{"Env": "prod", "team": ""}},
		{"empty-value", []string{"Key="}, map[string]string{"Key": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTags(tt.tags)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d: %v", len(tt.want), len(got), got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("key %q: expected %q, got %q", k, v, got[k])
				}
			}
		})
	}
}

func TestConfig_TimeoutDuration(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		wantSec float64
	}{
		{"empty", "", 0},
		{"5m", "5m", 300},
		{"30s", "30s", 30},
		{"invalid", "notaduration", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Timeout: tt.timeout}
			got := cfg.TimeoutDuration().Seconds()
			if got != tt.wantSec {
				t.Fatalf("expected %f seconds, got %f", tt.wantSec, got)
			}
		})
	}
}

func TestLoadTest_DurationOfUnknownField(t *testing.T) {
	l := LoadTest{Duration: "1m"}
	if l.DurationOf("bogus") != 0 {
		t.Fatal("expected zero for unknown field")
	}
}
