package aws

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/sync/errgroup"
)

// ResourceScanner collects one kind of resource from a single region.
type ResourceScanner interface {
	Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error)
	Kind() ResourceKind
}

// ScannerFactory builds a ResourceScanner bound to a regional config.
type ScannerFactory func(cfg awssdk.Config, region string) ResourceScanner

// MultiRegionScanner orchestrates scanning across multiple AWS regions.
// A failing region is recorded in ScanResult.Errors and does not stop the others.
type MultiRegionScanner struct {
	client      *Client
	regions     []string
	concurrency int
	scanConfig  ScanConfig
	factory     ScannerFactory
	progressFn  func(ScanProgress)
}

// NewMultiRegionScanner creates a scanner that runs factory-built scanners across the specified regions.
func NewMultiRegionScanner(client *Client, regions []string, concurrency int, scanCfg ScanConfig, factory ScannerFactory) *MultiRegionScanner {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &MultiRegionScanner{
		client:      client,
		regions:     regions,
		concurrency: concurrency,
		scanConfig:  scanCfg,
		factory:     factory,
	}
}

// SetProgressFn sets a callback for progress updates. The callback is never
// invoked concurrently.
func (s *MultiRegionScanner) SetProgressFn(fn func(ScanProgress)) {
	s.progressFn = fn
}

// ScanAll runs the scanner in every configured region. Results are ordered by
// region in the order the regions were given.
func (s *MultiRegionScanner) ScanAll(ctx context.Context) (*ScanResult, error) {
	var (
		mu        sync.Mutex
		combined  ScanResult
		perRegion = make([]*ScanResult, len(s.regions))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, region := range s.regions {
		g.Go(func() error {
			scanner := s.factory(s.client.ConfigForRegion(region), region)
			s.report(&mu, ScanProgress{Region: region, Scanner: scanner.Kind(), Message: ProgressStarted})
			slog.Info("Scanning region", "region", region, "kind", scanner.Kind())

			result, err := scanner.Scan(ctx, s.scanConfig)
			if err != nil {
				mu.Lock()
				combined.Errors = append(combined.Errors, fmt.Sprintf("%s: %v", region, err))
				mu.Unlock()
				slog.Warn("Region scan failed", "region", region, "error", err)
				s.report(&mu, ScanProgress{Region: region, Scanner: scanner.Kind(), Message: ProgressFailed, Err: err})
				return nil // don't abort other regions
			}

			perRegion[i] = result
			s.report(&mu, ScanProgress{Region: region, Scanner: scanner.Kind(), Message: ProgressFinished, Found: result.ResourcesScanned, Result: result})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range perRegion {
		if r == nil {
			continue
		}
		combined.Apps = append(combined.Apps, r.Apps...)
		combined.Resources = append(combined.Resources, r.Resources...)
		combined.Errors = append(combined.Errors, r.Errors...)
		combined.ResourcesScanned += r.ResourcesScanned
	}
	sort.Strings(combined.Errors)

	combined.RegionsScanned = len(s.regions)
	return &combined, nil
}

func (s *MultiRegionScanner) report(mu *sync.Mutex, p ScanProgress) {
	if s.progressFn == nil {
		return
	}
	p.Timestamp = time.Now()
	mu.Lock()
	defer mu.Unlock()
	s.progressFn(p)
}
