package aws

import (
	"context"
	"errors"
	"strings"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
)

type fakeRegionScanner struct {
	region string
	err    error
}

func (f *fakeRegionScanner) Kind() ResourceKind { return KindTaggedResource }

func (f *fakeRegionScanner) Scan(_ context.Context, _ ScanConfig) (*ScanResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ScanResult{
		Resources: []TaggedResource{
			{Region: f.region, ARN: "arn:aws:s3:::bucket-" + f.region, Type: "s3"},
		},
		ResourcesScanned: 1,
	}, nil
}

func fakeFactory(failing map[string]bool) ScannerFactory {
	return func(cfg awssdk.Config, region string) ResourceScanner {
		if cfg.Region != region {
			panic("config region not overridden")
		}
		if failing[region] {
			return &fakeRegionScanner{region: region, err: errors.New("AccessDenied")}
		}
		return &fakeRegionScanner{region: region}
	}
}

func TestNewMultiRegionScanner_DefaultConcurrency(t *testing.T) {
	scanner := NewMultiRegionScanner(nil, []string{"us-east-1"}, 0, ScanConfig{}, nil)
	if scanner.concurrency != 4 {
		t.Fatalf("expected default concurrency 4, got %d", scanner.concurrency)
	}
}

func TestNewMultiRegionScanner_CustomConcurrency(t *testing.T) {
	scanner := NewMultiRegionScanner(nil, []string{"us-east-1"}, 8, ScanConfig{}, nil)
	if scanner.concurrency != 8 {
		t.Fatalf("expected concurrency 8, got %d", scanner.concurrency)
	}
}

func TestMultiRegionScanner_EmptyRegions(t *testing.T) {
	scanner := NewMultiRegionScanner(nil, nil, 4, ScanConfig{}, nil)
	result, err := scanner.ScanAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RegionsScanned != 0 {
		t.Fatalf("expected 0 regions scanned, got %d", result.RegionsScanned)
	}
	if len(result.Resources) != 0 {
		t.Fatalf("expected 0 resources, got %d", len(result.Resources))
	}
}

func TestMultiRegionScanner_OrderedResults(t *testing.T) {
	client := NewClientFromConfig(awssdk.Config{Region: "us-east-1"})
	regions := []string{"us-east-1", "eu-west-1", "ap-south-1", "us-west-2"}

	scanner := NewMultiRegionScanner(client, regions, 3, ScanConfig{}, fakeFactory(nil))
	result, err := scanner.ScanAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RegionsScanned != 4 || result.ResourcesScanned != 4 {
		t.Fatalf("expected 4 regions and 4 resources, got %d and %d", result.RegionsScanned, result.ResourcesScanned)
	}
	for i, r := range regions {
		if result.Resources[i].Region != r {
			t.Fatalf("resource %d: expected region %s, got %s", i, r, result.Resources[i].Region)
		}
	}
}

func TestMultiRegionScanner_SkipsFailingRegion(t *testing.T) {
	client := NewClientFromConfig(awssdk.Config{})
	regions := []string{"us-east-1", "eu-west-1"}

	var failed, finished []string
	scanner := NewMultiRegionScanner(client, regions, 2, ScanConfig{}, fakeFactory(map[string]bool{"eu-west-1": true}))
	scanner.SetProgressFn(func(p ScanProgress) {
		switch p.Message {
		case ProgressFailed:
			failed = append(failed, p.Region)
		case ProgressFinished:
			finished = append(finished, p.Region)
			if p.Result == nil || len(p.Result.Resources) != 1 || p.Result.Resources[0].Region != p.Region {
				t.Errorf("expected the region's own result on finish, got %+v", p.Result)
			}
		}
	})

	result, err := scanner.ScanAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Resources) != 1 {
		t.Fatalf("expected 1 resource from the healthy region, got %d", len(result.Resources))
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "eu-west-1:") {
		t.Fatalf("expected eu-west-1 error, got %v", result.Errors)
	}
	if len(failed) != 1 || failed[0] != "eu-west-1" {
		t.Fatalf("expected failed progress for eu-west-1, got %v", failed)
	}
	if len(finished) != 1 || finished[0] != "us-east-1" {
		t.Fatalf("expected finished progress for us-east-1, got %v", finished)
	}
}
