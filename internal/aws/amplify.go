package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/amplify"
)

// AmplifyAPI is the minimal interface for Amplify operations. It matches
// amplify.ListAppsAPIClient so the SDK paginator can drive it.
type AmplifyAPI interface {
	amplify.ListAppsAPIClient
}

// AmplifyScanner lists Amplify apps in one region.
type AmplifyScanner struct {
	client AmplifyAPI
	region string
}

// NewAmplifyScanner creates a scanner for Amplify apps.
func NewAmplifyScanner(client AmplifyAPI, region string) *AmplifyScanner {
	return &AmplifyScanner{client: client, region: region}
}

// AmplifyScannerFactory builds Amplify scanners for MultiRegionScanner.
func AmplifyScannerFactory(cfg awssdk.Config, region string) ResourceScanner {
	return NewAmplifyScanner(amplify.NewFromConfig(cfg), region)
}

// Kind returns the resource kind.
func (s *AmplifyScanner) Kind() ResourceKind {
	return KindAmplifyApp
}

// Scan pages through ListApps and records every app.
func (s *AmplifyScanner) Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	result := &ScanResult{}
	paginator := amplify.NewListAppsPaginator(s.client, &amplify.ListAppsInput{}, func(o *amplify.ListAppsPaginatorOptions) {
		if cfg.PageSize > 0 {
			o.Limit = cfg.PageSize
		}
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list apps: %w", err)
		}

		for _, app := range page.Apps {
			result.Apps = append(result.Apps, AmplifyApp{
				Region:        s.region,
				AppID:         deref(app.AppId),
				Name:          deref(app.Name),
				ARN:           deref(app.AppArn),
				DefaultDomain: deref(app.DefaultDomain),
				Repository:    deref(app.Repository),
			})
		}
	}

	result.ResourcesScanned = len(result.Apps)
	return result, nil
}
