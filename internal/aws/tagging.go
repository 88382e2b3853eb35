package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	tagtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
)

// defaultTaggingPageSize matches the page size the tagging API is queried with.
const defaultTaggingPageSize = 50

// TaggingAPI is the minimal interface for Resource Groups Tagging operations.
type TaggingAPI interface {
	resourcegroupstaggingapi.GetResourcesAPIClient
}

// TaggingScanner lists tagged resources in one region.
type TaggingScanner struct {
	client TaggingAPI
	region string
}

// NewTaggingScanner creates a scanner for tagged resources.
func NewTaggingScanner(client TaggingAPI, region string) *TaggingScanner {
	return &TaggingScanner{client: client, region: region}
}

// TaggingScannerFactory builds tagging scanners for MultiRegionScanner.
func TaggingScannerFactory(cfg awssdk.Config, region string) ResourceScanner {
	return NewTaggingScanner(resourcegroupstaggingapi.NewFromConfig(cfg), region)
}

// Kind returns the resource kind.
func (s *TaggingScanner) Kind() ResourceKind {
	return KindTaggedResource
}

// Scan pages through GetResources and records every resource with its tags.
func (s *TaggingScanner) Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultTaggingPageSize
	}

	input := &resourcegroupstaggingapi.GetResourcesInput{
		ResourcesPerPage:    awssdk.Int32(pageSize),
		ResourceTypeFilters: cfg.ResourceTypes,
		TagFilters:          buildTagFilters(cfg.Tags),
	}

	result := &ScanResult{}
	paginator := resourcegroupstaggingapi.NewGetResourcesPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("get resources: %w", err)
		}

		for _, m := range page.ResourceTagMappingList {
			arn := deref(m.ResourceARN)
			tags := make(map[string]string, len(m.Tags))
			for _, t := range m.Tags {
				tags[deref(t.Key)] = deref(t.Value)
			}
			result.Resources = append(result.Resources, TaggedResource{
				Region: s.region,
				ARN:    arn,
				Type:   ResourceTypeFromARN(arn),
				Tags:   tags,
			})
		}
	}

	result.ResourcesScanned = len(result.Resources)
	return result, nil
}

// ResourceTypeFromARN returns the service field of an ARN
// (arn:partition:service:region:account:resource), or "unknown".
func ResourceTypeFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 4)
	if len(parts) < 3 || parts[2] == "" {
		return "unknown"
	}
	return parts[2]
}

// buildTagFilters turns Key=Value pairs into tagging API filters.
// An empty value matches any value of the key.
func buildTagFilters(tags map[string]string) []tagtypes.TagFilter {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	filters := make([]tagtypes.TagFilter, 0, len(keys))
	for _, k := range keys {
		f := tagtypes.TagFilter{Key: awssdk.String(k)}
		if v := tags[k]; v != "" {
			f.Values = []string{v}
		}
		filters = append(filters, f)
	}
	return filters
}
