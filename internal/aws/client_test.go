package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type mockRegionsClient struct {
	regions []ec2types.Region
	err     error
}

func (m *mockRegionsClient) DescribeRegions(_ context.Context, _ *ec2.DescribeRegionsInput, _ ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &ec2.DescribeRegionsOutput{Regions: m.regions}, nil
}

func TestListRegions_Sorted(t *testing.T) {
	mock := &mockRegionsClient{
		regions: []ec2types.Region{
			{RegionName: awssdk.String("us-west-2")},
			{RegionName: awssdk.String("eu-west-1")},
			{RegionName: nil},
			{RegionName: awssdk.String("ap-south-1")},
		},
	}

	regions, err := listRegions(context.Background(), mock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"ap-south-1", "eu-west-1", "us-west-2"}
	if len(regions) != len(want) {
		t.Fatalf("expected %d regions, got %v", len(want), regions)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Fatalf("region %d: expected %s, got %s", i, want[i], regions[i])
		}
	}
}

func TestListRegions_Error(t *testing.T) {
	mock := &mockRegionsClient{err: errors.New("NoCredentialProviders")}

	if _, err := listRegions(context.Background(), mock); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_ConfigForRegion(t *testing.T) {
	client := NewClientFromConfig(awssdk.Config{Region: "us-east-1"})

	cfg := client.ConfigForRegion("eu-central-1")
	if cfg.Region != "eu-central-1" {
		t.Fatalf("expected eu-central-1, got %s", cfg.Region)
	}
	if client.Config().Region != "us-east-1" {
		t.Fatal("expected original config untouched")
	}
}
