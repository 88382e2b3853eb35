package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

type mockELBClient struct {
	lbs   []elbtypes.LoadBalancer
	err   error
	names []string
}

func (m *mockELBClient) DescribeLoadBalancers(_ context.Context, input *elasticloadbalancingv2.DescribeLoadBalancersInput, _ ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error) {
	m.names = input.Names
	if m.err != nil {
		return nil, m.err
	}
	return &elasticloadbalancingv2.DescribeLoadBalancersOutput{
		LoadBalancers: m.lbs,
	}, nil
}

func TestResolveLoadBalancer(t *testing.T) {
	mock := &mockELBClient{
		lbs: []elbtypes.LoadBalancer{
			{
				LoadBalancerArn:  awssdk.String("arn:aws:elasticloadbalancing:us-east-1:123456:loadbalancer/app/frontend/abc123"),
				LoadBalancerName: awssdk.String("frontend"),
				DNSName:          awssdk.String("frontend-123.us-east-1.elb.amazonaws.com"),
				Type:             elbtypes.LoadBalancerTypeEnumApplication,
				Scheme:           elbtypes.LoadBalancerSchemeEnumInternetFacing,
				State:            &elbtypes.LoadBalancerState{Code: elbtypes.LoadBalancerStateEnumActive},
			},
		},
	}

	target, err := resolveLoadBalancer(context.Background(), mock, "frontend")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.names) != 1 || mock.names[0] != "frontend" {
		t.Fatalf("expected lookup by name, got %v", mock.names)
	}
	if target.URL() != "http://frontend-123.us-east-1.elb.amazonaws.com" {
		t.Fatalf("unexpected URL %s", target.URL())
	}
	if target.Type != "application" {
		t.Fatalf("expected application type, got %s", target.Type)
	}
}

func TestResolveLoadBalancer_NotFound(t *testing.T) {
	mock := &mockELBClient{}

	if _, err := resolveLoadBalancer(context.Background(), mock, "missing"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestResolveLoadBalancer_NotActive(t *testing.T) {
	mock := &mockELBClient{
		lbs: []elbtypes.LoadBalancer{
			{
				LoadBalancerName: awssdk.String("frontend"),
				DNSName:          awssdk.String("frontend.elb.amazonaws.com"),
				State:            &elbtypes.LoadBalancerState{Code: elbtypes.LoadBalancerStateEnumProvisioning},
			},
		},
	}

	if _, err := resolveLoadBalancer(context.Background(), mock, "frontend"); err == nil {
		t.Fatal("expected error for provisioning load balancer")
	}
}

func TestResolveLoadBalancer_APIError(t *testing.T) {
	mock := &mockELBClient{err: errors.New("LoadBalancerNotFound")}

	if _, err := resolveLoadBalancer(context.Background(), mock, "frontend"); err == nil {
		t.Fatal("expected API error")
	}
}
