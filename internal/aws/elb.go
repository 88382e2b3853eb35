package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// ELBAPI is the minimal interface for ELBv2 operations.
type ELBAPI interface {
	DescribeLoadBalancers(ctx context.Context, input *elasticloadbalancingv2.DescribeLoadBalancersInput, opts ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error)
}

// LoadBalancerTarget is the address a load test should hit for a named load balancer.
type LoadBalancerTarget struct {
	Name    string
	ARN     string
	DNSName string
	Scheme  string
	Type    string
}

// URL returns the plain HTTP base URL of the load balancer.
func (t LoadBalancerTarget) URL() string {
	return "http://" + t.DNSName
}

// ResolveLoadBalancer returns the load balancer with the given name in the
// client's region. Fails if it does not exist or has no DNS name.
func (c *Client) ResolveLoadBalancer(ctx context.Context, name string) (LoadBalancerTarget, error) {
	return resolveLoadBalancer(ctx, elasticloadbalancingv2.NewFromConfig(c.cfg), name)
}

func resolveLoadBalancer(ctx context.Context, api ELBAPI, name string) (LoadBalancerTarget, error) {
	out, err := api.DescribeLoadBalancers(ctx, &elasticloadbalancingv2.DescribeLoadBalancersInput{
		Names: []string{name},
	})
	if err != nil {
		return LoadBalancerTarget{}, fmt.Errorf("describe load balancer %s: %w", name, err)
	}

	for _, lb := range out.LoadBalancers {
		if deref(lb.LoadBalancerName) != name {
			continue
		}
		if deref(lb.DNSName) == "" {
			return LoadBalancerTarget{}, fmt.Errorf("load balancer %s has no DNS name", name)
		}
		if lb.State != nil && lb.State.Code != "" && lb.State.Code != elbtypes.LoadBalancerStateEnumActive {
			return LoadBalancerTarget{}, fmt.Errorf("load balancer %s is %s", name, lb.State.Code)
		}
		return LoadBalancerTarget{
			Name:    name,
			ARN:     deref(lb.LoadBalancerArn),
			DNSName: deref(lb.DNSName),
			Scheme:  string(lb.Scheme),
			Type:    string(lb.Type),
		}, nil
	}
	return LoadBalancerTarget{}, fmt.Errorf("load balancer %s not found", name)
}
