package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/ppiankov/opskit/internal/locust"
)

type mockCloudWatchClient struct {
	putMetricDataFn func(ctx context.Context, input *cloudwatch.PutMetricDataInput, opts ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

func (m *mockCloudWatchClient) PutMetricData(ctx context.Context, input *cloudwatch.PutMetricDataInput, opts ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	return m.putMetricDataFn(ctx, input, opts...)
}

func sampleLocustReport() *locust.Report {
	agg := locust.NewAggregator()
	agg.Add(locust.StatLine{Method: locust.MethodGet, Path: "/cart", Fails: 0, Avg: 120, Max: 200})
	agg.Add(locust.StatLine{Method: locust.MethodGet, Path: "/cart", Fails: 1, Avg: 140, Max: 210})
	agg.Add(locust.StatLine{Method: locust.MethodPost, Path: "/setCurrency", Avg: 40, Max: 90})
	return agg.Report(3)
}

func TestMetricsPublisher_PublishReport(t *testing.T) {
	var inputs []*cloudwatch.PutMetricDataInput
	mock := &mockCloudWatchClient{
		putMetricDataFn: func(_ context.Context, input *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
			inputs = append(inputs, input)
			return &cloudwatch.PutMetricDataOutput{}, nil
		},
	}

	pub := NewMetricsPublisher(mock, "LoadTest/Boutique")
	pub.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	n, err := pub.PublishReport(context.Background(), sampleLocustReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 datums, got %d", n)
	}
	if len(inputs) != 1 {
		t.Fatalf("expected 1 call, got %d", len(inputs))
	}
	if *inputs[0].Namespace != "LoadTest/Boutique" {
		t.Fatalf("unexpected namespace %s", *inputs[0].Namespace)
	}

	first := inputs[0].MetricData[0]
	if *first.MetricName != "MeanAvgResponseTime" {
		t.Fatalf("expected MeanAvgResponseTime first, got %s", *first.MetricName)
	}
	if *first.Value != 130 {
		t.Fatalf("expected mean avg 130, got %f", *first.Value)
	}
	if first.Unit != cwtypes.StandardUnitMilliseconds {
		t.Fatalf("expected milliseconds unit, got %s", first.Unit)
	}
	if *first.Dimensions[1].Value != "/cart" {
		t.Fatalf("expected /cart dimension, got %s", *first.Dimensions[1].Value)
	}
}

func TestMetricsPublisher_Error(t *testing.T) {
	mock := &mockCloudWatchClient{
		putMetricDataFn: func(_ context.Context, _ *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
			return nil, errors.New("AccessDenied")
		},
	}

	_, err := NewMetricsPublisher(mock, "ns").PublishReport(context.Background(), sampleLocustReport())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestMetricsPublisher_EmptyReport(t *testing.T) {
	calls := 0
	mock := &mockCloudWatchClient{
		putMetricDataFn: func(_ context.Context, _ *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
			calls++
			return &cloudwatch.PutMetricDataOutput{}, nil
		},
	}

	n, err := NewMetricsPublisher(mock, "ns").PublishReport(context.Background(), locust.NewAggregator().Report(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 || calls != 0 {
		t.Fatalf("expected no datums and no calls, got %d datums and %d calls", n, calls)
	}
}

func TestBatchDatums(t *testing.T) {
	datums := make([]cwtypes.MetricDatum, 2500)

	batches := batchDatums(datums, maxMetricDatums)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 1000 || len(batches[2]) != 500 {
		t.Fatalf("unexpected batch sizes %d, %d", len(batches[0]), len(batches[2]))
	}
}

func TestBatchDatums_Empty(t *testing.T) {
	if batches := batchDatums(nil, 10); len(batches) != 0 {
		t.Fatalf("expected 0 batches, got %d", len(batches))
	}
}
