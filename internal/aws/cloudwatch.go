package aws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/ppiankov/opskit/internal/locust"
)

// maxMetricDatums is the maximum number of datums per PutMetricData call.
const maxMetricDatums = 1000

// CloudWatchAPI is the minimal interface for CloudWatch operations needed by the publisher.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, input *cloudwatch.PutMetricDataInput, opts ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsPublisher pushes load test endpoint summaries to CloudWatch.
type MetricsPublisher struct {
	client    CloudWatchAPI
	namespace string
	now       func() time.Time
}

// NewMetricsPublisher creates a publisher writing to the given namespace.
func NewMetricsPublisher(client CloudWatchAPI, namespace string) *MetricsPublisher {
	return &MetricsPublisher{client: client, namespace: namespace, now: time.Now}
}

// PublishReport sends MeanAvgResponseTime, MaxResponseTime, StatsLines and
// Failures for every endpoint, dimensioned by Method and Path. Returns the
// number of datums written.
func (p *MetricsPublisher) PublishReport(ctx context.Context, report *locust.Report) (int, error) {
	ts := p.now().UTC()
	datums := make([]cwtypes.MetricDatum, 0, len(report.Endpoints)*4)

	for _, ep := range report.Endpoints {
		dims := []cwtypes.Dimension{
			{Name: awssdk.String("Method"), Value: awssdk.String(string(ep.Method))},
			{Name: awssdk.String("Path"), Value: awssdk.String(ep.Path)},
		}
		datums = append(datums,
			datum("MeanAvgResponseTime", ep.MeanAvg(), cwtypes.StandardUnitMilliseconds, dims, ts),
			datum("MaxResponseTime", float64(ep.MaxResponse()), cwtypes.StandardUnitMilliseconds, dims, ts),
			datum("StatsLines", float64(ep.Count), cwtypes.StandardUnitCount, dims, ts),
			datum("Failures", float64(ep.Fails), cwtypes.StandardUnitCount, dims, ts),
		)
	}

	batches := batchDatums(datums, maxMetricDatums)
	for i, batch := range batches {
		slog.Debug("Publishing CloudWatch metrics", "batch", i+1, "total_batches", len(batches), "count", len(batch))
		_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  awssdk.String(p.namespace),
			MetricData: batch,
		})
		if err != nil {
			return 0, fmt.Errorf("put metric data (%s): %w", p.namespace, err)
		}
	}
	return len(datums), nil
}

func datum(name string, value float64, unit cwtypes.StandardUnit, dims []cwtypes.Dimension, ts time.Time) cwtypes.MetricDatum {
	return cwtypes.MetricDatum{
		MetricName: awssdk.String(name),
		Dimensions: dims,
		Value:      awssdk.Float64(value),
		Unit:       unit,
		Timestamp:  awssdk.Time(ts),
	}
}

// batchDatums splits datums into batches of the given size.
func batchDatums(datums []cwtypes.MetricDatum, batchSize int) [][]cwtypes.MetricDatum {
	if batchSize <= 0 {
		batchSize = maxMetricDatums
	}

	var batches [][]cwtypes.MetricDatum
	for i := 0; i < len(datums); i += batchSize {
		end := i + batchSize
		if end > len(datums) {
			end = len(datums)
		}
		batches = append(batches, datums[i:end])
	}
	return batches
}
