package aws

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const metricNamespace = "Sustaina/Storefront"

// Metrics publishes operational counters to CloudWatch. Failures are
// logged and swallowed; metrics must never fail a request.
type Metrics struct {
	client CloudWatchAPI
}

// NewMetrics returns a Metrics emitter. A nil client disables emission,
// which keeps local runs and unit tests free of AWS calls.
func NewMetrics(client CloudWatchAPI) *Metrics {
	return &Metrics{client: client}
}

// Count emits a count-unit data point for the named metric.
func (m *Metrics) Count(ctx context.Context, name string, value float64) {
	if m == nil || m.client == nil {
		return
	}
	now := time.Now().UTC()
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: awsString(metricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString(name),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      &value,
			},
		},
	})
	if err != nil {
		log.Printf("cloudwatch put metric %s failed: %v", name, err)
	}
}
