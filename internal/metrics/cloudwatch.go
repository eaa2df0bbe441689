// Package metrics reports storefront counters to CloudWatch. Emission is
// best-effort: a failed put is logged and dropped, never surfaced to the
// code path that triggered it.
package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/sirupsen/logrus"

	internalaws "github.com/fragrancedemumu/storefront-go/internal/aws"
)

const namespace = "Storefront"

// CloudWatchReporter emits counters via PutMetricData.
type CloudWatchReporter struct {
	client  internalaws.CloudWatchAPI
	log     logrus.FieldLogger
	timeout time.Duration
	nowFunc func() time.Time
}

func NewCloudWatchReporter(client internalaws.CloudWatchAPI, log logrus.FieldLogger) *CloudWatchReporter {
	return &CloudWatchReporter{
		client:  client,
		log:     log,
		timeout: 5 * time.Second,
		nowFunc: time.Now,
	}
}

// MirrorFailure counts one failed cart mirror call, tagged by operation.
func (r *CloudWatchReporter) MirrorFailure(op string) {
	r.putCount("MirrorCallFailure", map[string]string{"Op": op})
}

// PromotionRejected counts one backend promotion rejection.
func (r *CloudWatchReporter) PromotionRejected() {
	r.putCount("PromotionRejected", nil)
}

// OrderSubmitFailure counts one failed order-create call.
func (r *CloudWatchReporter) OrderSubmitFailure() {
	r.putCount("OrderSubmitFailure", nil)
}

func (r *CloudWatchReporter) putCount(name string, dims map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	datum := cwtypes.MetricDatum{
		MetricName: awsString(name),
		Unit:       cwtypes.StandardUnitCount,
		Value:      awsFloat(1),
		Timestamp:  awsTime(r.nowFunc()),
	}
	for k, v := range dims {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{
			Name:  awsString(k),
			Value: awsString(v),
		})
	}

	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  awsString(namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		r.log.WithError(err).WithField("metric", name).Debug("metrics: put metric failed")
	}
}

func awsString(s string) *string     { return &s }
func awsFloat(f float64) *float64    { return &f }
func awsTime(t time.Time) *time.Time { return &t }
