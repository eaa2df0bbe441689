package metrics

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/sirupsen/logrus"
)

// mockCloudWatch records PutMetricData calls.
type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestMirrorFailure_EmitsCounterWithOpDimension(t *testing.T) {
	mock := &mockCloudWatch{}
	r := NewCloudWatchReporter(mock, testLogger())

	r.MirrorFailure("add")

	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 put, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.Namespace != "Storefront" {
		t.Fatalf("namespace %q", *in.Namespace)
	}
	datum := in.MetricData[0]
	if *datum.MetricName != "MirrorCallFailure" || *datum.Value != 1 {
		t.Fatalf("datum %+v", datum)
	}
	if len(datum.Dimensions) != 1 || *datum.Dimensions[0].Name != "Op" || *datum.Dimensions[0].Value != "add" {
		t.Fatalf("dimensions %+v", datum.Dimensions)
	}
}

func TestPutFailure_IsSwallowed(t *testing.T) {
	mock := &mockCloudWatch{err: errors.New("throttled")}
	r := NewCloudWatchReporter(mock, testLogger())

	// must not panic or propagate
	r.PromotionRejected()
	r.OrderSubmitFailure()

	if len(mock.inputs) != 2 {
		t.Fatalf("expected 2 puts, got %d", len(mock.inputs))
	}
}
