package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
)

const instrumentationName = "github.com/coinbase/wolfssl-go/pkg/wolfssl"

// OTelRecorder is a wolfssl.Observer that records through an OpenTelemetry
// meter.
type OTelRecorder struct {
	builds       metric.Int64Counter
	releases     metric.Int64Counter
	sessions     metric.Int64UpDownCounter
	stepFailures metric.Int64Counter
	reloads      metric.Int64Counter
}

// NewOTelRecorder creates the instruments on meter. A nil meter uses the
// global meter provider.
func NewOTelRecorder(meter metric.Meter) (*OTelRecorder, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(instrumentationName)
	}

	r := &OTelRecorder{}
	var err error

	r.builds, err = meter.Int64Counter(
		"wolfssl.contexts.built",
		metric.WithDescription("Contexts finalized by ContextBuilder.Build"),
		metric.WithUnit("{context}"),
	)
	if err != nil {
		return nil, err
	}

	r.releases, err = meter.Int64Counter(
		"wolfssl.contexts.released",
		metric.WithDescription("Native contexts freed, including abandoned builders"),
		metric.WithUnit("{context}"),
	)
	if err != nil {
		return nil, err
	}

	r.sessions, err = meter.Int64UpDownCounter(
		"wolfssl.sessions.active",
		metric.WithDescription("Sessions currently allocated"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	r.stepFailures, err = meter.Int64Counter(
		"wolfssl.step.failures",
		metric.WithDescription("Failed builder steps and session allocations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	r.reloads, err = meter.Int64Counter(
		"wolfssl.reloads",
		metric.WithDescription("Context reload attempts"),
		metric.WithUnit("{reload}"),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func methodAttr(m wolfssl.Method) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("wolfssl.method", m.String()))
}

func (r *OTelRecorder) ContextBuilt(m wolfssl.Method) {
	r.builds.Add(context.Background(), 1, methodAttr(m))
}

func (r *OTelRecorder) ContextReleased(m wolfssl.Method) {
	r.releases.Add(context.Background(), 1, methodAttr(m))
}

func (r *OTelRecorder) SessionCreated(m wolfssl.Method) {
	r.sessions.Add(context.Background(), 1, methodAttr(m))
}

func (r *OTelRecorder) SessionReleased(m wolfssl.Method) {
	r.sessions.Add(context.Background(), -1, methodAttr(m))
}

func (r *OTelRecorder) StepFailed(m wolfssl.Method, step wolfssl.Step, _ error) {
	r.stepFailures.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("wolfssl.method", m.String()),
		attribute.String("wolfssl.step", string(step)),
	))
}

// Reloaded records the outcome of a reload attempt.
func (r *OTelRecorder) Reloaded(err error) {
	r.reloads.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

var _ wolfssl.Observer = (*OTelRecorder)(nil)
