package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
)

const defaultNamespace = "wolfssl"

// Collector is a wolfssl.Observer backed by Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	contextsBuilt    *prometheus.CounterVec
	contextsReleased *prometheus.CounterVec
	sessionsCreated  *prometheus.CounterVec
	sessionsReleased *prometheus.CounterVec
	sessionsActive   *prometheus.GaugeVec
	stepFailures     *prometheus.CounterVec
	reloads          *prometheus.CounterVec
}

// NewCollector registers the wolfssl metrics on registry. A nil registry
// gets a fresh one; an empty namespace defaults to "wolfssl".
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = defaultNamespace
	}

	c := &Collector{
		registry: registry,
		contextsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_built_total",
			Help:      "Contexts finalized by ContextBuilder.Build.",
		}, []string{"method"}),
		contextsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_released_total",
			Help:      "Native contexts freed, including abandoned builders.",
		}, []string{"method"}),
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions allocated by Context.NewSession.",
		}, []string{"method"}),
		sessionsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_released_total",
			Help:      "Native sessions freed.",
		}, []string{"method"}),
		sessionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently allocated.",
		}, []string{"method"}),
		stepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_failures_total",
			Help:      "Failed builder steps and session allocations.",
		}, []string{"method", "step"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Context reload attempts by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		c.contextsBuilt,
		c.contextsReleased,
		c.sessionsCreated,
		c.sessionsReleased,
		c.sessionsActive,
		c.stepFailures,
		c.reloads,
	)
	return c
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

func (c *Collector) ContextBuilt(m wolfssl.Method) {
	c.contextsBuilt.WithLabelValues(m.String()).Inc()
}

func (c *Collector) ContextReleased(m wolfssl.Method) {
	c.contextsReleased.WithLabelValues(m.String()).Inc()
}

func (c *Collector) SessionCreated(m wolfssl.Method) {
	c.sessionsCreated.WithLabelValues(m.String()).Inc()
	c.sessionsActive.WithLabelValues(m.String()).Inc()
}

func (c *Collector) SessionReleased(m wolfssl.Method) {
	c.sessionsReleased.WithLabelValues(m.String()).Inc()
	c.sessionsActive.WithLabelValues(m.String()).Dec()
}

func (c *Collector) StepFailed(m wolfssl.Method, step wolfssl.Step, _ error) {
	c.stepFailures.WithLabelValues(m.String(), string(step)).Inc()
}

// Reloaded records the outcome of a reload attempt.
func (c *Collector) Reloaded(err error) {
	c.reloads.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var _ wolfssl.Observer = (*Collector)(nil)
