package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sw33tLie/geoshare/pkg/conversion"
)

// metrics counts the conversions served over HTTP and websocket.
type metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoshare",
			Name:      "conversions_total",
			Help:      "Conversions by input and outcome",
		}, []string{"input", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geoshare",
			Name:      "conversion_duration_seconds",
			Help:      "Time from receiving the text to the terminal state",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.conversions,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// observe records a terminal state. Failures are labelled with the failure
// code, successes with "succeeded".
func (m *metrics) observe(state conversion.State, elapsed time.Duration) {
	input, outcome := "none", "unknown"
	switch st := state.(type) {
	case conversion.Succeeded:
		input, outcome = st.Input.Name(), "succeeded"
	case conversion.Failed:
		if st.Input != nil {
			input = st.Input.Name()
		}
		outcome = st.Kind.Code()
	}
	m.conversions.WithLabelValues(input, outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
