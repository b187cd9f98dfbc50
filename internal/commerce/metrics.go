package commerce

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOp      = "op"
	labelOutcome = "outcome"

	outcomeOK           = "ok"
	outcomeNetwork      = "network_error"
	outcomeClientStatus = "status_4xx"
	outcomeServerStatus = "status_5xx"
	outcomeOther        = "error"
)

type Metrics struct {
	Calls   *prometheus.CounterVec
	Latency *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_calls_total",
				Help: "Commerce gateway calls by operation and outcome",
			},
			[]string{labelOp, labelOutcome},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "gateway_call_duration_seconds",
				Help: "Commerce gateway call latency",
			},
			[]string{labelOp},
		),
	}

	reg.MustRegister(m.Calls, m.Latency)
	return m
}

func (m *Metrics) observe(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.Latency.WithLabelValues(op).Observe(d.Seconds())
	m.Calls.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	ge, ok := err.(*GatewayError)
	if !ok {
		return outcomeOther
	}
	switch {
	case ge.Status == 0:
		return outcomeNetwork
	case ge.Status >= 500:
		return outcomeServerStatus
	case ge.Status >= 400:
		return outcomeClientStatus
	default:
		return outcomeOther
	}
}
