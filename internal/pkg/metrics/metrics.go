// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// ETLRuns counts yearly aggregation runs by result.
	ETLRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdg_etl_runs_total",
		Help: "Total ETL aggregation runs by result",
	}, []string{"result"})

	// ETLTriggers counts scheduled trigger requests by result.
	ETLTriggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdg_etl_triggers_total",
		Help: "Total ETL trigger requests by result",
	}, []string{"result"})

	// CalculatorCalls counts calculator attempts by target and result.
	CalculatorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdg_calculator_calls_total",
		Help: "Total derived-value calculator attempts by target and result",
	}, []string{"target", "result"})

	CalculatorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sdg_calculator_duration_seconds",
		Help:    "Derived-value calculator request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"target"})

	// ValuesWritten counts required-data value rows by kind.
	ValuesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdg_required_data_values_written_total",
		Help: "Total required-data value rows written by kind",
	}, []string{"kind"})

	// RulesWritten counts computation rules written, explicit or inherited.
	RulesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sdg_computation_rules_written_total",
		Help: "Total computation rules written by origin",
	}, []string{"origin"})
)

func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func Handler() http.Handler {
	return promhttp.Handler()
}
