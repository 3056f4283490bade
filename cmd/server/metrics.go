package main

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	analysesTotal *prometheus.CounterVec
	quotesTotal   prometheus.Counter
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geometry_analyses_total",
			Help: "Completed geometry analyses by accuracy tier.",
		}, []string{"tier"}),
		quotesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotes_computed_total",
			Help: "Quotes computed and persisted.",
		}),
	}
	reg.MustRegister(m.analysesTotal, m.quotesTotal)
	return m
}
