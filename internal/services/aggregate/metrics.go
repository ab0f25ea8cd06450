package aggregate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_files_loaded_total",
		Help: "Portfolio files decoded and built successfully.",
	})
	filesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_files_failed_total",
		Help: "Portfolio files skipped because decode or build failed.",
	})
	loadDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_load_duration_seconds",
		Help: "Wall time of the most recent full load.",
	})
	clientCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_clients",
		Help: "Clients in the current result set.",
	})
)
