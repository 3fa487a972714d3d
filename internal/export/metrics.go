package export

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "databazar",
		Subsystem: "export",
		Name:      "started_total",
		Help:      "Number of CSV export streams started.",
	})
	exportsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "databazar",
		Subsystem: "export",
		Name:      "completed_total",
		Help:      "Number of CSV export streams that terminated normally.",
	})
	exportsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "databazar",
		Subsystem: "export",
		Name:      "failed_total",
		Help:      "Number of CSV export streams aborted by a fetch error.",
	})
	pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "databazar",
		Subsystem: "export",
		Name:      "pages_fetched_total",
		Help:      "Number of pages fetched from the data source.",
	})
	rowsStreamed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "databazar",
		Subsystem: "export",
		Name:      "rows_streamed_total",
		Help:      "Number of rows encoded and streamed to clients.",
	})
)
