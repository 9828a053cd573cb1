package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sweep_cycles_total", Help: "Sweep cycles started, by mode"},
		[]string{"mode"},
	)
	StandDownsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sweep_stand_downs_total", Help: "Cycles that stood down with nothing deployable"},
	)
	TransfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sweep_transfers_total", Help: "Planned transfer legs, by purpose and result"},
		[]string{"purpose", "result"},
	)
	AuditRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sweep_audit_records_total", Help: "Settlement records appended to the outbox"},
	)
	LedgerClosesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sweep_ledger_closes_total", Help: "Ledger close events observed in watch mode"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, StandDownsTotal, TransfersTotal, AuditRecordsTotal, LedgerClosesTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
