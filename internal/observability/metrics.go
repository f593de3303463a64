package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the registry and the counters the billing pipeline reports into.
type Metrics struct {
	Registry *prometheus.Registry

	RecurringRuns      prometheus.Counter
	InvoicesGenerated  prometheus.Counter
	SchedulesSkipped   prometheus.Counter
	RecurringRunErrors prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		RecurringRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_recurring_runs_total",
			Help: "Completed recurring invoice generation runs.",
		}),
		InvoicesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_invoices_generated_total",
			Help: "Invoices materialized from recurring schedules.",
		}),
		SchedulesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_recurring_schedules_skipped_total",
			Help: "Schedules skipped during generation due to validation errors.",
		}),
		RecurringRunErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_recurring_run_errors_total",
			Help: "Recurring generation runs aborted by persistence errors.",
		}),
	}
	reg.MustRegister(m.RecurringRuns, m.InvoicesGenerated, m.SchedulesSkipped, m.RecurringRunErrors)
	return m
}
