package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "platform"

// RegisterPgxPoolMetrics exposes platform database pool statistics as
// Prometheus collectors, all under the platform namespace. Stats are
// snapshotted per scrape.
func RegisterPgxPoolMetrics(pool *pgxpool.Pool) {
	gauge := func(name, help string, value func(*pgxpool.Stat) int32) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(value(pool.Stat()))
		})
	}
	prometheus.MustRegister(
		gauge("db_acquired_conns", "Number of currently acquired connections in the pool",
			(*pgxpool.Stat).AcquiredConns),
		gauge("db_max_conns", "Maximum number of connections in the pool",
			(*pgxpool.Stat).MaxConns),
		gauge("db_total_conns", "Total number of connections in the pool",
			(*pgxpool.Stat).TotalConns),
		gauge("db_idle_conns", "Number of idle connections in the pool",
			(*pgxpool.Stat).IdleConns),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_empty_acquires_total",
			Help:      "Cumulative number of acquires that waited for a free connection",
		}, func() float64 {
			return float64(pool.Stat().EmptyAcquireCount())
		}),
	)
}
