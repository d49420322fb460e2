package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector exports PostgreSQL pool statistics at scrape time.
type PoolCollector struct {
	pool     *pgxpool.Pool
	conns    *prometheus.Desc
	acquires *prometheus.Desc
	waits    *prometheus.Desc
}

// NewPoolCollector creates a collector for pool. Register it with a
// prometheus.Registerer; it reads nothing until scraped.
func NewPoolCollector(pool *pgxpool.Pool) *PoolCollector {
	return &PoolCollector{
		pool: pool,
		conns: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "db", "pool_connections"),
			"Number of database connections by state",
			[]string{"state"}, nil,
		),
		acquires: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "db", "pool_acquires_total"),
			"Connections acquired from the pool",
			nil, nil,
		),
		waits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "db", "pool_empty_acquires_total"),
			"Acquires that had to wait for a connection",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.conns
	ch <- c.acquires
	ch <- c.waits
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stat()

	for state, n := range map[string]int32{
		"in_use": stats.AcquiredConns(),
		"idle":   stats.IdleConns(),
		"max":    stats.MaxConns(),
		"total":  stats.TotalConns(),
	} {
		ch <- prometheus.MustNewConstMetric(c.conns, prometheus.GaugeValue, float64(n), state)
	}
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(stats.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.waits, prometheus.CounterValue, float64(stats.EmptyAcquireCount()))
}
