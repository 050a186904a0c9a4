package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "io_points_total",
			Help: "I/O point records in the database",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM io_points")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "io_cards_total",
			Help: "Card records in the database",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM io_cards")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "io_points_unassigned",
			Help: "I/O point records without a channel assignment",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM io_points WHERE channel IS NULL")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
