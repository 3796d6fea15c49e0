package metrics

import (
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"velov/domain/business/stationcollection"
)

const (
	metricPrefix = "velov_"

	resultAccepted = "accepted"
	resultFiltered = "filtered"

	ResultSuccess = "success"
	ResultError   = "error"

	ExportKindSnapshot = "snapshot"
	ExportKindStation  = "station"
	ExportKindXLSX     = "xlsx"
	ExportKindPDF      = "pdf"
	ExportKindPublish  = "publish"
)

// Metrics holds the collectors of one exporter run in a private registry, so several runs
// (or tests) never clash on registration.
type Metrics struct {
	registry *prometheus.Registry

	recordsTotal  *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
	exportsTotal  *prometheus.CounterVec

	stations        prometheus.Gauge
	availableBikes  prometheus.Gauge
	availableStands prometheus.Gauge
	totalStands     prometheus.Gauge
	availableRatio  prometheus.Gauge
	stationsByState *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_total",
				Help: "Total raw station records by result",
			},
			[]string{"result"},
		),
		rejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_rejected_total",
				Help: "Total rejected raw station records by reason",
			},
			[]string{"reason"},
		),
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total exports by kind and result",
			},
			[]string{"kind", "result"},
		),
		stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "stations",
			Help: "Stations in the last collection",
		}),
		availableBikes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "available_bikes",
			Help: "Available bikes over the last collection",
		}),
		availableStands: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "available_stands",
			Help: "Available stands over the last collection",
		}),
		totalStands: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "stands",
			Help: "Stands over the last collection",
		}),
		availableRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "available_stands_percentage",
			Help: "Percentage of available stands over the last collection, NaN when unknown",
		}),
		stationsByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "stations_by_status",
				Help: "Stations in the last collection by open status",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.recordsTotal,
		m.rejectedTotal,
		m.exportsTotal,
		m.stations,
		m.availableBikes,
		m.availableStands,
		m.totalStands,
		m.availableRatio,
		m.stationsByState,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordAccepted() {
	m.recordsTotal.WithLabelValues(resultAccepted).Inc()
}

func (m *Metrics) RecordFiltered() {
	m.recordsTotal.WithLabelValues(resultFiltered).Inc()
}

func (m *Metrics) RecordRejected(reason string) {
	m.recordsTotal.WithLabelValues(ResultError).Inc()
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

// RecordExport counts one export of the given kind. A nil err counts as a success.
func (m *Metrics) RecordExport(kind string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.exportsTotal.WithLabelValues(kind, result).Inc()
}

// ObserveStatistics sets the gauges from a statistics snapshot
func (m *Metrics) ObserveStatistics(stats stationcollection.Statistics) {
	m.stations.Set(float64(stats.Count))
	m.availableBikes.Set(float64(stats.TotalAvailableBikes))
	m.availableStands.Set(float64(stats.TotalAvailableStands))
	m.totalStands.Set(float64(stats.TotalStands))
	if stats.PercentageAvailableStands != nil {
		m.availableRatio.Set(*stats.PercentageAvailableStands)
	} else {
		m.availableRatio.Set(math.NaN())
	}
	m.stationsByState.WithLabelValues("open").Set(float64(stats.StatusCounts.True))
	m.stationsByState.WithLabelValues("closed").Set(float64(stats.StatusCounts.False))
}

// WriteTextfile dumps the registry in the text exposition format, atomically replacing path
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("error writing metrics textfile %s: %w", path, err)
	}
	return nil
}
