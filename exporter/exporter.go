package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	broker "velov/brokers/station"
	"velov/communication"
	"velov/domain/business/stationcollection"
	"velov/domain/entities"
	"velov/domain/entities/station"
	"velov/exporter/config"
	"velov/observability/metrics"
	"velov/publisher"
	"velov/report"
	"velov/source"
	"velov/utils"
)

const (
	xlsxFileFormat = "StationCollection_%s.xlsx"
	pdfFileFormat  = "StationStatistics_%s.pdf"
)

// Exporter runs one export: read, normalize, write the artifacts and optionally publish
type Exporter struct {
	config  *config.ExporterConfig
	metrics *metrics.Metrics
	runID   string
	now     func() time.Time
	dial    func(url string) (rabbitConnection, error)
}

type rabbitConnection interface {
	publisher.MessagePublisher
	DeclareExchanges(exchangesConfig []communication.ExchangeDeclarationConfig) error
	KillBadBunny() error
}

func NewExporter(exporterConfig *config.ExporterConfig) *Exporter {
	return &Exporter{
		config:  exporterConfig,
		metrics: metrics.New(),
		runID:   entities.NewRunID(),
		now:     time.Now,
		dial: func(url string) (rabbitConnection, error) {
			return communication.NewRabbitMQ(url)
		},
	}
}

// Run returns an error if any step failed. Every artifact is attempted even when a previous
// one failed, and the metrics textfile is written last so it reflects the failures.
func (e *Exporter) Run(ctx context.Context) error {
	log.Infof("[exporter][run: %s] starting", e.runID)

	records, err := e.readRecords(ctx)
	if err != nil {
		return err
	}

	collection, err := broker.NewStationBroker(e.config.Broker, e.metrics).ProcessRecords(records)
	if err != nil {
		return fmt.Errorf("error processing records: %w", err)
	}
	e.metrics.ObserveStatistics(collection.Statistics())

	outputDir := e.config.Export.OutputDir
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory %s: %w", outputDir, err)
	}

	// every artifact of a run carries the same timestamp
	runAt := e.now()
	errs := []error{
		e.exportSnapshot(collection, runAt),
		e.exportStations(collection, runAt),
		e.exportXLSX(collection, runAt),
		e.exportPDF(collection, runAt),
		e.publish(ctx, collection),
	}

	if e.config.Metrics.Textfile != "" {
		errs = append(errs, e.metrics.WriteTextfile(e.config.Metrics.Textfile))
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Infof("[exporter][run: %s][status: OK] %d stations exported", e.runID, collection.Len())
	return nil
}

func (e *Exporter) readRecords(ctx context.Context) ([]station.RawRecord, error) {
	if e.config.Source.File != "" {
		return source.ReadFile(e.config.Source.File)
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Source.Timeout)
	defer cancel()
	return source.Fetch(ctx, &http.Client{}, e.config.Source.URL)
}

func (e *Exporter) exportSnapshot(collection *stationcollection.StationCollection, runAt time.Time) error {
	if !e.config.Export.Snapshot {
		return nil
	}

	path := filepath.Join(e.config.Export.OutputDir, stationcollection.SnapshotFileNameAt(runAt))
	err := collection.ExportFile(path)
	e.metrics.RecordExport(metrics.ExportKindSnapshot, err)
	if err != nil {
		log.Errorf("[exporter][export: snapshot] %s", err.Error())
		return err
	}

	log.Infof("[exporter][export: snapshot][status: OK] %s", path)
	return nil
}

func (e *Exporter) exportStations(collection *stationcollection.StationCollection, runAt time.Time) error {
	if !e.config.Export.PerStationFiles {
		return nil
	}

	directory := filepath.Join(e.config.Export.OutputDir, stationcollection.IndexDirectoryNameAt(runAt))
	exportReport := collection.ExportAllFiles(directory)
	for range exportReport.Written {
		e.metrics.RecordExport(metrics.ExportKindStation, nil)
	}
	for _, failure := range exportReport.Failures {
		e.metrics.RecordExport(metrics.ExportKindStation, failure.Err)
		log.Errorf("[exporter][export: station][station: %s] %s", failure.StationID, failure.Err.Error())
	}

	if !exportReport.OK() {
		return exportReport.Err()
	}

	log.Infof("[exporter][export: stations][status: OK] %d files written in %s", len(exportReport.Written), exportReport.Directory)
	return nil
}

func (e *Exporter) exportXLSX(collection *stationcollection.StationCollection, runAt time.Time) error {
	if !e.config.Export.XLSX {
		return nil
	}

	path := filepath.Join(e.config.Export.OutputDir, fmt.Sprintf(xlsxFileFormat, utils.FileTimestamp(runAt)))
	content, err := report.BuildCollectionXLSX(collection)
	if err == nil {
		err = utils.WriteFile(path, content)
	}
	e.metrics.RecordExport(metrics.ExportKindXLSX, err)
	if err != nil {
		log.Errorf("[exporter][export: xlsx] %s", err.Error())
		return fmt.Errorf("error exporting xlsx: %w", err)
	}

	log.Infof("[exporter][export: xlsx][status: OK] %s", path)
	return nil
}

func (e *Exporter) exportPDF(collection *stationcollection.StationCollection, runAt time.Time) error {
	if !e.config.Export.PDF {
		return nil
	}

	path := filepath.Join(e.config.Export.OutputDir, fmt.Sprintf(pdfFileFormat, utils.FileTimestamp(runAt)))
	content, err := report.BuildStatisticsPDF(collection.Statistics(), runAt)
	if err == nil {
		err = utils.WriteFile(path, content)
	}
	e.metrics.RecordExport(metrics.ExportKindPDF, err)
	if err != nil {
		log.Errorf("[exporter][export: pdf] %s", err.Error())
		return fmt.Errorf("error exporting pdf: %w", err)
	}

	log.Infof("[exporter][export: pdf][status: OK] %s", path)
	return nil
}

func (e *Exporter) publish(ctx context.Context, collection *stationcollection.StationCollection) (err error) {
	rabbitConfig := e.config.RabbitMQ
	if !rabbitConfig.Enabled {
		return nil
	}
	defer func() { e.metrics.RecordExport(metrics.ExportKindPublish, err) }()

	connection, err := e.dial(rabbitConfig.URL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := connection.KillBadBunny(); closeErr != nil {
			log.Errorf("[exporter][publish] %s", closeErr.Error())
		}
	}()

	if err = connection.DeclareExchanges([]communication.ExchangeDeclarationConfig{rabbitConfig.ExchangeDeclarationConfig}); err != nil {
		return err
	}

	stationPublisher := publisher.NewStationPublisher(
		connection,
		rabbitConfig.PublishingConfig.Exchange,
		rabbitConfig.PublishingConfig.ContentType,
		e.config.City,
		e.runID,
	)
	return stationPublisher.Publish(ctx, collection)
}
