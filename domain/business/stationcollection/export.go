package stationcollection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	dataErrors "velov/domain/errors"
	"velov/utils"
)

const (
	snapshotFileFormat   = "StationCollection_%s.json"
	indexDirectoryFormat = "StationIndex_%s"
	directoryPermissions = 0o755
)

// ExportFailure is one member (or the index directory itself) that could not be exported
// + StationID: station number, empty when the index directory could not be created
// + Err: an *ExportError
type ExportFailure struct {
	StationID string
	Err       error
}

// ExportReport is the outcome of ExportAllFiles
// + Directory: index directory the files were written to
// + Written: paths of the files written successfully, in membership order
// + Failures: every member that could not be written
type ExportReport struct {
	Directory string
	Written   []string
	Failures  []ExportFailure
}

// OK reports whether every member was written
func (r *ExportReport) OK() bool {
	return len(r.Failures) == 0
}

// Err joins every failure, or returns nil when there are none
func (r *ExportReport) Err() error {
	if r.OK() {
		return nil
	}

	errs := make([]error, 0, len(r.Failures))
	for _, failure := range r.Failures {
		if failure.StationID == "" {
			errs = append(errs, failure.Err)
			continue
		}
		errs = append(errs, fmt.Errorf("station %s: %w", failure.StationID, failure.Err))
	}
	return errors.Join(errs...)
}

// ExportAllJSON serializes the members as a JSON array, in insertion order
func (c *StationCollection) ExportAllJSON() (string, error) {
	data, err := json.Marshal(c.stations)
	if err != nil {
		return "", &dataErrors.ExportError{Kind: dataErrors.ExportKindSerialization, Err: err}
	}
	return string(data), nil
}

// SnapshotFileName returns StationCollection_<DD-MM-YYYY-HH-MM-SS>.json for the current time
func (c *StationCollection) SnapshotFileName() string {
	return SnapshotFileNameAt(c.now())
}

// IndexDirectoryName returns StationIndex_<DD-MM-YYYY-HH-MM-SS> for the current time
func (c *StationCollection) IndexDirectoryName() string {
	return IndexDirectoryNameAt(c.now())
}

// SnapshotFileNameAt returns the snapshot file name for t. Callers naming several artifacts
// of the same run use it with a single instant.
func SnapshotFileNameAt(t time.Time) string {
	return fmt.Sprintf(snapshotFileFormat, utils.FileTimestamp(t))
}

func IndexDirectoryNameAt(t time.Time) string {
	return fmt.Sprintf(indexDirectoryFormat, utils.FileTimestamp(t))
}

// ExportFile writes ExportAllJSON to path, or to SnapshotFileName() in the working
// directory when path is empty. A failure is reported as an *ExportError.
func (c *StationCollection) ExportFile(path string) error {
	if path == "" {
		path = c.SnapshotFileName()
	}

	data, err := json.Marshal(c.stations)
	if err != nil {
		return &dataErrors.ExportError{Path: path, Kind: dataErrors.ExportKindSerialization, Err: err}
	}

	if err := utils.WriteFile(path, data); err != nil {
		return &dataErrors.ExportError{Path: path, Kind: dataErrors.ExportKindIO, Err: err}
	}
	return nil
}

// ExportAllFiles writes one Station_<id>.json file per member into directory. An empty
// directory means a new StationIndex_<DD-MM-YYYY-HH-MM-SS> directory in the working
// directory; a given directory is created when missing. Every member is attempted and
// every failure is listed in the report.
func (c *StationCollection) ExportAllFiles(directory string) *ExportReport {
	var err error
	if directory == "" {
		directory = c.IndexDirectoryName()
		err = os.Mkdir(directory, directoryPermissions)
	} else {
		err = os.MkdirAll(directory, directoryPermissions)
	}

	report := &ExportReport{Directory: directory}
	if err != nil {
		report.Failures = append(report.Failures, ExportFailure{
			Err: &dataErrors.ExportError{Path: directory, Kind: dataErrors.ExportKindIO, Err: err},
		})
		return report
	}

	for _, s := range c.stations {
		path := filepath.Join(directory, s.FileName())
		if err := s.ExportFile(path); err != nil {
			report.Failures = append(report.Failures, ExportFailure{StationID: s.ID.String(), Err: err})
			continue
		}
		report.Written = append(report.Written, path)
	}

	return report
}
