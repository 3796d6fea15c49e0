// Package source reads raw station records from the data provider, either from a file
// downloaded beforehand or straight from the provider HTTP endpoint.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"

	"velov/domain/entities/station"
)

var ErrUnexpectedPayload = errors.New("unexpected payload")

// envelope is the shape returned by the Grand Lyon open data API
type envelope struct {
	Values     []station.RawRecord `json:"values"`
	NbResults  int                 `json:"nb_results"`
	TotalCount int                 `json:"total_count"`
}

// ReadRecords decodes either a bare JSON array of records or an object holding them under
// "values". Numbers are kept as json.Number so integer fields are not rounded through float64.
func ReadRecords(reader io.Reader) ([]station.RawRecord, error) {
	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading records: %w", err)
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrUnexpectedPayload)
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	switch payload[0] {
	case '[':
		var records []station.RawRecord
		if err := decoder.Decode(&records); err != nil {
			return nil, fmt.Errorf("error decoding records: %w", err)
		}
		return records, nil
	case '{':
		var body envelope
		if err := decoder.Decode(&body); err != nil {
			return nil, fmt.Errorf("error decoding records: %w", err)
		}
		if body.Values == nil {
			return nil, fmt.Errorf("%w: no values field", ErrUnexpectedPayload)
		}
		return body.Values, nil
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", ErrUnexpectedPayload)
	}
}

// ReadFile reads the records stored at filepath
func ReadFile(filepath string) ([]station.RawRecord, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening records file: %w", err)
	}
	defer file.Close()

	records, err := ReadRecords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}

	log.Infof("[source: file][status: OK] %d records read from %s", len(records), filepath)
	return records, nil
}

// Fetch downloads the records from url with a single GET request
func Fetch(ctx context.Context, client *http.Client, url string) ([]station.RawRecord, error) {
	if client == nil {
		client = http.DefaultClient
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("error fetching records: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("error fetching records: unexpected status %s", response.Status)
	}

	records, err := ReadRecords(response.Body)
	if err != nil {
		return nil, err
	}

	log.Infof("[source: http][status: OK] %d records fetched from %s", len(records), url)
	return records, nil
}
