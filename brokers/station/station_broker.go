package station

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"velov/brokers/station/config"
	"velov/domain/business/stationcollection"
	"velov/domain/entities/station"
	dataErrors "velov/domain/errors"
	"velov/utils"
)

const brokerName = "stations"

// Rejection reasons reported to the RecordObserver
const (
	ReasonMissingField       = "missing_field"
	ReasonMalformedTimestamp = "malformed_timestamp"
	ReasonInvalidCoordinates = "invalid_coordinates"
	ReasonNegativeCount      = "negative_count"
	ReasonEmptyGroupID       = "empty_group_id"
	ReasonInvalidStation     = "invalid_station"
)

// RecordObserver is notified of what happened to every raw record
type RecordObserver interface {
	RecordAccepted()
	RecordFiltered()
	RecordRejected(reason string)
}

type noopObserver struct{}

func (noopObserver) RecordAccepted()       {}
func (noopObserver) RecordFiltered()       {}
func (noopObserver) RecordRejected(string) {}

type StationBroker struct {
	config   config.StationConfig
	observer RecordObserver
}

// NewStationBroker returns a broker using stationConfig. observer may be nil.
func NewStationBroker(stationConfig config.StationConfig, observer RecordObserver) *StationBroker {
	if observer == nil {
		observer = noopObserver{}
	}
	return &StationBroker{
		config:   stationConfig.WithDefaults(),
		observer: observer,
	}
}

// ProcessRecords normalizes every raw record into a station and collects the valid ones,
// in source order. Invalid records are skipped when the broker is configured to do so;
// otherwise the first invalid record aborts the batch.
func (sb *StationBroker) ProcessRecords(records []station.RawRecord) (*stationcollection.StationCollection, error) {
	collection := stationcollection.NewStationCollection()
	skipped := 0
	filtered := 0

	for idx, record := range records {
		stationData, err := sb.getStationData(record)
		if err != nil {
			reason := rejectionReason(err)
			sb.observer.RecordRejected(reason)

			if sb.config.SkipInvalid && errors.Is(err, dataErrors.ErrInvalidStationData) {
				log.Warnf("[broker: %s][record: %d][status: skipped][reason: %s] %s", brokerName, idx, reason, err.Error())
				skipped += 1
				continue
			}

			log.Errorf("[broker: %s][record: %d][status: error] %s", brokerName, idx, err.Error())
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}

		if !sb.isIncluded(stationData) {
			log.Debugf("[broker: %s][station: %s] commune not included", brokerName, stationData.ID)
			sb.observer.RecordFiltered()
			filtered += 1
			continue
		}

		collection.Append(stationData)
		sb.observer.RecordAccepted()
	}

	log.Infof("[broker: %s][status: OK] %d stations kept, %d skipped, %d filtered out", brokerName, collection.Len(), skipped, filtered)
	return collection, nil
}

// getStationData returns the normalized station if it is valid
func (sb *StationBroker) getStationData(record station.RawRecord) (station.Station, error) {
	stationData, err := station.NewStation(record)
	if err != nil {
		return station.Station{}, err
	}

	if err := sb.validate(stationData); err != nil {
		return station.Station{}, err
	}
	return stationData, nil
}

// validate returns nil if the following conditions are met:
// + Latitude is between -LatitudeBound and LatitudeBound
// + Longitude is between -LongitudeBound and LongitudeBound
// + Stand and bike counts are not negative
// + Group ID is not the empty string
func (sb *StationBroker) validate(stationData station.Station) error {
	var invalidReasons []error

	latitude := stationData.Latitude
	longitude := stationData.Longitude
	if latitude < -sb.config.LatitudeBound || latitude > sb.config.LatitudeBound ||
		longitude < -sb.config.LongitudeBound || longitude > sb.config.LongitudeBound {
		invalidReasons = append(invalidReasons, fmt.Errorf("%w: (%v, %v)", dataErrors.ErrInvalidCoordinates, latitude, longitude))
	}

	for _, count := range []*int{stationData.TotalStands, stationData.AvailableStands, stationData.AvailableBikes} {
		if count != nil && *count < 0 {
			invalidReasons = append(invalidReasons, dataErrors.ErrNegativeCount)
			break
		}
	}

	if stationData.GroupID == "" {
		invalidReasons = append(invalidReasons, dataErrors.ErrEmptyGroupID)
	}

	if len(invalidReasons) == 0 {
		return nil
	}
	return fmt.Errorf("station %s: %w: %w", stationData.ID, dataErrors.ErrInvalidStationData, errors.Join(invalidReasons...))
}

func (sb *StationBroker) isIncluded(stationData station.Station) bool {
	if len(sb.config.IncludeCommunes) == 0 {
		return true
	}
	return stationData.Commune != nil && utils.ContainsString(*stationData.Commune, sb.config.IncludeCommunes)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, dataErrors.ErrMissingField):
		return ReasonMissingField
	case errors.Is(err, dataErrors.ErrMalformedTimestamp):
		return ReasonMalformedTimestamp
	case errors.Is(err, dataErrors.ErrInvalidCoordinates):
		return ReasonInvalidCoordinates
	case errors.Is(err, dataErrors.ErrNegativeCount):
		return ReasonNegativeCount
	case errors.Is(err, dataErrors.ErrEmptyGroupID):
		return ReasonEmptyGroupID
	default:
		return ReasonInvalidStation
	}
}
