package stationcollection

import (
	"time"

	"velov/domain/entities/station"
	dataErrors "velov/domain/errors"
)

// StationCollection is an ordered, append-only group of stations with aggregates that
// always reflect the current membership. Append updates the aggregates in place, so a
// collection shared between goroutines needs external locking.
type StationCollection struct {
	stations   []station.Station
	statistics Statistics
	now        func() time.Time
}

// NewStationCollection builds a collection holding stations in the given order
func NewStationCollection(stations ...station.Station) *StationCollection {
	collection := &StationCollection{
		stations:   make([]station.Station, 0, len(stations)),
		statistics: newStatistics(),
		now:        time.Now,
	}
	for _, s := range stations {
		collection.Append(s)
	}
	return collection
}

// NewStationCollectionFromValues builds a collection from values whose type is only known
// at runtime. Each value must be a station.Station or a non-nil *station.Station.
func NewStationCollectionFromValues(values ...any) (*StationCollection, error) {
	stations := make([]station.Station, 0, len(values))
	for _, value := range values {
		s, err := asStation(value)
		if err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return NewStationCollection(stations...), nil
}

// NewStationCollectionFromRecords normalizes every raw record. The first construction error is returned.
func NewStationCollectionFromRecords(records []station.RawRecord) (*StationCollection, error) {
	stations := make([]station.Station, 0, len(records))
	for _, record := range records {
		s, err := station.NewStation(record)
		if err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return NewStationCollection(stations...), nil
}

// Append adds s at the end of the collection and updates the aggregates
func (c *StationCollection) Append(s station.Station) {
	s = s.Clone()
	c.stations = append(c.stations, s)
	c.statistics.update(s)
}

// AppendValue appends a value whose type is only known at runtime. Anything other than a
// station fails with an *InvalidMemberError and leaves the collection unchanged.
func (c *StationCollection) AppendValue(value any) error {
	s, err := asStation(value)
	if err != nil {
		return err
	}
	c.Append(s)
	return nil
}

func asStation(value any) (station.Station, error) {
	switch v := value.(type) {
	case station.Station:
		return v, nil
	case *station.Station:
		if v != nil {
			return *v, nil
		}
	}
	return station.Station{}, &dataErrors.InvalidMemberError{Value: value}
}

// Statistics returns a snapshot of the aggregates. Reading never recomputes anything.
func (c *StationCollection) Statistics() Statistics {
	return c.statistics.snapshot()
}

func (c *StationCollection) Len() int {
	return len(c.stations)
}

// At returns a copy of the i-th member. It panics when i is out of range, like a slice index.
func (c *StationCollection) At(i int) station.Station {
	return c.stations[i].Clone()
}

// Stations returns copies of the members in insertion order
func (c *StationCollection) Stations() []station.Station {
	stations := make([]station.Station, len(c.stations))
	for i := range c.stations {
		stations[i] = c.stations[i].Clone()
	}
	return stations
}

// Filter returns a new collection with the members keep accepts, in the same order
func (c *StationCollection) Filter(keep func(station.Station) bool) *StationCollection {
	filtered := NewStationCollection()
	filtered.now = c.now
	for _, s := range c.stations {
		if keep(s) {
			filtered.Append(s)
		}
	}
	return filtered
}

// ByCommune returns the members located in commune
func (c *StationCollection) ByCommune(commune string) *StationCollection {
	return c.Filter(func(s station.Station) bool {
		return s.Commune != nil && *s.Commune == commune
	})
}
