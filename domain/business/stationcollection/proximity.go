package stationcollection

import (
	"sort"

	"velov/domain/entities/station"
)

// Nearby is a member together with its distance to a reference point
type Nearby struct {
	Station    station.Station `json:"station"`
	DistanceKm float64         `json:"distanceKm"`
}

// Nearest returns at most n members closest to the point, nearest first. Members at the
// same distance keep their insertion order.
func (c *StationCollection) Nearest(latitude float64, longitude float64, n int) []Nearby {
	if n <= 0 {
		return nil
	}

	ranked := c.rankByDistance(latitude, longitude)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// WithinRadius returns the members at most radiusKm kilometers away from the point, nearest first
func (c *StationCollection) WithinRadius(latitude float64, longitude float64, radiusKm float64) []Nearby {
	ranked := c.rankByDistance(latitude, longitude)
	cut := sort.Search(len(ranked), func(i int) bool {
		return ranked[i].DistanceKm > radiusKm
	})
	return ranked[:cut]
}

func (c *StationCollection) rankByDistance(latitude float64, longitude float64) []Nearby {
	ranked := make([]Nearby, 0, len(c.stations))
	for _, s := range c.stations {
		ranked = append(ranked, Nearby{
			Station:    s.Clone(),
			DistanceKm: s.DistanceTo(latitude, longitude),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
