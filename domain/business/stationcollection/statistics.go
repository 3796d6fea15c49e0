package stationcollection

import (
	"encoding/json"
	"sort"

	"velov/domain/entities/station"
)

// Counts splits a collection on a boolean field
// + True: members where the field is true
// + False: members where the field is false
type Counts struct {
	True  int `json:"true"`
	False int `json:"false"`
}

func (c *Counts) add(value bool) {
	if value {
		c.True += 1
		return
	}
	c.False += 1
}

// StringSet is a set of strings that may also hold a null marker. It encodes to JSON as
// a sorted array, with null first when present.
type StringSet struct {
	values  map[string]struct{}
	hasNull bool
}

func newStringSet() StringSet {
	return StringSet{values: make(map[string]struct{})}
}

func (s *StringSet) add(value *string) {
	if value == nil {
		s.hasNull = true
		return
	}
	s.values[*value] = struct{}{}
}

func (s StringSet) Contains(value string) bool {
	_, ok := s.values[value]
	return ok
}

func (s StringSet) ContainsNull() bool {
	return s.hasNull
}

// Len counts the null marker as one element
func (s StringSet) Len() int {
	if s.hasNull {
		return len(s.values) + 1
	}
	return len(s.values)
}

// Values returns the non-null elements, sorted
func (s StringSet) Values() []string {
	values := make([]string, 0, len(s.values))
	for value := range s.values {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	elements := make([]*string, 0, s.Len())
	if s.hasNull {
		elements = append(elements, nil)
	}
	for _, value := range s.Values() {
		value := value
		elements = append(elements, &value)
	}
	return json.Marshal(elements)
}

func (s StringSet) clone() StringSet {
	clone := StringSet{values: make(map[string]struct{}, len(s.values)), hasNull: s.hasNull}
	for value := range s.values {
		clone.values[value] = struct{}{}
	}
	return clone
}

// Statistics aggregates a collection. Null counts are added as zero.
// + Count: number of members
// + PercentageAvailableStands: 100 * TotalAvailableStands / TotalStands rounded to 2 decimals, nil when TotalStands is zero
// + StatusCounts: open vs not open members
// + BankingCounts: members with and without a payment terminal
// + DistinctPoles: every pole label of every member; a member without poles adds the null marker
// + DistinctCommunes: every commune; a member without commune adds the null marker
type Statistics struct {
	Count                     int       `json:"count"`
	TotalAvailableBikes       int       `json:"totalAvailableBikes"`
	TotalAvailableStands      int       `json:"totalAvailableStands"`
	TotalStands               int       `json:"totalStands"`
	PercentageAvailableStands *float64  `json:"percentageAvailableStands"`
	StatusCounts              Counts    `json:"statusCounts"`
	BankingCounts             Counts    `json:"bankingCounts"`
	DistinctPoles             StringSet `json:"distinctPoles"`
	DistinctCommunes          StringSet `json:"distinctCommunes"`
}

func newStatistics() Statistics {
	return Statistics{
		DistinctPoles:    newStringSet(),
		DistinctCommunes: newStringSet(),
	}
}

// update folds one more member into the aggregates
func (st *Statistics) update(s station.Station) {
	st.Count += 1
	st.TotalAvailableBikes += valueOrZero(s.AvailableBikes)
	st.TotalAvailableStands += valueOrZero(s.AvailableStands)
	st.TotalStands += valueOrZero(s.TotalStands)
	st.PercentageAvailableStands = station.Percentage(&st.TotalAvailableStands, &st.TotalStands)

	st.StatusCounts.add(s.Status)
	st.BankingCounts.add(s.Banking)

	if s.Poles == nil {
		st.DistinctPoles.add(nil)
	}
	for i := range s.Poles {
		st.DistinctPoles.add(&s.Poles[i])
	}
	st.DistinctCommunes.add(s.Commune)
}

// snapshot returns a copy sharing nothing with st
func (st Statistics) snapshot() Statistics {
	snapshot := st
	if st.PercentageAvailableStands != nil {
		percentage := *st.PercentageAvailableStands
		snapshot.PercentageAvailableStands = &percentage
	}
	snapshot.DistinctPoles = st.DistinctPoles.clone()
	snapshot.DistinctCommunes = st.DistinctCommunes.clone()
	return snapshot
}

func valueOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
