package station

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/umahmood/haversine"

	dataErrors "velov/domain/errors"
)

const (
	openStatus       = "OPEN"
	polesSeparator   = ", "
	lastUpdateLayout = "2006-01-02 15:04:05"
)

// Raw provider keys
const (
	KeyNumber           = "number"
	KeyGroupID          = "gid"
	KeyName             = "name"
	KeyAddress          = "address"
	KeyAddress2         = "address2"
	KeyCommune          = "commune"
	KeyPole             = "pole"
	KeyLatitude         = "lat"
	KeyLongitude        = "lng"
	KeyBikeStands       = "bike_stands"
	KeyAvailableStands  = "available_bike_stands"
	KeyAvailableBikes   = "available_bikes"
	KeyStatus           = "status"
	KeyAvailabilityCode = "availabilitycode"
	KeyBanking          = "banking"
	KeyLastUpdate       = "last_update"
	KeyInseeCode        = "code_insee"
)

// RequiredKeys lists every key a raw record must carry, in the order they are checked
var RequiredKeys = []string{
	KeyNumber,
	KeyGroupID,
	KeyName,
	KeyAddress,
	KeyAddress2,
	KeyCommune,
	KeyPole,
	KeyLatitude,
	KeyLongitude,
	KeyBikeStands,
	KeyAvailableStands,
	KeyAvailableBikes,
	KeyStatus,
	KeyAvailabilityCode,
	KeyBanking,
	KeyLastUpdate,
	KeyInseeCode,
}

// RawRecord is one station entry as decoded from the data provider
type RawRecord map[string]any

// Station is a docking station at the time of its last update. Every field, derived ones
// included, is computed by NewStation; nothing in this package mutates a Station afterwards.
// + ID: provider station number
// + GroupID: logical cluster shared by sub-stations
// + Poles: labels parsed from the provider pole field, in provider order. nil when the provider sent null
// + Status: true only when the provider status is exactly OPEN
// + AvailabilityCode: provider value, passed through untouched
// + InseeCode: integer when the provider code parses as one, the original text otherwise
// + AvailableStandsPercentage: 100 * AvailableStands / TotalStands rounded to 2 decimals, nil when undefined
type Station struct {
	ID                        Code       `json:"id"`
	GroupID                   string     `json:"groupId"`
	Name                      *string    `json:"name"`
	Address                   *string    `json:"address"`
	Address2                  *string    `json:"address2"`
	Commune                   *string    `json:"commune"`
	Poles                     []string   `json:"poles"`
	Latitude                  float64    `json:"latitude"`
	Longitude                 float64    `json:"longitude"`
	TotalStands               *int       `json:"totalStands"`
	AvailableStands           *int       `json:"availableStands"`
	AvailableBikes            *int       `json:"availableBikes"`
	Status                    bool       `json:"status"`
	AvailabilityCode          any        `json:"availabilityCode"`
	Banking                   bool       `json:"banking"`
	LastUpdate                *time.Time `json:"lastUpdate"`
	InseeCode                 *Code      `json:"inseeCode"`
	AvailableStandsPercentage *float64   `json:"availableStandsPercentage"`
}

// NewStation normalizes a raw record. It fails with a *MissingFieldError when a required
// key is absent (a null station number counts as absent) and with a
// *MalformedTimestampError when last_update does not follow YYYY-MM-DD HH:MM:SS.
func NewStation(raw RawRecord) (Station, error) {
	for _, key := range RequiredKeys {
		if _, ok := raw[key]; !ok {
			return Station{}, &dataErrors.MissingFieldError{Field: key}
		}
	}

	id := codeFromRaw(raw[KeyNumber])
	if id == nil {
		return Station{}, &dataErrors.MissingFieldError{Field: KeyNumber}
	}

	lastUpdate, err := parseLastUpdate(raw[KeyLastUpdate])
	if err != nil {
		return Station{}, err
	}

	station := Station{
		ID:               *id,
		GroupID:          stringValue(raw[KeyGroupID]),
		Name:             optionalString(raw[KeyName]),
		Address:          optionalString(raw[KeyAddress]),
		Address2:         optionalString(raw[KeyAddress2]),
		Commune:          optionalString(raw[KeyCommune]),
		Poles:            splitPoles(raw[KeyPole]),
		Latitude:         floatValue(raw[KeyLatitude]),
		Longitude:        floatValue(raw[KeyLongitude]),
		TotalStands:      optionalInt(raw[KeyBikeStands]),
		AvailableStands:  optionalInt(raw[KeyAvailableStands]),
		AvailableBikes:   optionalInt(raw[KeyAvailableBikes]),
		Status:           isOpen(raw[KeyStatus]),
		AvailabilityCode: raw[KeyAvailabilityCode],
		Banking:          boolValue(raw[KeyBanking]),
		LastUpdate:       lastUpdate,
		InseeCode:        codeFromRaw(raw[KeyInseeCode]),
	}
	station.AvailableStandsPercentage = Percentage(station.AvailableStands, station.TotalStands)

	return station, nil
}

// Percentage returns 100 * part / total rounded to two decimals. The result is nil when
// either value is nil or total is zero.
func Percentage(part *int, total *int) *float64 {
	if part == nil || total == nil || *total == 0 {
		return nil
	}
	percentage := RoundPercentage(100 * float64(*part) / float64(*total))
	return &percentage
}

// RoundPercentage rounds to two decimals. Values exactly halfway round to the even digit
// (3.125 gives 3.12).
func RoundPercentage(value float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(value, 'f', 2, 64), 64)
	return rounded
}

// DistanceTo returns the great-circle distance in kilometers between the station and a point
func (s Station) DistanceTo(latitude float64, longitude float64) float64 {
	from := haversine.Coord{Lat: s.Latitude, Lon: s.Longitude}
	to := haversine.Coord{Lat: latitude, Lon: longitude}

	_, km := haversine.Distance(from, to)
	return km
}

func (s Station) String() string {
	if s.Name != nil {
		return *s.Name
	}
	return fmt.Sprintf("station %s", s.ID)
}

func isOpen(status any) bool {
	value, ok := status.(string)
	return ok && value == openStatus
}

func parseLastUpdate(value any) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	text, ok := value.(string)
	if !ok {
		return nil, &dataErrors.MalformedTimestampError{Value: value}
	}

	lastUpdate, err := time.Parse(lastUpdateLayout, text)
	if err != nil {
		return nil, &dataErrors.MalformedTimestampError{Value: value, Err: err}
	}
	return &lastUpdate, nil
}

// Clone returns a copy that shares no pointers or slices with s
func (s Station) Clone() Station {
	clone := s
	clone.Name = clonePointer(s.Name)
	clone.Address = clonePointer(s.Address)
	clone.Address2 = clonePointer(s.Address2)
	clone.Commune = clonePointer(s.Commune)
	clone.Poles = slices.Clone(s.Poles)
	clone.TotalStands = clonePointer(s.TotalStands)
	clone.AvailableStands = clonePointer(s.AvailableStands)
	clone.AvailableBikes = clonePointer(s.AvailableBikes)
	clone.LastUpdate = clonePointer(s.LastUpdate)
	clone.InseeCode = clonePointer(s.InseeCode)
	clone.AvailableStandsPercentage = clonePointer(s.AvailableStandsPercentage)
	return clone
}

func clonePointer[T any](pointer *T) *T {
	if pointer == nil {
		return nil
	}
	value := *pointer
	return &value
}
