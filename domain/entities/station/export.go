package station

import (
	"encoding/json"
	"fmt"

	dataErrors "velov/domain/errors"
	"velov/utils"
)

const fileNameFormat = "Station_%s.json"

// Attribute returns the value of the field with the given JSON name, dereferenced.
// Unknown names and null fields give nil.
func (s Station) Attribute(name string) any {
	switch name {
	case "id":
		return s.ID
	case "groupId":
		return s.GroupID
	case "name":
		return valueOrNil(s.Name)
	case "address":
		return valueOrNil(s.Address)
	case "address2":
		return valueOrNil(s.Address2)
	case "commune":
		return valueOrNil(s.Commune)
	case "poles":
		if s.Poles == nil {
			return nil
		}
		return append([]string(nil), s.Poles...)
	case "latitude":
		return s.Latitude
	case "longitude":
		return s.Longitude
	case "totalStands":
		return valueOrNil(s.TotalStands)
	case "availableStands":
		return valueOrNil(s.AvailableStands)
	case "availableBikes":
		return valueOrNil(s.AvailableBikes)
	case "status":
		return s.Status
	case "availabilityCode":
		return s.AvailabilityCode
	case "banking":
		return s.Banking
	case "lastUpdate":
		return valueOrNil(s.LastUpdate)
	case "inseeCode":
		return valueOrNil(s.InseeCode)
	case "availableStandsPercentage":
		return valueOrNil(s.AvailableStandsPercentage)
	}
	return nil
}

func valueOrNil[T any](pointer *T) any {
	if pointer == nil {
		return nil
	}
	return *pointer
}

// FileName returns the default export file name, Station_<id>.json
func (s Station) FileName() string {
	return fmt.Sprintf(fileNameFormat, s.ID)
}

// ExportJSON serializes every field, derived ones included. Poles keep provider order
// and LastUpdate is written as RFC 3339.
func (s Station) ExportJSON() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", &dataErrors.ExportError{Kind: dataErrors.ExportKindSerialization, Err: err}
	}
	return string(data), nil
}

// ExportFile writes the JSON serialization to filepath, or to FileName() in the working
// directory when filepath is empty. A failure is reported as an *ExportError.
func (s Station) ExportFile(filepath string) error {
	if filepath == "" {
		filepath = s.FileName()
	}

	data, err := json.Marshal(s)
	if err != nil {
		return &dataErrors.ExportError{Path: filepath, Kind: dataErrors.ExportKindSerialization, Err: err}
	}

	if err := utils.WriteFile(filepath, data); err != nil {
		return &dataErrors.ExportError{Path: filepath, Kind: dataErrors.ExportKindIO, Err: err}
	}
	return nil
}
