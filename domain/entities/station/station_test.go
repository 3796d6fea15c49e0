package station

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dataErrors "velov/domain/errors"
)

func newRawRecord() RawRecord {
	return RawRecord{
		"number":                1001,
		"gid":                   "1001",
		"name":                  "Terreaux / Beaux Arts",
		"address":               "Place des Terreaux",
		"address2":              nil,
		"commune":               "Lyon 1 er",
		"pole":                  "Hôtel de Ville, Terreaux, Opéra",
		"lat":                   45.767525,
		"lng":                   4.833253,
		"bike_stands":           20,
		"available_bike_stands": 12,
		"available_bikes":       8,
		"status":                "OPEN",
		"availabilitycode":      1,
		"banking":               true,
		"last_update":           "2024-03-01 10:15:00",
		"code_insee":            "69381",
	}
}

func TestNewStation(t *testing.T) {
	s, err := NewStation(newRawRecord())
	require.NoError(t, err)

	id, numeric := s.ID.Int()
	assert.True(t, numeric)
	assert.Equal(t, 1001, id)
	assert.Equal(t, "1001", s.GroupID)
	require.NotNil(t, s.Name)
	assert.Equal(t, "Terreaux / Beaux Arts", *s.Name)
	require.NotNil(t, s.Address)
	assert.Equal(t, "Place des Terreaux", *s.Address)
	assert.Nil(t, s.Address2)
	require.NotNil(t, s.Commune)
	assert.Equal(t, "Lyon 1 er", *s.Commune)
	assert.Equal(t, []string{"Hôtel de Ville", "Terreaux", "Opéra"}, s.Poles)
	assert.Equal(t, 45.767525, s.Latitude)
	assert.Equal(t, 4.833253, s.Longitude)
	require.NotNil(t, s.TotalStands)
	assert.Equal(t, 20, *s.TotalStands)
	require.NotNil(t, s.AvailableStands)
	assert.Equal(t, 12, *s.AvailableStands)
	require.NotNil(t, s.AvailableBikes)
	assert.Equal(t, 8, *s.AvailableBikes)
	assert.True(t, s.Status)
	assert.Equal(t, 1, s.AvailabilityCode)
	assert.True(t, s.Banking)
	require.NotNil(t, s.LastUpdate)
	assert.Equal(t, time.Date(2024, time.March, 1, 10, 15, 0, 0, time.UTC), *s.LastUpdate)
	require.NotNil(t, s.InseeCode)
	insee, numeric := s.InseeCode.Int()
	assert.True(t, numeric)
	assert.Equal(t, 69381, insee)
	require.NotNil(t, s.AvailableStandsPercentage)
	assert.Equal(t, 60.0, *s.AvailableStandsPercentage)
}

func TestNewStationStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   any
		expected bool
	}{
		{"open", "OPEN", true},
		{"closed", "CLOSED", false},
		{"lowercase open", "open", false},
		{"padded open", " OPEN", false},
		{"null", nil, false},
		{"unexpected type", true, false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := newRawRecord()
			raw[KeyStatus] = tt.status

			s, err := NewStation(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Status)
		})
	}
}

func TestNewStationAvailableStandsPercentage(t *testing.T) {
	tests := []struct {
		name      string
		available any
		total     any
		expected  *float64
	}{
		{"half full", 12, 20, floatPointer(60.0)},
		{"rounded to two decimals", 1, 3, floatPointer(33.33)},
		{"rounded up", 2, 3, floatPointer(66.67)},
		{"empty station", 0, 15, floatPointer(0)},
		{"zero total", 0, 0, nil},
		{"null total", 5, nil, nil},
		{"null available", nil, 20, nil},
		{"json numbers", json.Number("5"), json.Number("20"), floatPointer(25.0)},
		{"halfway rounds to even", 1, 32, floatPointer(3.12)},
		{"halfway keeps even digit", 5, 32, floatPointer(15.62)},
		{"halfway rounds up to even", 3, 32, floatPointer(9.38)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := newRawRecord()
			raw[KeyAvailableStands] = tt.available
			raw[KeyBikeStands] = tt.total

			s, err := NewStation(raw)
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, s.AvailableStandsPercentage)
				return
			}
			require.NotNil(t, s.AvailableStandsPercentage)
			assert.Equal(t, *tt.expected, *s.AvailableStandsPercentage)
		})
	}
}

func TestNewStationPoles(t *testing.T) {
	t.Run("splits on comma and space", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyPole] = "A, B, C"

		s, err := NewStation(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, s.Poles)
	})

	t.Run("single pole", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyPole] = "Part-Dieu"

		s, err := NewStation(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"Part-Dieu"}, s.Poles)
	})

	t.Run("comma without space is not a separator", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyPole] = "A,B"

		s, err := NewStation(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"A,B"}, s.Poles)
	})

	t.Run("null stays null", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyPole] = nil

		s, err := NewStation(raw)
		require.NoError(t, err)
		assert.Nil(t, s.Poles)
	})
}

func TestNewStationInseeCode(t *testing.T) {
	t.Run("numeric string becomes an integer", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyInseeCode] = "69123"

		s, err := NewStation(raw)
		require.NoError(t, err)
		require.NotNil(t, s.InseeCode)
		code, numeric := s.InseeCode.Int()
		assert.True(t, numeric)
		assert.Equal(t, 69123, code)
	})

	t.Run("text is kept unchanged", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyInseeCode] = "ABC"

		s, err := NewStation(raw)
		require.NoError(t, err)
		require.NotNil(t, s.InseeCode)
		assert.False(t, s.InseeCode.IsNumeric())
		assert.Equal(t, "ABC", s.InseeCode.String())
	})

	t.Run("corsican code is kept as text", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyInseeCode] = "2A004"

		s, err := NewStation(raw)
		require.NoError(t, err)
		require.NotNil(t, s.InseeCode)
		assert.Equal(t, NewTextCode("2A004"), *s.InseeCode)
	})

	t.Run("decoded number becomes an integer", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyInseeCode] = float64(69123)

		s, err := NewStation(raw)
		require.NoError(t, err)
		require.NotNil(t, s.InseeCode)
		assert.Equal(t, NewNumericCode(69123), *s.InseeCode)
	})

	t.Run("number out of int range is kept as text", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyInseeCode] = 1e20

		s, err := NewStation(raw)
		require.NoError(t, err)
		require.NotNil(t, s.InseeCode)
		assert.False(t, s.InseeCode.IsNumeric())
		assert.Equal(t, "100000000000000000000", s.InseeCode.String())
	})

	t.Run("null stays null", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyInseeCode] = nil

		s, err := NewStation(raw)
		require.NoError(t, err)
		assert.Nil(t, s.InseeCode)
	})
}

func TestNewStationLastUpdate(t *testing.T) {
	t.Run("null stays null", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyLastUpdate] = nil

		s, err := NewStation(raw)
		require.NoError(t, err)
		assert.Nil(t, s.LastUpdate)
	})

	malformed := []struct {
		name  string
		value any
	}{
		{"date only", "2024-03-01"},
		{"iso separator", "2024-03-01T10:15:00"},
		{"slashes", "2024/03/01 10:15:00"},
		{"out of range month", "2024-13-01 10:15:00"},
		{"empty", ""},
		{"not a string", 1709288100},
	}

	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			raw := newRawRecord()
			raw[KeyLastUpdate] = tt.value

			_, err := NewStation(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dataErrors.ErrMalformedTimestamp))
			assert.True(t, errors.Is(err, dataErrors.ErrInvalidStationData))

			var timestampErr *dataErrors.MalformedTimestampError
			require.True(t, errors.As(err, &timestampErr))
			assert.Equal(t, tt.value, timestampErr.Value)
		})
	}
}

func TestNewStationMissingField(t *testing.T) {
	for _, key := range RequiredKeys {
		t.Run(key, func(t *testing.T) {
			raw := newRawRecord()
			delete(raw, key)

			_, err := NewStation(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dataErrors.ErrMissingField))

			var missingErr *dataErrors.MissingFieldError
			require.True(t, errors.As(err, &missingErr))
			assert.Equal(t, key, missingErr.Field)
			assert.Contains(t, err.Error(), key)
		})
	}

	t.Run("null station number", func(t *testing.T) {
		raw := newRawRecord()
		raw[KeyNumber] = nil

		_, err := NewStation(raw)
		var missingErr *dataErrors.MissingFieldError
		require.True(t, errors.As(err, &missingErr))
		assert.Equal(t, KeyNumber, missingErr.Field)
	})
}

func TestNewStationCoercion(t *testing.T) {
	raw := newRawRecord()
	raw[KeyNumber] = json.Number("2036")
	raw[KeyGroupID] = json.Number("17")
	raw[KeyBikeStands] = "18"
	raw[KeyAvailableStands] = 3.5
	raw[KeyAvailableBikes] = "n/a"
	raw[KeyLatitude] = json.Number("45.75")
	raw[KeyLongitude] = "4.85"
	raw[KeyBanking] = "false"

	s, err := NewStation(raw)
	require.NoError(t, err)
	assert.Equal(t, NewNumericCode(2036), s.ID)
	assert.Equal(t, "17", s.GroupID)
	require.NotNil(t, s.TotalStands)
	assert.Equal(t, 18, *s.TotalStands)
	assert.Nil(t, s.AvailableStands)
	assert.Nil(t, s.AvailableBikes)
	assert.Nil(t, s.AvailableStandsPercentage)
	assert.Equal(t, 45.75, s.Latitude)
	assert.Equal(t, 4.85, s.Longitude)
	assert.False(t, s.Banking)
}

func TestNewStationCountOutOfRange(t *testing.T) {
	raw := newRawRecord()
	raw[KeyBikeStands] = 1e20
	raw[KeyAvailableBikes] = -1e19

	s, err := NewStation(raw)
	require.NoError(t, err)
	assert.Nil(t, s.TotalStands)
	assert.Nil(t, s.AvailableBikes)
	assert.Nil(t, s.AvailableStandsPercentage)
}

func TestRoundPercentage(t *testing.T) {
	tests := []struct {
		value    float64
		expected float64
	}{
		{3.125, 3.12},
		{15.625, 15.62},
		{9.375, 9.38},
		{2.675, 2.67},
		{33.333333, 33.33},
		{66.666666, 66.67},
		{60, 60},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RoundPercentage(tt.value), "value %v", tt.value)
	}
}

func TestStationDistanceTo(t *testing.T) {
	s, err := NewStation(newRawRecord())
	require.NoError(t, err)

	assert.InDelta(t, 0, s.DistanceTo(s.Latitude, s.Longitude), 1e-9)
	// Part-Dieu station, roughly 2 km east of Terreaux
	assert.InDelta(t, 2.1, s.DistanceTo(45.7606, 4.8594), 0.3)
}

func TestStationString(t *testing.T) {
	s, err := NewStation(newRawRecord())
	require.NoError(t, err)
	assert.Equal(t, "Terreaux / Beaux Arts", s.String())

	raw := newRawRecord()
	raw[KeyName] = nil
	s, err = NewStation(raw)
	require.NoError(t, err)
	assert.Equal(t, "station 1001", s.String())
}

func TestCodeJSON(t *testing.T) {
	data, err := json.Marshal(NewNumericCode(69123))
	require.NoError(t, err)
	assert.Equal(t, "69123", string(data))

	data, err = json.Marshal(NewTextCode("2A004"))
	require.NoError(t, err)
	assert.Equal(t, `"2A004"`, string(data))

	var code Code
	require.NoError(t, json.Unmarshal([]byte(`"ABC"`), &code))
	assert.Equal(t, NewTextCode("ABC"), code)

	require.NoError(t, json.Unmarshal([]byte(`42`), &code))
	assert.Equal(t, NewNumericCode(42), code)

	assert.Error(t, json.Unmarshal([]byte(`4.2`), &code))
}

func floatPointer(value float64) *float64 {
	return &value
}
