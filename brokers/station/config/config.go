package config

const (
	defaultLatitudeBound  = 90
	defaultLongitudeBound = 180
)

// StationConfig drives how raw records become stations
// + SkipInvalid: log and drop invalid records instead of failing the whole batch
// + IncludeCommunes: when not empty, only stations located in these communes are kept
// + LatitudeBound / LongitudeBound: absolute coordinate limits a station must respect
type StationConfig struct {
	SkipInvalid     bool     `yaml:"skip_invalid"`
	IncludeCommunes []string `yaml:"include_communes"`
	LatitudeBound   float64  `yaml:"latitude_bound"`
	LongitudeBound  float64  `yaml:"longitude_bound"`
}

// WithDefaults fills the coordinate bounds left at zero
func (sc StationConfig) WithDefaults() StationConfig {
	if sc.LatitudeBound == 0 {
		sc.LatitudeBound = defaultLatitudeBound
	}
	if sc.LongitudeBound == 0 {
		sc.LongitudeBound = defaultLongitudeBound
	}
	return sc
}
