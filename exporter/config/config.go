package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	stationConfig "velov/brokers/station/config"
	"velov/communication"
	"velov/utils"
)

const (
	defaultLogLevel  = "INFO"
	defaultCity      = "lyon"
	defaultOutputDir = "."
	defaultTimeout   = 30 * time.Second
)

var ErrNoSource = errors.New("no source configured: set source.file or source.url")

// SourceConfig tells where the raw records come from. File wins over URL when both are set.
type SourceConfig struct {
	File    string        `yaml:"file"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ExportConfig selects the artifacts written in OutputDir
type ExportConfig struct {
	OutputDir       string `yaml:"output_dir"`
	Snapshot        bool   `yaml:"snapshot"`
	PerStationFiles bool   `yaml:"per_station_files"`
	XLSX            bool   `yaml:"xlsx"`
	PDF             bool   `yaml:"pdf"`
}

type RabbitConfig struct {
	Enabled                      bool `yaml:"enabled"`
	communication.RabbitMQConfig `yaml:",inline"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type ExporterConfig struct {
	LogLevel string                      `yaml:"log_level"`
	City     string                      `yaml:"city"`
	Source   SourceConfig                `yaml:"source"`
	Broker   stationConfig.StationConfig `yaml:"broker"`
	Export   ExportConfig                `yaml:"export"`
	RabbitMQ RabbitConfig                `yaml:"rabbit_mq"`
	Metrics  MetricsConfig               `yaml:"metrics"`
}

// LoadConfig reads the yaml file at configFilepath and applies the environment overrides
func LoadConfig(configFilepath string) (*ExporterConfig, error) {
	configFile, err := utils.GetConfigFile(configFilepath)
	if err != nil {
		return nil, err
	}
	return ParseConfig(configFile)
}

func ParseConfig(content []byte) (*ExporterConfig, error) {
	var exporterConfig ExporterConfig
	err := yaml.Unmarshal(content, &exporterConfig)
	if err != nil {
		return nil, fmt.Errorf("error parsing exporter config file: %w", err)
	}

	exporterConfig.applyEnv()
	exporterConfig.applyDefaults()

	if exporterConfig.Source.File == "" && exporterConfig.Source.URL == "" {
		return nil, ErrNoSource
	}
	return &exporterConfig, nil
}

func (c *ExporterConfig) applyEnv() {
	overrides := map[string]*string{
		"LOG_LEVEL":   &c.LogLevel,
		"SOURCE_FILE": &c.Source.File,
		"SOURCE_URL":  &c.Source.URL,
		"OUTPUT_DIR":  &c.Export.OutputDir,
		"RABBIT_URL":  &c.RabbitMQ.URL,
	}
	for envVarName, field := range overrides {
		if value := os.Getenv(envVarName); value != "" {
			*field = value
		}
	}
}

func (c *ExporterConfig) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.City == "" {
		c.City = defaultCity
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = defaultTimeout
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = defaultOutputDir
	}
	c.Broker = c.Broker.WithDefaults()
	c.RabbitMQ.RabbitMQConfig = c.RabbitMQ.RabbitMQConfig.WithDefaults()
}
