package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"velov/exporter/config"
)

const defaultConfigFilepath = "./exporter/config/config.yaml"

// InitLogger Receives the log level to be set in logrus as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned
func InitLogger(logLevel string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	customFormatter := &log.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   false,
	}
	log.SetFormatter(customFormatter)
	log.SetLevel(level)
	return nil
}

func main() {
	configFilepath := os.Getenv("CONFIG_FILE")
	if configFilepath == "" {
		configFilepath = defaultConfigFilepath
	}

	exporterConfig, err := config.LoadConfig(configFilepath)
	if err != nil {
		log.Fatalf("error loading exporter config: %s", err)
	}

	if err := InitLogger(exporterConfig.LogLevel); err != nil {
		log.Fatalf("%s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewExporter(exporterConfig).Run(ctx); err != nil {
		log.Errorf("[exporter][status: error] %s", err.Error())
		stop()
		os.Exit(1)
	}
}
