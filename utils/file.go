package utils

import (
	"fmt"
	"io"
	"os"
)

func GetConfigFile(filepath string) ([]byte, error) {
	configFile, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer configFile.Close()

	configFileBytes, err := io.ReadAll(configFile)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return configFileBytes, nil
}

// WriteFile creates or truncates filepath and writes data to it. The file is closed on
// every path; a close error is returned when the write itself succeeded.
func WriteFile(filepath string, data []byte) (err error) {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %s: %w", filepath, closeErr)
		}
	}()

	_, err = file.Write(data)
	return err
}
