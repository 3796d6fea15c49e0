package entities

import "github.com/google/uuid"

// Metadata this struct travels with every published message
// + RunID: identifies the exporter run that produced the message
// + City: city which belongs the data
// + Type: this field helps consumers recognize what type of data is
// + Stage: stage were the Metadata was constructed
// + Message: message with extra information
type Metadata struct {
	RunID   string `json:"runId"`
	City    string `json:"city"`
	Type    string `json:"type"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func NewMetadata(runID string, city string, dataType string, stage string, message string) Metadata {
	return Metadata{
		RunID:   runID,
		City:    city,
		Type:    dataType,
		Stage:   stage,
		Message: message,
	}
}

// NewRunID returns a random identifier for an exporter run
func NewRunID() string {
	return uuid.NewString()
}

func (m Metadata) GetRunID() string {
	return m.RunID
}

func (m Metadata) GetType() string {
	return m.Type
}

func (m Metadata) GetCity() string {
	return m.City
}

func (m Metadata) GetStage() string {
	return m.Stage
}

func (m Metadata) GetMessage() string {
	return m.Message
}
