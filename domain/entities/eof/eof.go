package eof

import "velov/domain/entities"

const EOFType = "EOF"

// EOFData is published once every station of a run has been sent. Consumers use it to
// know the batch is complete.
// + Metadata: metadata added to the structure
// + Count: number of station messages sent before it
type EOFData struct {
	Metadata entities.Metadata `json:"metadata"`
	Count    int               `json:"count"`
}

func NewEOF(runID string, city string, stage string, count int) *EOFData {
	return &EOFData{
		Metadata: entities.NewMetadata(runID, city, EOFType, stage, "end of run"),
		Count:    count,
	}
}

func (eof EOFData) GetMetadata() entities.Metadata {
	return eof.Metadata
}
