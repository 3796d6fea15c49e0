package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"velov/domain/business/stationcollection"
	"velov/domain/entities"
	"velov/domain/entities/eof"
	"velov/domain/entities/station"
)

const (
	stage          = "exporter"
	stationType    = "station"
	statisticsType = "statistics"
	unknownCommune = "unknown"
)

// MessagePublisher is the part of communication.RabbitMQ the publisher needs
type MessagePublisher interface {
	PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error
}

// StationPublisher sends the content of a collection to a topic exchange
type StationPublisher struct {
	publisher   MessagePublisher
	exchange    string
	contentType string
	city        string
	runID       string
}

func NewStationPublisher(publisher MessagePublisher, exchange string, contentType string, city string, runID string) *StationPublisher {
	return &StationPublisher{
		publisher:   publisher,
		exchange:    exchange,
		contentType: contentType,
		city:        city,
		runID:       runID,
	}
}

// Publish sends one message per station, in collection order, then the statistics snapshot
// and finally an EOF carrying the number of stations sent. The first failure stops the run.
func (sp *StationPublisher) Publish(ctx context.Context, collection *stationcollection.StationCollection) error {
	stations := collection.Stations()
	for _, stationData := range stations {
		metadata := entities.NewMetadata(sp.runID, sp.city, stationType, stage, "")
		if err := sp.publish(ctx, StationRoutingKey(stationData), entities.NewMessage(metadata, stationData)); err != nil {
			return fmt.Errorf("error publishing station %s: %w", stationData.ID, err)
		}
	}

	metadata := entities.NewMetadata(sp.runID, sp.city, statisticsType, stage, "")
	if err := sp.publish(ctx, sp.statisticsRoutingKey(), entities.NewMessage(metadata, collection.Statistics())); err != nil {
		return fmt.Errorf("error publishing statistics: %w", err)
	}

	if err := sp.publish(ctx, sp.eofRoutingKey(), eof.NewEOF(sp.runID, sp.city, stage, len(stations))); err != nil {
		return fmt.Errorf("error publishing EOF: %w", err)
	}

	log.Infof("[publisher: %s][run: %s][status: OK] %d stations published", sp.exchange, sp.runID, len(stations))
	return nil
}

func (sp *StationPublisher) publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshalling message: %w", err)
	}

	err = sp.publisher.PublishMessageInExchange(ctx, sp.exchange, routingKey, body, sp.contentType)
	if err != nil {
		log.Errorf("[publisher: %s][routing key: %s] error publishing message: %s", sp.exchange, routingKey, err.Error())
		return err
	}

	log.Debugf("[publisher: %s][routing key: %s] message published", sp.exchange, routingKey)
	return nil
}

// StationRoutingKey returns stations.<commune>.<id>, with the commune made safe for topic matching
func StationRoutingKey(stationData station.Station) string {
	commune := unknownCommune
	if stationData.Commune != nil && *stationData.Commune != "" {
		commune = routingWord(*stationData.Commune)
	}
	return fmt.Sprintf("stations.%s.%s", commune, routingWord(stationData.ID.String()))
}

func (sp *StationPublisher) statisticsRoutingKey() string {
	return "statistics." + routingWord(sp.city)
}

func (sp *StationPublisher) eofRoutingKey() string {
	return "eof." + routingWord(sp.city)
}

// routingWord removes the characters that have a meaning in topic routing keys
func routingWord(value string) string {
	replacer := strings.NewReplacer(".", "_", " ", "_", "*", "_", "#", "_")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}
