package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/viv500/GenesisAI/pkg/events"
)

type IPublisherService interface {
	Publish(ctx context.Context, event *events.BoardEvent) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

// Publish hands the event to in-process subscribers. The request context is
// not attached since the consumer outlives the request.
func (p *publisherService) Publish(_ context.Context, event *events.BoardEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal board event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.Type)

	return p.publisher.Publish(p.topicName, msg)
}
