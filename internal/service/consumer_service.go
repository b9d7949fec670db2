package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/pkg/events"
)

const (
	MessageBoardEvent = "board_event"
	MessageFeedback   = "feedback"
)

// BoardBroadcaster pushes messages to board stream clients.
// Implemented by the websocket Hub.
type BoardBroadcaster interface {
	Broadcast(msgType string, data interface{})
	Send(sessionID, msgType string, data interface{})
}

// EventForwarder mirrors events to an external bus (NATS).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventObserver is told about every event the consumer processes.
type EventObserver interface {
	ObserveEvent(eventType string)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber      message.Subscriber
	topicName       string
	broadcaster     BoardBroadcaster
	forwarder       EventForwarder
	feedbackService IFeedbackService
	observer        EventObserver
	logger          logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	broadcaster BoardBroadcaster,
	forwarder EventForwarder,
	feedbackService IFeedbackService,
	observer EventObserver,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:      subscriber,
		topicName:       topicName,
		broadcaster:     broadcaster,
		forwarder:       forwarder,
		feedbackService: feedbackService,
		observer:        observer,
		logger:          log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Every outcome is acked: delivery to sockets and NATS is best effort.
	defer msg.Ack()

	var event events.BoardEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal board event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if cs.observer != nil {
		cs.observer.ObserveEvent(event.Type)
	}

	if cs.broadcaster != nil {
		cs.broadcaster.Broadcast(MessageBoardEvent, event)
	}

	if cs.forwarder != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := cs.forwarder.Publish(pubCtx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward event to NATS", map[string]interface{}{
				"event": event.Type,
				"error": err.Error(),
			})
		}
		cancel()
	}

	if cs.feedbackService == nil {
		return
	}
	if item := cs.feedbackService.Record(&event); item != nil && cs.broadcaster != nil {
		if event.SessionID != "" {
			cs.broadcaster.Send(event.SessionID, MessageFeedback, item)
		} else {
			cs.broadcaster.Broadcast(MessageFeedback, item)
		}
	}
}
