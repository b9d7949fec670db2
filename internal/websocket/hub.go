package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/viv500/GenesisAI/internal/pkg/logger"
)

// ClusterChannel is the Redis channel every instance relays board messages on.
const ClusterChannel = "board_events"

// MessageSnapshot carries the session view sent when a client connects.
const MessageSnapshot = "snapshot"

var errSendBufferFull = errors.New("send buffer full")

// Message is the frame written to board stream clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterEnvelope struct {
	Origin  string          `json:"origin"`
	Target  string          `json:"target"` // session id or "*"
	Message json.RawMessage `json:"message"`
}

// Hub fans board messages out to connected clients, and through Redis to
// clients connected to other instances.
type Hub struct {
	// Registered clients: SessionID -> connections (several tabs may share one)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication, nil when single instance
	rdb      *redis.Client
	instance string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instance:   uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SessionID]
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			client.closeSend()
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			c.closeSend()
		}
		delete(h.clients, id)
	}
}

// Register adds a client unless the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast sends a message to every connected client on every instance.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	h.dispatch("*", msgType, data)
}

// Send targets the connections of one session.
func (h *Hub) Send(sessionID, msgType string, data interface{}) {
	h.dispatch(sessionID, msgType, data)
}

// ConnectedCount reports the number of live local connections.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func (h *Hub) dispatch(target, msgType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal message", map[string]interface{}{"type": msgType, "error": err.Error()})
		return
	}

	h.deliverLocal(target, payload)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterEnvelope{Origin: h.instance, Target: target, Message: payload})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, envelope).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to relay message to cluster", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(target string, payload []byte) {
	h.mu.RLock()
	var recipients []*Client
	if target == "*" {
		for _, clients := range h.clients {
			recipients = append(recipients, clients...)
		}
	} else {
		recipients = append(recipients, h.clients[target]...)
	}
	h.mu.RUnlock()

	for _, client := range recipients {
		if !client.enqueue(payload) {
			h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"session_id": client.SessionID})
			go h.Unregister(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope clusterEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if envelope.Origin == h.instance {
			continue
		}
		h.deliverLocal(envelope.Target, envelope.Message)
	}
}
