package websocket

import (
	"encoding/json"

	"github.com/gofiber/websocket/v2"
)

// SnapshotFunc produces the first frame a client receives. It runs after the
// client is registered so no event between the two is lost.
type SnapshotFunc func() (interface{}, error)

// ServeWs attaches a connection to the hub and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, snapshot SnapshotFunc) {
	client := NewClient(hub, c, sessionID)
	if !hub.Register(client) {
		c.Close()
		return
	}

	if snapshot != nil {
		if err := client.Greet(snapshot); err != nil {
			hub.logger.Warn("Client", "Failed to send snapshot", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	go client.writePump()
	client.readPump()
}

// Greet queues the snapshot frame on this client only.
func (c *Client) Greet(snapshot SnapshotFunc) error {
	data, err := snapshot()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Message{Type: MessageSnapshot, Data: data})
	if err != nil {
		return err
	}
	if !c.enqueue(payload) {
		return errSendBufferFull
	}
	return nil
}
