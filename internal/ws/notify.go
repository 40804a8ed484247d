package ws

import (
	"encoding/json"
	"time"
)

type SessionUpdatedEvent struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Notifier adapts the hub to the session usecase.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) SessionUpdated(sessionID string, event string, payload any) {
	if n == nil || n.hub == nil || sessionID == "" {
		return
	}

	evt := SessionUpdatedEvent{
		Type:      "session_updated",
		Event:     event,
		Payload:   payload,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	n.hub.Publish(sessionID, b)
}
