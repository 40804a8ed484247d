package ws

import (
	"log"
	"sync"
)

type publication struct {
	sessionID string
	message   []byte
}

// Hub fans session events out to the sockets opened for that session.
type Hub struct {
	clients    map[string]map[*Client]bool
	publish    chan publication
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		publish:    make(chan publication, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for sid, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, sid)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.sessionID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.sessionID] = set
			}
			set[client] = true
			total := len(set)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | sid=%s session_clients=%d", client.sessionID, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			total := h.removeLocked(client)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | sid=%s session_clients=%d", client.sessionID, total)
			}

		case p := <-h.publish:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients[p.sessionID]))
			for c := range h.clients[p.sessionID] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- p.message:
				default:
					h.mutex.Lock()
					h.removeLocked(client)
					h.mutex.Unlock()
				}
			}
		}
	}
}

// removeLocked drops client and closes its send channel once.
func (h *Hub) removeLocked(client *Client) int {
	set := h.clients[client.sessionID]
	if _, ok := set[client]; ok {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.sessionID)
	}
	return len(set)
}

func (h *Hub) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Register adds client to its session. After Stop the client's send channel
// is closed instead so its pumps exit.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	if h.stopped() {
		close(client.send)
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister is a no-op once the hub has stopped; Run already closed every
// registered client on the way out.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil || h.stopped() {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) Publish(sessionID string, message []byte) {
	if h == nil {
		return
	}
	select {
	case h.publish <- publication{sessionID: sessionID, message: message}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS publish dropped | sid=%s reason=buffer_full", sessionID)
		}
	}
}

func (h *Hub) ClientCount(sessionID string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[sessionID])
}
