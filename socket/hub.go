package socket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

type outboundMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub tracks live connections and their room memberships and fans outbound
// events out to them. It implements game.Broker.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// Unregister forgets the connection, drops it from every room and closes its
// send buffer so the write pump can finish.
func (h *Hub) Unregister(connId string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connId]
	if !ok {
		return
	}
	delete(h.clients, connId)
	for code := range c.rooms {
		h.removeMember(code, connId)
	}
	close(c.send)
}

func (h *Hub) Join(connId, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connId]
	if !ok {
		return
	}
	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomCode] = members
	}
	members[connId] = struct{}{}
	c.rooms[roomCode] = struct{}{}
}

func (h *Hub) Leave(connId, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[connId]; ok {
		delete(c.rooms, roomCode)
	}
	h.removeMember(roomCode, connId)
}

func (h *Hub) removeMember(roomCode, connId string) {
	members, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	delete(members, connId)
	if len(members) == 0 {
		delete(h.rooms, roomCode)
	}
}

func (h *Hub) ToConnection(connId, event string, payload any) {
	data, ok := encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connId]; ok {
		c.enqueue(data)
	}
}

func (h *Hub) ToRoom(roomCode, event string, payload any) {
	h.ToRoomExcept(roomCode, "", event, payload)
}

func (h *Hub) ToRoomExcept(roomCode, exceptConnId, event string, payload any) {
	data, ok := encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for connId := range h.rooms[roomCode] {
		if connId == exceptConnId {
			continue
		}
		if c, ok := h.clients[connId]; ok {
			c.enqueue(data)
		}
	}
}

func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func encode(event string, payload any) ([]byte, bool) {
	data, err := json.Marshal(outboundMessage{Event: event, Data: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode outbound event")
		return nil, false
	}
	return data, true
}
