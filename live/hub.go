package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// Hub fans fixture timeline updates out to websocket subscribers. Every
// fixture gets its own room; clients join the room of the fixture they watch.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Info("websocket client joined",
				slog.String("room", client.Room),
				slog.Int("room_size", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.logger.Info("websocket client left", slog.String("room", client.Room))
				}
			}
			h.mu.Unlock()
		}
	}
}

// FixtureRoom names the room carrying one fixture's updates.
func FixtureRoom(fixtureID int) string {
	return "fixture_" + strconv.Itoa(fixtureID)
}

// BroadcastToFixture satisfies the services broadcaster contract.
func (h *Hub) BroadcastToFixture(fixtureID int, payload interface{}) {
	h.broadcastToRoom(FixtureRoom(fixtureID), payload)
}

func (h *Hub) broadcastToRoom(room string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal websocket payload",
			slog.String("room", room), slog.Any("error", err))
		return
	}

	for client := range clients {
		client.trySend(messageBytes)
	}
}
