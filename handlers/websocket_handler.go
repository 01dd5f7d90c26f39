package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/matchday-system/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// SubscribeFixture upgrades the connection and joins the fixture's room.
func (h *WebSocketHandler) SubscribeFixture(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.FixtureRoom(fixtureID),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
