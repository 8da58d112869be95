package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	ws "clinic-archive/internal/websocket"
)

type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler accepts upgrades from the given origins; an empty list or "*" allows any origin.
func NewWSHandler(hub *ws.Hub, origins []string) *WSHandler {
	allowed := map[string]struct{}{}
	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if allowAll || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", "error", err, "client_ip", clientIP(r))
		return
	}

	go ws.NewClient(h.hub, conn).Serve()
}
