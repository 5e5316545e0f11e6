package config

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts any origin unless WS_ALLOWED_ORIGINS lists them,
// comma separated.
func NewWebSocket() (*WebSocket, error) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	if list, ok := os.LookupEnv("WS_ALLOWED_ORIGINS"); ok && list != "" {
		origins := strings.Split(list, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return slices.Contains(origins, r.Header.Get("Origin"))
		}
	}
	return &WebSocket{Upgrader: upgrader}, nil
}
