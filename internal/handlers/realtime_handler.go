package handlers

import (
	"net/http"

	"github.com/arifdev/recipely/backend/internal/realtime"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is handled by the CORS middleware in front
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RealtimeHandler upgrades connections and attaches them to the
// authenticated user's fanout channel
type RealtimeHandler struct {
	broker *realtime.Broker
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(broker *realtime.Broker) *RealtimeHandler {
	return &RealtimeHandler{broker: broker}
}

// RegisterRealtimeRoutes registers the websocket route
func (h *RealtimeHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/ws", h.Connect)
}

// Connect upgrades the request to a websocket and streams the user's
// fanout events until the connection closes. Each connection is its own
// subscription, so multiple tabs or devices all receive every event.
func (h *RealtimeHandler) Connect(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "WebSocket upgrade failed")
	}

	sub := h.broker.Subscribe(currentUserID)
	realtime.NewClient(h.broker, sub, conn).Start()

	log.Debug().Str("user", currentUserID).Msg("websocket connection established")
	return nil
}
