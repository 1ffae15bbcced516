package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/timcollins90/react-msger-app/internal/chat"
	"github.com/timcollins90/react-msger-app/internal/metrics"
	"github.com/timcollins90/react-msger-app/internal/ws"
)

// Handler aggregates the HTTP handlers. Dependencies are injected so the
// routes are testable without ambient globals.
type Handler struct {
	registry *chat.Registry
	hub      *ws.Hub
}

func NewHandler(registry *chat.Registry, hub *ws.Hub) *Handler {
	return &Handler{registry: registry, hub: hub}
}

// CreateRoom mints a fresh room id with an empty history and returns it.
// Every call creates a new room; the endpoint is deliberately not idempotent.
func (h *Handler) CreateRoom(c *gin.Context) {
	id, err := h.registry.NewRoom()
	if err != nil {
		// A v4 id collision is effectively unreachable, but must not be a
		// silent failure if it ever occurs.
		log.Error().Err(err).Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	metrics.RoomsCreatedTotal.Inc()
	log.Info().Str("room", id).Msg("created room")
	c.JSON(http.StatusOK, gin.H{"uuid": id})
}

// Data is the connectivity stub the client pings on load.
func (h *Handler) Data(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from the backend!"})
}

// GetRoom reports a room's current occupancy and history size, for the room
// selector screen.
func (h *Handler) GetRoom(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"online":   h.hub.Online(id),
		"messages": len(h.registry.History(id)),
	})
}

// ListMessages returns a room's history in append order. Unknown ids yield an
// empty list, matching the registry contract.
func (h *Handler) ListMessages(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{"messages": h.registry.History(id)})
}
