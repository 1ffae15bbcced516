package ws

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/timcollins90/react-msger-app/internal/chat"
	"github.com/timcollins90/react-msger-app/internal/metrics"
)

// Hub owns room membership and message fan-out. All mutation flows through a
// single event-loop goroutine, so per-room append order equals delivery order
// and a joiner's history replay is always a gap-free prefix of what existing
// members have seen.
type Hub struct {
	registry *chat.Registry

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	send       chan sendRequest

	// Loop-owned state. Never touched outside Run.
	members map[*Client]string          // connection -> current room ("" before a join)
	rooms   map[string]map[*Client]bool // inverse view, for fan-out

	mu     sync.RWMutex
	online map[string]int // occupancy mirror for REST reads
}

type joinRequest struct {
	client *Client
	room   string
}

type sendRequest struct {
	client  *Client
	payload SendPayload
}

func NewHub(registry *chat.Registry) *Hub {
	return &Hub{
		registry:   registry,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		send:       make(chan sendRequest, 256),
		members:    make(map[*Client]string),
		rooms:      make(map[string]map[*Client]bool),
		online:     make(map[string]int),
	}
}

// Run drives the hub event loop. It must be running in its own goroutine
// before any client is registered.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.members[c] = ""
			metrics.WsConnections.Inc()
		case c := <-h.unregister:
			h.drop(c)
		case req := <-h.join:
			h.handleJoin(req.client, req.room)
		case req := <-h.send:
			h.handleSend(req.client, req.payload)
		}
	}
}

// handleJoin moves the connection into the named room, fully replacing any
// prior association, and replays the room's history to the joiner only.
func (h *Hub) handleJoin(c *Client, room string) {
	if _, ok := h.members[c]; !ok {
		return
	}
	h.dissociate(c)
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	h.members[c] = room
	h.setOnline(room)

	// Replay completes before any later send is processed, so the joiner can
	// see no message from the future and no gaps. Unknown rooms replay an
	// empty history rather than erroring.
	frame, err := encode(EventHistory, h.registry.History(room))
	if err != nil {
		log.Error().Err(err).Str("room", room).Msg("encode history")
		return
	}
	h.deliver(c, frame)
}

// handleSend stamps and stores the message, then fans it out to every room
// member except the originator, who renders its own optimistic copy locally.
func (h *Hub) handleSend(c *Client, p SendPayload) {
	msg := chat.NewMessage(p.Content, p.Author)
	h.registry.Append(p.Room, msg)
	metrics.WsMessagesTotal.Inc()

	frame, err := encode(EventReceiveMessage, msg)
	if err != nil {
		log.Error().Err(err).Str("room", p.Room).Msg("encode message")
		return
	}
	for peer := range h.rooms[p.Room] {
		if peer == c {
			continue
		}
		h.deliver(peer, frame)
	}
}

// deliver never blocks: a recipient that cannot keep up is evicted rather
// than allowed to stall the loop or fail the sender.
func (h *Hub) deliver(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		h.drop(c)
	}
}

// drop removes the connection entirely. Idempotent: dropping an unknown
// connection is a no-op, never an error.
func (h *Hub) drop(c *Client) {
	if _, ok := h.members[c]; !ok {
		return
	}
	h.dissociate(c)
	delete(h.members, c)
	close(c.send)
	metrics.WsConnections.Dec()
}

// dissociate detaches the connection from whatever room it belongs to.
// No-op for unjoined connections. No leave notice is broadcast.
func (h *Hub) dissociate(c *Client) {
	room := h.members[c]
	if room == "" {
		return
	}
	if peers, ok := h.rooms[room]; ok {
		delete(peers, c)
		if len(peers) == 0 {
			delete(h.rooms, room)
		}
	}
	h.members[c] = ""
	h.setOnline(room)
}

func (h *Hub) setOnline(room string) {
	n := len(h.rooms[room])
	h.mu.Lock()
	if n == 0 {
		delete(h.online, room)
	} else {
		h.online[room] = n
	}
	h.mu.Unlock()
}

// Online reports how many connections are currently joined to a room, for
// reuse by the REST layer.
func (h *Hub) Online(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.online[roomID]
}
