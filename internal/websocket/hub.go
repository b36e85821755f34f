package websocket

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aerolinea/booking-backend/internal/database"
	"github.com/aerolinea/booking-backend/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// EventType represents the type of a hub event.
type EventType string

const (
	EventAvailabilityChanged EventType = "availability_changed"
)

// Event is pushed to every client watching a flight whenever its
// availability changes.
type Event struct {
	Type           EventType            `json:"type"`
	FlightID       int64                `json:"flightId"`
	FlightClass    database.FlightClass `json:"flightClass,omitempty"`
	SeatNumber     string               `json:"seatNumber,omitempty"`
	Action         string               `json:"action"` // purchased, cancelled, reconciled
	SeatsAvailable int                  `json:"seatsAvailable"`
	Timestamp      int64                `json:"timestamp"`
}

// Client is one websocket connection watching a single flight.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	flightID int64
}

// Hub manages websocket connections per flight.
type Hub struct {
	clients    map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
	log        logger.Logger
}

// NewHub creates a new Hub. Call Run in a goroutine to start it.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 256),
		log:        log,
	}
}

// Run drives the hub's registry and broadcast loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.flightID] == nil {
				h.clients[client.flightID] = make(map[*Client]bool)
			}
			h.clients[client.flightID][client] = true
			h.log.Debug("websocket client registered", "flightId", client.flightID, "watchers", len(h.clients[client.flightID]))

		case client := <-h.unregister:
			if clients, ok := h.clients[client.flightID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.flightID)
					}
				}
			}

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Error("websocket marshal failed", "error", err)
				continue
			}
			for client := range h.clients[event.FlightID] {
				select {
				case client.send <- data:
				default:
					delete(h.clients[event.FlightID], client)
					close(client.send)
				}
			}
		}
	}
}

// AvailabilityChanged broadcasts a seat availability change to every
// client watching the flight. Implements service.Broadcaster.
func (h *Hub) AvailabilityChanged(flightID int64, class database.FlightClass, seat, action string, seatsAvailable int) {
	event := &Event{
		Type:           EventAvailabilityChanged,
		FlightID:       flightID,
		FlightClass:    class,
		SeatNumber:     seat,
		Action:         action,
		SeatsAvailable: seatsAvailable,
		Timestamp:      time.Now().UnixMilli(),
	}
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("websocket broadcast dropped", "flightId", flightID)
	}
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and attaches the client to the flight's
// broadcast group. Route: GET /api/flights/{id}/ws.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	flightID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid flight id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64), flightID: flightID}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound frames; the stream is server-to-client only.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
