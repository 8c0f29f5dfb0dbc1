package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"hospitalpulse/internal/infrastructure"
	"hospitalpulse/pkg/contracts/events"
)

// Message types sent to clients
const (
	TypeConnection    = string(events.MessageTypeConnection)
	TypeDatasetLoaded = string(events.MessageTypeDatasetLoaded)
)

// broadcastQueue bounds messages waiting for the hub loop
const broadcastQueue = 16

type outbound struct {
	messageType string
	payload     []byte
	traceID     string
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients map[*Client]bool

	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	logger  *slog.Logger
	metrics *OTelMetrics
}

// NewHub creates a hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *OTelMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
	}
}

// Start runs the hub loop in its own goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop ends the hub loop and closes every client's send channel
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.quit)
	h.mu.Unlock()
	<-h.done
}

// Running reports whether the hub loop is active
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register hands a client to the hub loop
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.quit:
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Broadcast sends a typed envelope to every client. Messages are dropped
// while the hub is stopped.
func (h *Hub) Broadcast(ctx context.Context, messageType string, data interface{}) {
	traceID := infrastructure.GetTraceID(ctx)
	payload, err := json.Marshal(events.NewMessage(events.MessageType(messageType), data, traceID))
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("message_type", messageType),
			slog.String("error", err.Error()))
		return
	}

	if !h.Running() {
		h.logger.DebugContext(ctx, "Hub not running, message dropped",
			slog.String("message_type", messageType))
		return
	}

	select {
	case h.broadcast <- outbound{messageType: messageType, payload: payload, traceID: traceID}:
	case <-h.quit:
	case <-ctx.Done():
	}
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shut down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			ctx := infrastructure.WithTraceID(context.Background(), client.traceID)
			h.metrics.recordConnection(ctx)
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.greet(ctx, client)

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			if ok {
				ctx := infrastructure.WithTraceID(context.Background(), client.traceID)
				h.metrics.recordDisconnection(ctx, time.Since(client.connectedAt))
				h.logger.InfoContext(ctx, "Client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			}

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// greet tells a new client its id
func (h *Hub) greet(ctx context.Context, client *Client) {
	payload, err := json.Marshal(events.NewMessage(events.MessageTypeConnection,
		events.ConnectionData{Status: "connected", ClientID: client.id}, client.traceID))
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
		h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) fanOut(msg outbound) {
	ctx := infrastructure.WithTraceID(context.Background(), msg.traceID)

	h.mu.Lock()
	delivered, dropped := 0, 0
	for client := range h.clients {
		select {
		case client.send <- msg.payload:
			delivered++
		default:
			// slow client: drop it rather than stall everyone else
			dropped++
			close(client.send)
			delete(h.clients, client)
			h.logger.WarnContext(ctx, "Client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}
	h.mu.Unlock()

	h.metrics.recordBroadcast(ctx, msg.messageType, delivered, dropped)
	h.logger.DebugContext(ctx, "Broadcast delivered",
		slog.String("message_type", msg.messageType),
		slog.Int("delivered", delivered),
		slog.Int("dropped", dropped))
}
