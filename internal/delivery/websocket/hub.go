package websocket

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"tagmatrix/internal/delivery/dto"
	"tagmatrix/internal/dispatch"
	"tagmatrix/internal/logger"
	"tagmatrix/internal/partition"
	"tagmatrix/internal/registry"
)

// HubMessage represents a message received from a connection.
type HubMessage struct {
	Connection *Connection
	Message    dto.WebSocketMessage
}

// Hub maintains active WebSocket connections and routes incoming drop
// events to the Drop Dispatcher, broadcasting the resulting matrix back to
// every connection sharing that session.
type Hub struct {
	connections  map[*Connection]bool
	sessionConns map[string]map[*Connection]bool
	Register     chan *Connection
	Unregister   chan *Connection
	Broadcast    chan HubMessage
	dispatcher   *dispatch.Dispatcher
	mu           sync.RWMutex
	logger       *zap.Logger
}

// NewHub creates a new WebSocket hub bound to a Dispatcher.
func NewHub(dispatcher *dispatch.Dispatcher) *Hub {
	return &Hub{
		connections:  make(map[*Connection]bool),
		sessionConns: make(map[string]map[*Connection]bool),
		Register:     make(chan *Connection),
		Unregister:   make(chan *Connection),
		Broadcast:    make(chan HubMessage),
		dispatcher:   dispatcher,
		logger:       logger.Get(),
	}
}

// Run starts the hub and handles connection management.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("starting websocket hub")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("websocket hub stopping due to context cancellation")
			h.closeAllConnections()
			return

		case connection := <-h.Register:
			h.registerConnection(connection)

		case connection := <-h.Unregister:
			h.unregisterConnection(connection)

		case hubMessage := <-h.Broadcast:
			h.handleMessage(ctx, hubMessage)
		}
	}
}

func (h *Hub) registerConnection(connection *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[connection] = true
	h.logger.Info("connection registered", zap.String("connection_id", connection.ID))
}

func (h *Hub) unregisterConnection(connection *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[connection]; ok {
		delete(h.connections, connection)
		close(connection.Send)

		sessionID := connection.GetSession()
		if sessionID != "" {
			if conns, exists := h.sessionConns[sessionID]; exists {
				delete(conns, connection)
				if len(conns) == 0 {
					delete(h.sessionConns, sessionID)
				}
			}
		}

		h.logger.Info("connection unregistered",
			zap.String("connection_id", connection.ID),
			zap.String("session_id", sessionID))
	}
}

func (h *Hub) addToSession(connection *Connection, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessionConns[sessionID] == nil {
		h.sessionConns[sessionID] = make(map[*Connection]bool)
	}
	h.sessionConns[sessionID][connection] = true
}

// broadcastToSession sends a message to every connection sharing a
// session — e.g. co-viewers of the same matrix.
func (h *Hub) broadcastToSession(sessionID string, message dto.WebSocketMessage) {
	h.mu.RLock()
	conns := h.sessionConns[sessionID]
	h.mu.RUnlock()

	for connection := range conns {
		connection.SendMessage(message)
	}

	h.logger.Debug("message broadcast to session",
		zap.String("session_id", sessionID),
		zap.String("message_type", string(message.Type)),
		zap.Int("connection_count", len(conns)))
}

// handleMessage processes one inbound drop event: dispatches it against
// the core, then replies to the sender (and broadcasts to co-viewers on
// success).
func (h *Hub) handleMessage(ctx context.Context, hm HubMessage) {
	if hm.Message.Type != dto.MessageTypeDropEvent {
		return
	}

	payload, ok := hm.Message.Payload.(map[string]interface{})
	if !ok {
		hm.Connection.SendMessage(errorMessage("malformed drop event"))
		return
	}

	event := dispatch.DropEvent{
		DragKind:  dispatch.DraggableKind(stringField(payload, "drag_kind")),
		DragRef:   stringField(payload, "drag_ref"),
		DropKind:  dispatch.DroppableKind(stringField(payload, "drop_kind")),
		DropRef:   stringField(payload, "drop_ref"),
		SessionID: stringField(payload, "session_id"),
	}
	if event.SessionID == "" {
		event.SessionID = hm.Connection.GetSession()
	}

	hm.Connection.SetSession(event.SessionID)
	h.addToSession(hm.Connection, event.SessionID)

	result, err := h.dispatcher.Dispatch(ctx, event)
	if err != nil {
		hm.Connection.SendMessage(errorMessage(err.Error()))
		return
	}
	if !result.Reevaluated {
		return
	}

	reg, err := h.dispatcher.Registries().Current()
	if err != nil {
		hm.Connection.SendMessage(errorMessage(err.Error()))
		return
	}

	h.broadcastToSession(event.SessionID, dto.WebSocketMessage{
		Type:    dto.MessageTypeQueryResult,
		Payload: queryResultPayload(reg, *result.Matrix),
	})
}

// queryResultPayload mirrors the HTTP query handler's wire shape so WS and
// HTTP clients see the same matrix representation.
func queryResultPayload(reg *registry.Registry, m partition.Matrix) dto.QueryResult {
	dict := reg.Dictionary()
	rowLabels := labelNames(dict, m.RowAxis)
	colLabels := labelNames(dict, m.ColAxis)

	total := 0
	cells := make([][][]string, m.RowCount())
	for i := 0; i < m.RowCount(); i++ {
		cells[i] = make([][]string, m.ColCount())
		for j := 0; j < m.ColCount(); j++ {
			ids := m.CellCardIDs(reg, i, j)
			cells[i][j] = ids
			total += len(ids)
		}
	}

	return dto.QueryResult{
		Axes:   dto.AxesPayload{Row: rowLabels, Col: colLabels},
		Matrix: cells,
		Total:  total,
	}
}

func labelNames(dict interface{ NameOf(int32) (string, bool) }, ids []int32) []string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := dict.NameOf(id); ok {
			labels = append(labels, name)
		}
	}
	return labels
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func errorMessage(msg string) dto.WebSocketMessage {
	return dto.WebSocketMessage{Type: dto.MessageTypeError, Payload: dto.ErrorPayload{Message: msg}}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for connection := range h.connections {
		close(connection.Send)
		connection.Conn.Close()
	}

	h.logger.Info("all connections closed")
}
