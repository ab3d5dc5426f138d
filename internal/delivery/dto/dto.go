// Package dto holds the wire-level records the HTTP and WebSocket demo
// surface exchanges with callers. None of these shapes are core types —
// the core produces card-id lists and typed errors; dto is where those get
// dressed up for JSON.
package dto

// ErrorPayload is the JSON body returned alongside any non-2xx response.
type ErrorPayload struct {
	Message string `json:"message"`
}

// AxesPayload names the row/col tag labels of a QueryResult's matrix, in
// display order.
type AxesPayload struct {
	Row []string `json:"row"`
	Col []string `json:"col"`
}

// QueryResult is the query result record returned by the query interface.
type QueryResult struct {
	Axes            AxesPayload  `json:"axes"`
	Matrix          [][][]string `json:"matrix"`
	Total           int          `json:"total"`
	OperationTimeMs float64      `json:"operation_time_ms"`
	CacheHit        bool         `json:"cache_hit"`
}

// DropEventPayload is the wire shape of the drop event interface.
type DropEventPayload struct {
	DragKind  string `json:"drag_kind"`
	DragRef   string `json:"drag_ref"`
	DropKind  string `json:"drop_kind"`
	DropRef   string `json:"drop_ref"`
	SessionID string `json:"session_id"`
}

// MessageType discriminates a WebSocketMessage's Payload shape.
type MessageType string

const (
	MessageTypeDropEvent   MessageType = "drop_event"
	MessageTypeQueryResult MessageType = "query_result"
	MessageTypeError       MessageType = "error"
)

// WebSocketMessage envelopes every message exchanged over the demo
// WebSocket bridge.
type WebSocketMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}
