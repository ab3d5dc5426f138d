package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tagmatrix/internal/delivery/dto"
	"tagmatrix/internal/dispatch"
	"tagmatrix/internal/filter"
	"tagmatrix/internal/model"
	"tagmatrix/internal/registry"
	"tagmatrix/internal/session"
)

func buildTestDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	store := registry.NewStore()
	_, err := store.Publish([]model.Card{
		{ID: "c1", Tags: []string{"red"}},
		{ID: "c2", Tags: []string{"blue"}},
	}, registry.DefaultLimits())
	require.NoError(t, err)

	sessions := session.NewRepository(session.DefaultControls(), session.DefaultLimits())
	groups := dispatch.NewGroupStore()
	cards := dispatch.NewInMemoryCardStore(nil)
	cache := filter.NewCache(16)

	return dispatch.New(sessions, store, groups, cards, cache, filter.DefaultLimits(), nil)
}

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(buildTestDispatcher(t))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func awaitMessage(t *testing.T, ch chan dto.WebSocketMessage) dto.WebSocketMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for websocket message")
		return dto.WebSocketMessage{}
	}
}

func TestHub_DropEventReevaluatesAndBroadcastsToSession(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	conn := NewConnection("conn-1", nil, hub)
	hub.Register <- conn

	hub.Broadcast <- HubMessage{
		Connection: conn,
		Message: dto.WebSocketMessage{
			Type: dto.MessageTypeDropEvent,
			Payload: map[string]interface{}{
				"drag_kind":  "TAG",
				"drag_ref":   "red",
				"drop_kind":  "ZONE",
				"drop_ref":   "INTERSECTION",
				"session_id": "s1",
			},
		},
	}

	msg := awaitMessage(t, conn.Send)
	require.Equal(t, dto.MessageTypeQueryResult, msg.Type)

	result, ok := msg.Payload.(dto.QueryResult)
	require.True(t, ok, "payload should be a dto.QueryResult")
	require.Equal(t, 1, result.Total)
}

func TestHub_MalformedPayloadSendsError(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	conn := NewConnection("conn-1", nil, hub)
	hub.Register <- conn

	hub.Broadcast <- HubMessage{
		Connection: conn,
		Message:    dto.WebSocketMessage{Type: dto.MessageTypeDropEvent, Payload: "not-a-map"},
	}

	msg := awaitMessage(t, conn.Send)
	require.Equal(t, dto.MessageTypeError, msg.Type)
}

func TestHub_UnregisterRemovesConnectionFromSession(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	conn := NewConnection("conn-1", nil, hub)
	hub.Register <- conn
	conn.SetSession("s1")
	hub.addToSession(conn, "s1")

	hub.Unregister <- conn

	// Give the hub goroutine a beat to process the unregister before we
	// inspect its internal maps.
	time.Sleep(50 * time.Millisecond)

	hub.mu.RLock()
	_, stillConnected := hub.connections[conn]
	_, stillInSession := hub.sessionConns["s1"]
	hub.mu.RUnlock()

	require.False(t, stillConnected)
	require.False(t, stillInSession)
}
