package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagmatrix/internal/delivery/dto"
)

func TestConnection_SetSessionAndGetSession(t *testing.T) {
	conn := NewConnection("conn-1", nil, nil)
	assert.Equal(t, "", conn.GetSession())

	conn.SetSession("s1")
	assert.Equal(t, "s1", conn.GetSession())
}

func TestConnection_SendMessageDeliversOnOpenChannel(t *testing.T) {
	conn := NewConnection("conn-1", nil, nil)

	conn.SendMessage(dto.WebSocketMessage{Type: dto.MessageTypeError, Payload: dto.ErrorPayload{Message: "boom"}})

	msg := <-conn.Send
	require.Equal(t, dto.MessageTypeError, msg.Type)
}

func TestConnection_SendMessageClosesChannelWhenFull(t *testing.T) {
	conn := NewConnection("conn-1", nil, nil)
	conn.Send = make(chan dto.WebSocketMessage)

	// With an unbuffered channel and no reader, SendMessage's non-blocking
	// send always falls through to the default case and closes Send.
	conn.SendMessage(dto.WebSocketMessage{Type: dto.MessageTypeError})

	_, ok := <-conn.Send
	assert.False(t, ok, "channel should be closed after a failed non-blocking send")
}
