package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMessage(t *testing.T, ws *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg WSMessage
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func readSnapshot(t *testing.T, ws *websocket.Conn) models.SessionSnapshot {
	t.Helper()
	msg := readMessage(t, ws)
	require.Equal(t, MsgTypeSnapshot, msg.Type)
	var snap models.SessionSnapshot
	require.NoError(t, json.Unmarshal(msg.Payload, &snap))
	return snap
}

func TestWebSocket_SnapshotStream(t *testing.T) {
	env := newTestEnv(t, true)
	server := httptest.NewServer(env.e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	assert.Equal(t, MsgTypeConnected, readMessage(t, ws).Type)
	assert.Equal(t, models.StateIdle, readSnapshot(t, ws).State)

	// Changes made over HTTP are pushed to the socket.
	env.selectContent(t)
	assert.Equal(t, models.StateReady, readSnapshot(t, ws).State)

	// Events sent over the socket come back as snapshots.
	require.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypeStart}))
	assert.Equal(t, models.StatePlaying, readSnapshot(t, ws).State)

	require.NoError(t, ws.WriteJSON(WSMessage{
		Type:    MsgTypeMouseInput,
		Payload: json.RawMessage(`{"button":"left","hit":true}`),
	}))
	assert.Equal(t, 1, readSnapshot(t, ws).CurrentImageNumber)

	require.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypePing}))
	assert.Equal(t, MsgTypePong, readMessage(t, ws).Type)

	// Rejected events answer with an error and no snapshot.
	require.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypeStart}))
	msg := readMessage(t, ws)
	require.Equal(t, MsgTypeError, msg.Type)
	var wsErr WSErrorResponse
	require.NoError(t, json.Unmarshal(msg.Payload, &wsErr))
	assert.Equal(t, "CONFLICT", wsErr.Code)
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		msg     WSMessage
		want    models.Event
		wantErr bool
	}{
		{"start", WSMessage{Type: MsgTypeStart}, models.StartGame{}, false},
		{"home", WSMessage{Type: MsgTypeHome}, models.ReturnHome{}, false},
		{"key", WSMessage{Type: MsgTypeKeyInput, Payload: json.RawMessage(`{"scancode":30,"text":"a","modifiers":["left ctrl"]}`)},
			models.KeyInput{ScanCode: 30, Text: "a", Modifiers: []string{"left ctrl"}}, false},
		{"choice", WSMessage{Type: MsgTypeChoice, Payload: json.RawMessage(`{"choice":"retry"}`)},
			models.UserChoice{Choice: models.ChoiceRetry}, false},
		{"bad button", WSMessage{Type: MsgTypeMouseInput, Payload: json.RawMessage(`{"button":"thumb"}`)}, nil, true},
		{"bad payload", WSMessage{Type: MsgTypeKeyInput, Payload: json.RawMessage(`[1,2]`)}, nil, true},
		{"unknown type", WSMessage{Type: "upload:init"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := decodeEvent(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}

	ev, err := decodeEvent(WSMessage{Type: MsgTypeTick})
	require.NoError(t, err)
	assert.IsType(t, models.TimerTick{}, ev)
}
