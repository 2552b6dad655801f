package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// WebSocket message types for the renderer protocol
const (
	// Client -> Server messages
	MsgTypePing       = "ping"
	MsgTypeStart      = "start"
	MsgTypeMouseInput = "input:mouse"
	MsgTypeKeyInput   = "input:key"
	MsgTypeChoice     = "choice"
	MsgTypeTick       = "tick"
	MsgTypeHome       = "home"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeSnapshot  = "snapshot"
	MsgTypeError     = "error"
	MsgTypePong      = "pong"
)

// WSMessage is one frame of the renderer protocol.
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSErrorResponse is the payload of an error message.
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler streams session snapshots to the renderer and accepts
// input events on the same connection.
type WebSocketHandler struct {
	runner   SessionRunner
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket snapshot handler
func NewWebSocketHandler(runner SessionRunner) *WebSocketHandler {
	return &WebSocketHandler{
		runner: runner,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The renderer may be served from a dev server.
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
	}
}

// wsConn serializes writes; gorilla allows one writer at a time.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsConn) send(msg WSMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(msg); err != nil {
		fmt.Printf("[WebSocket] Failed to send message: %v\n", err)
	}
}

func (c *wsConn) sendSnapshot(snap models.SessionSnapshot) {
	c.send(WSMessage{Type: MsgTypeSnapshot, Payload: mustJSON(snap)})
}

func (c *wsConn) sendError(err error) {
	apiErr := FromError(err)
	c.send(WSMessage{Type: MsgTypeError, Payload: mustJSON(WSErrorResponse{
		Message: apiErr.Message + ": " + apiErr.Details,
		Code:    apiErr.Code,
	})})
}

// HandleWebSocket upgrades the connection, pushes the current snapshot and
// every later change, and dispatches client events.
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	fmt.Println("[WebSocket] Renderer connected")
	conn := &wsConn{ws: ws}

	updates, unsubscribe := wsh.runner.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	conn.send(WSMessage{Type: MsgTypeConnected})
	if snap, err := wsh.runner.Snapshot(ctx); err == nil {
		conn.sendSnapshot(snap)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-updates:
				if !ok {
					return
				}
				conn.sendSnapshot(snap)
			}
		}
	}()

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				fmt.Printf("[WebSocket] Connection error: %v\n", err)
			}
			break
		}

		if msg.Type == MsgTypePing {
			conn.send(WSMessage{Type: MsgTypePong})
			continue
		}

		ev, err := decodeEvent(msg)
		if err != nil {
			conn.sendError(NewBadRequestError("invalid message", err))
			continue
		}
		// The resulting snapshot reaches this client through the subscription.
		if _, err := wsh.runner.Dispatch(ctx, ev); err != nil {
			conn.sendError(err)
		}
	}

	fmt.Println("[WebSocket] Renderer disconnected")
	return nil
}

// decodeEvent turns a client message into a session event.
func decodeEvent(msg WSMessage) (models.Event, error) {
	switch msg.Type {
	case MsgTypeStart:
		return models.StartGame{}, nil
	case MsgTypeHome:
		return models.ReturnHome{}, nil
	case MsgTypeTick:
		return models.TimerTick{At: time.Now()}, nil
	case MsgTypeMouseInput:
		var ev models.MouseInput
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return nil, err
		}
		if !ev.Button.Valid() {
			return nil, fmt.Errorf("unknown button %q", ev.Button)
		}
		return ev, nil
	case MsgTypeKeyInput:
		var ev models.KeyInput
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case MsgTypeChoice:
		var ev models.UserChoice
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	}
	return nil, fmt.Errorf("unknown message type %q", msg.Type)
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
