package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries both request fields (channel, player, move) and response
// fields (snapshot, error). Unused fields are omitted on the wire.
type Payload struct {
	ChannelKey   string                  `json:"channel_key,omitempty"`
	PlayerID     string                  `json:"player_id,omitempty"`
	GameKind     entity.GameKind         `json:"game_kind,omitempty"`
	Participants []string                `json:"participants,omitempty"`
	Options      *entity.SessionOptions  `json:"options,omitempty"`
	Move         *entity.Move            `json:"move,omitempty"`
	Session      *entity.SessionSnapshot `json:"session,omitempty"`
	Error        string                  `json:"error,omitempty"`
	ErrorCode    string                  `json:"error_code,omitempty"`
}

// client wraps one connection; gorilla connections do not allow concurrent
// writers, so every send goes through the mutex.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (that *client) send(action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(cl *client, action string, err error) error {
	payload := Payload{Error: err.Error(), ErrorCode: apperror.Code(err)}
	if sendErr := cl.send(action, payload); sendErr != nil {
		return fmt.Errorf("failed to send error response: %w", sendErr)
	}

	return nil
}
