package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playvn/gamehub-backend/internal/entity"
)

type gameService interface {
	CreateSession(ctx context.Context, channelKey string, kind entity.GameKind, participantIDs []string, opts *entity.SessionOptions) (*entity.SessionSnapshot, error)
	SubmitMove(ctx context.Context, channelKey, playerID string, mv entity.Move) (*entity.SessionSnapshot, error)
	Pass(ctx context.Context, channelKey, playerID string) (*entity.SessionSnapshot, error)
	RollDice(ctx context.Context, channelKey, playerID string) (*entity.SessionSnapshot, error)
	Resign(ctx context.Context, channelKey, playerID string) (*entity.SessionSnapshot, error)
	EndSession(ctx context.Context, channelKey string) (*entity.SessionSnapshot, error)
	GetSnapshot(ctx context.Context, channelKey string) (*entity.SessionSnapshot, error)
}

type Server struct {
	logger *slog.Logger
	game   gameService

	upgrader websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*client // player ID → connection

	handlers map[string]func(ctx context.Context, message *Message, cl *client) error
}

func New(logger *slog.Logger, game gameService) *Server {
	server := &Server{
		logger: logger,
		game:   game,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		connections: make(map[string]*client),
		handlers:    make(map[string]func(context.Context, *Message, *client) error),
	}

	server.handlers["game:new"] = server.handleNewGame
	server.handlers["game:move"] = server.handleMove
	server.handlers["game:pass"] = server.handlePass
	server.handlers["game:roll"] = server.handleRoll
	server.handlers["game:resign"] = server.handleResign
	server.handlers["game:leave"] = server.handleLeave
	server.handlers["game:state"] = server.handleState

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := &client{conn: conn}
	defer func() {
		that.dropConnection(cl)
		conn.Close()
	}()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, cl); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, cl *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("connection closed unexpectedly: %w", err)
			}
			return nil
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, &message, cl); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// registerConnection maps the player to this connection; a reconnect
// replaces the previous one.
func (that *Server) registerConnection(playerID string, cl *client) {
	if playerID == "" {
		return
	}

	that.connectionsMutex.Lock()
	that.connections[playerID] = cl
	that.connectionsMutex.Unlock()
}

func (that *Server) dropConnection(cl *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for playerID, connection := range that.connections {
		if connection == cl {
			delete(that.connections, playerID)
			that.logger.Info("player disconnected", "playerID", playerID)
			return
		}
	}
}

// broadcast sends the session to every connected participant.
func (that *Server) broadcast(action string, snapshot *entity.SessionSnapshot) {
	log := that.logger.With("method", "broadcast")

	payload := Payload{
		ChannelKey: snapshot.ChannelKey,
		Session:    snapshot,
	}

	for _, player := range snapshot.Players {
		that.connectionsMutex.RLock()
		cl, ok := that.connections[player.ID]
		that.connectionsMutex.RUnlock()

		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		if err := cl.send(action, payload); err != nil {
			log.Error("failed to send session update", "playerID", player.ID, "error", err)
		}
	}
}
