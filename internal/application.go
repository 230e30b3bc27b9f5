package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playvn/gamehub-backend/internal/config"
	"github.com/playvn/gamehub-backend/internal/engine"
	"github.com/playvn/gamehub-backend/internal/registry"
	"github.com/playvn/gamehub-backend/internal/repository"
	"github.com/playvn/gamehub-backend/internal/repository/storage"
	"github.com/playvn/gamehub-backend/internal/repository/storage/sqlite"
	"github.com/playvn/gamehub-backend/internal/service"
	"github.com/playvn/gamehub-backend/transport/rest"
	"github.com/playvn/gamehub-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Connection.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Connection.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	sessionRepo := repository.NewSessionRepository(redisStorage.Connection)
	archiveRepo := repository.NewArchiveRepository(sqliteStorage.Connection)
	if err = archiveRepo.Init(ctx); err != nil {
		return fmt.Errorf("could not init archive storage: %w", err)
	}

	sessionRegistry := registry.New(logger, registry.Config{
		Rules: engine.Rules{
			Komi:            conf.Game.Komi,
			BoardSize:       conf.Game.BoardSize,
			DiceMax:         conf.Game.DiceMax,
			StalemateIsLoss: conf.Game.StalemateIsLoss,
		},
		IdleTimeout:   conf.Game.IdleTimeout,
		FinishedGrace: conf.Game.FinishedGrace,
		SweepInterval: conf.Game.SweepInterval,
	})

	gameService := service.NewGameService(logger, sessionRegistry, sessionRepo, archiveRepo)
	sessionRegistry.SetRecorder(gameService)
	sessionRegistry.StartSweeper(ctx)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort, gameService); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameService)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
