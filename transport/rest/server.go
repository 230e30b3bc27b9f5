package rest

import (
	"fmt"
	"net/http"
	"time"
)

func Start(port string, game gameService) error {
	handlers := newHandlers(game)

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/snapshot", handlers.snapshotHandler)
	mux.HandleFunc("/history", handlers.historyHandler)

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
