package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/entity"
)

type gameService interface {
	GetSnapshot(ctx context.Context, channelKey string) (*entity.SessionSnapshot, error)
	History(ctx context.Context, channelKey string, limit int) ([]entity.ArchivedMatch, error)
}

type handlers struct {
	game gameService
}

func newHandlers(game gameService) *handlers {
	return &handlers{game: game}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (that *handlers) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	channelKey := r.URL.Query().Get("channel")
	if channelKey == "" {
		writeError(w, http.StatusBadRequest, errors.New("channel query parameter is required"))
		return
	}

	snapshot, err := that.game.GetSnapshot(r.Context(), channelKey)
	if errors.Is(err, apperror.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) historyHandler(w http.ResponseWriter, r *http.Request) {
	channelKey := r.URL.Query().Get("channel")
	if channelKey == "" {
		writeError(w, http.StatusBadRequest, errors.New("channel query parameter is required"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := that.game.History(r.Context(), channelKey, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: apperror.Code(err)})
}
