package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/vancomm/roguesweeper/internal/game"
	"github.com/vancomm/roguesweeper/internal/middleware"
)

var ErrNotAuthenticated = errors.New("not authenticated")

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// sendStatus writes v as JSON with the given status.
func sendStatus(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("unable to send response", slog.Any("error", err))
	}
}

// statusOf maps core errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound),
		errors.Is(err, game.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidTarget),
		errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrNoCluesRemaining),
		errors.Is(err, game.ErrNotWon),
		errors.Is(err, game.ErrConfirmRequired),
		errors.Is(err, game.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

type storageFailure struct {
	Error   string     `json:"error"`
	Session *game.View `json:"session,omitempty"`
}

// sendError writes err with its status. A storage failure still carries the
// session so the client sees the state the move produced.
func sendError(w http.ResponseWriter, logger *slog.Logger, err error, view *game.View) {
	status := statusOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var body any = wrapError(err)
	var storageErr *game.StorageError
	if errors.As(err, &storageErr) {
		body = storageFailure{Error: "storage failure", Session: view}
	} else if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
		body = wrapError(errors.New("internal error"))
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("unable to send error", slog.Any("error", err))
	}
}

// sendView is the common tail of every game endpoint.
func sendView(w http.ResponseWriter, logger *slog.Logger, view game.View, err error) {
	if err != nil {
		sendError(w, logger, err, &view)
		return
	}
	sendJSONOrLog(w, logger, view)
}

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

// decode fills dst from the query string and any form body.
func decode(dec *schema.Decoder, r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return errors.Join(game.ErrInvalidInput, err)
	}
	if err := dec.Decode(dst, r.Form); err != nil {
		return errors.Join(game.ErrInvalidInput, err)
	}
	return nil
}

func playerID(r *http.Request) (int64, error) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return claims.PlayerID, nil
}
