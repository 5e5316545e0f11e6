package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/roguesweeper/internal/config"
	"github.com/vancomm/roguesweeper/internal/game"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

func WithPlayerClaims(ctx context.Context, claims *config.PlayerClaims) context.Context {
	return context.WithValue(ctx, CtxPlayerClaims, claims)
}

// Auth puts the player claims from the request cookies into the context.
// Requests with missing or invalid cookies pass through without claims and
// with their cookies cleared.
func Auth(logger *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				if _, missing := r.Cookie("auth"); missing == nil {
					logger.Debug("rejected auth cookies", slog.Any("error", err))
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			h.ServeHTTP(w, r.WithContext(WithPlayerClaims(r.Context(), claims)))
		})
	}
}

// Guest makes sure every request carries a player: callers without claims
// get a fresh guest account and cookies for it. Must run after Auth.
func Guest(logger *slog.Logger, cookies *config.Cookies, accounts game.Accounts) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PlayerClaims(r.Context()); ok {
				h.ServeHTTP(w, r)
				return
			}
			guest, err := accounts.CreateGuest(r.Context())
			if err != nil {
				logger.Error("unable to create guest", slog.Any("error", err))
				http.Error(w, `{"error":"unable to create player"}`, http.StatusInternalServerError)
				return
			}
			claims := config.NewPlayerClaims(guest.PlayerID, guest.Username, true)
			if err := cookies.Issue(w, claims); err != nil {
				logger.Error("unable to issue guest cookies", slog.Any("error", err))
				http.Error(w, `{"error":"unable to create player"}`, http.StatusInternalServerError)
				return
			}
			logger.Info("created guest",
				slog.Int64("player_id", guest.PlayerID), slog.String("username", guest.Username))
			h.ServeHTTP(w, r.WithContext(WithPlayerClaims(r.Context(), claims)))
		})
	}
}
