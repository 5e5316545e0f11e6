package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/roguesweeper/internal/config"
	"github.com/vancomm/roguesweeper/internal/game"
	"github.com/vancomm/roguesweeper/internal/middleware"
)

type Auth struct {
	logger   *slog.Logger
	accounts game.Accounts
	cookies  *config.Cookies
}

func NewAuth(
	logger *slog.Logger,
	accounts game.Accounts,
	cookies *config.Cookies,
) *Auth {
	return &Auth{
		logger:   logger,
		accounts: accounts,
		cookies:  cookies,
	}
}

type PlayerInfo struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	IsGuest  bool   `json:"is_guest"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

var (
	ErrBadAuthBody        = errors.New("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = errors.New("password too long")
	ErrBadUsername        = errors.New("username must be 3 to 32 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// bcrypt ignores anything past 72 bytes
const maxPasswordBytes = 72

const (
	minUsername = 3
	maxUsername = 32
)

func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.logger, &Status{LoggedIn: false})
		return
	}
	if err := a.cookies.Issue(w, claims); err != nil {
		a.logger.Error("unable to refresh cookies", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	sendJSONOrLog(w, a.logger, &Status{
		LoggedIn: !claims.IsGuest,
		Player:   &PlayerInfo{claims.PlayerID, claims.Username, claims.IsGuest},
	})
}

type credentials struct {
	username string
	password []byte
}

func (a *Auth) parseCredentials(w http.ResponseWriter, r *http.Request) (*credentials, bool) {
	if err := r.ParseForm(); err != nil {
		sendStatus(w, a.logger, http.StatusBadRequest, wrapError(ErrBadAuthBody))
		return nil, false
	}
	username, password := r.PostFormValue("username"), r.PostFormValue("password")
	if username == "" || password == "" {
		sendStatus(w, a.logger, http.StatusBadRequest, wrapError(ErrBadAuthBody))
		return nil, false
	}
	if len(password) > maxPasswordBytes {
		sendStatus(w, a.logger, http.StatusBadRequest, wrapError(ErrBadPasswordTooLong))
		return nil, false
	}
	return &credentials{username, []byte(password)}, true
}

func (a *Auth) issue(w http.ResponseWriter, p *game.Player) {
	if err := a.cookies.Issue(w, config.NewPlayerClaims(p.PlayerID, p.Username, p.IsGuest)); err != nil {
		a.logger.Error("unable to issue cookies", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	sendJSONOrLog(w, a.logger, &Status{
		LoggedIn: !p.IsGuest,
		Player:   &PlayerInfo{p.PlayerID, p.Username, p.IsGuest},
	})
}

// Register creates an account. A guest caller keeps its id, and with it the
// current run and past scores.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := a.parseCredentials(w, r)
	if !ok {
		return
	}
	if n := utf8.RuneCountInString(creds.username); n < minUsername || n > maxUsername {
		sendStatus(w, a.logger, http.StatusBadRequest, wrapError(ErrBadUsername))
		return
	}

	hash, err := bcrypt.GenerateFromPassword(creds.password, bcrypt.DefaultCost)
	if err != nil {
		a.logger.Error("unable to hash password", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var guestID int64
	if claims, ok := middleware.PlayerClaims(r.Context()); ok && claims.IsGuest {
		guestID = claims.PlayerID
	}
	player, err := a.accounts.RegisterPlayer(r.Context(), guestID, creds.username, hash)
	if errors.Is(err, game.ErrUsernameTaken) {
		sendStatus(w, a.logger, http.StatusConflict, wrapError(err))
		return
	}
	if err != nil {
		a.logger.Error("unable to register player", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	a.logger.Info("registered player",
		slog.Int64("player_id", player.PlayerID), slog.Bool("from_guest", guestID != 0))
	a.issue(w, player)
}

func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := a.parseCredentials(w, r)
	if !ok {
		return
	}
	player, err := a.accounts.FetchPlayerByUsername(r.Context(), creds.username)
	if err != nil && !errors.Is(err, game.ErrPlayerNotFound) {
		a.logger.Error("unable to fetch player", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if player == nil || player.IsGuest ||
		bcrypt.CompareHashAndPassword(player.PasswordHash, creds.password) != nil {
		sendStatus(w, a.logger, http.StatusUnauthorized, wrapError(ErrInvalidCredentials))
		return
	}
	a.issue(w, player)
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
