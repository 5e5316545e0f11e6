package config

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed token")

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

type PlayerClaims struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	IsGuest  bool   `json:"is_guest"`
	jwt.RegisteredClaims
}

func NewPlayerClaims(playerID int64, username string, guest bool) *PlayerClaims {
	return &PlayerClaims{
		PlayerID: playerID,
		Username: username,
		IsGuest:  guest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(playerID, 10),
		},
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

// NewCookies reads the COOKIES_* variables. Unset, cookies are host-only,
// secure and strict.
func NewCookies(j *JWT) (*Cookies, error) {
	if j == nil {
		return nil, errors.New("cookies need a JWT config")
	}
	secure := true
	if s, ok := os.LookupEnv("COOKIES_SECURE"); ok {
		secure = s != "0"
	}
	return &Cookies{
		Domain:   os.Getenv("COOKIES_DOMAIN"),
		Secure:   secure,
		SameSite: parseSameSite(os.Getenv("COOKIES_SAMESITE")),
		jwt:      j,
	}, nil
}

func (c *Cookies) cookie(name, value string, expires time.Time, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		Expires:  expires,
		HttpOnly: httpOnly,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{"auth", "sign"} {
		cookie := c.cookie(name, "delete", time.Time{}, name == "sign")
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

// Refresh splits token so that the signature sits in an HttpOnly cookie and
// the claims stay readable by the client.
func (c *Cookies) Refresh(w http.ResponseWriter, token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrMalformedToken
	}
	expires := time.Now().Add(c.jwt.tokenLifetime)
	http.SetCookie(w, c.cookie("auth", parts[0]+"."+parts[1], expires, false))
	http.SetCookie(w, c.cookie("sign", parts[2], expires, true))
	return nil
}

// Issue signs claims and sets them on w.
func (c *Cookies) Issue(w http.ResponseWriter, claims *PlayerClaims) error {
	token, err := c.jwt.Issue(claims)
	if err != nil {
		return err
	}
	return c.Refresh(w, token)
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	authCookie, err := r.Cookie("auth")
	if err != nil {
		return nil, err
	}
	signCookie, err := r.Cookie("sign")
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(
		authCookie.Value+"."+signCookie.Value, &PlayerClaims{},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok || claims.PlayerID == 0 {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
