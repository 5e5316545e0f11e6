package middleware

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/rs/cors"
)

// Cors allows the origins listed in CORS_ALLOWED_ORIGINS, or any origin when
// the variable is unset. Credentials are always allowed since identity rides
// on cookies.
func Cors() Middleware {
	allowed := func(string) bool { return true }
	if list := os.Getenv("CORS_ALLOWED_ORIGINS"); list != "" {
		origins := strings.Split(list, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		allowed = func(origin string) bool { return slices.Contains(origins, origin) }
	}
	options := cors.Options{
		AllowOriginFunc: allowed,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
