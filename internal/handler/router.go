/*
Package handler provides the HTTP handlers and routing setup for the
Amazing Chat server.

This file defines the main Router, applying middleware like logging,
CORS, and IP-based rate limiting before delegating requests to specific
handlers (pages, availability query, health probe, and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"amazingchat/internal/pkg/limiter"
	"amazingchat/internal/pkg/logx"
)

const (
	// ConnectRate limits how often one IP may open a WebSocket connection.
	ConnectRate  = 0.2
	ConnectBurst = 5
)

// Router sets up the application's HTTP routing table (chi.Router).
// It configures CORS from the allowed origins, applies the global
// middleware stack, and wires every endpoint to its handler.
func Router(deps *AppDeps) http.Handler {
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/", HandleLoginPage(deps))
	r.Get("/chat", HandleChatPage(deps))

	r.Get("/check_username", HandleCheckUsername(deps))
	r.Post("/check_username", HandleCheckUsername(deps))

	r.Get("/health", HandleHealth(deps))

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	// Unknown paths land back on the login page, like any stale chat link.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	return r
}
