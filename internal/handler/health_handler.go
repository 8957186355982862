/*
Package handler provides the HTTP handlers and routing setup for the
Amazing Chat server.

This file contains the liveness probe: a read-only snapshot of the
room's counters with no core logic of its own.
*/
package handler

import (
	"net/http"
	"time"

	"amazingchat/internal/pkg/resp"
)

// HealthResponse is the JSON body of the /health endpoint.
type HealthResponse struct {
	Status       string `json:"status"`
	OnlineUsers  int    `json:"online_users"`
	HistoryCount int    `json:"history_count"`
	Timestamp    string `json:"timestamp"`
}

// HandleHealth reports the server's liveness together with the current
// online-user and history counters.
func HandleHealth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondJSON(w, r, http.StatusOK, HealthResponse{
			Status:       "healthy",
			OnlineUsers:  deps.Room.OnlineCount(),
			HistoryCount: deps.Room.HistoryCount(),
			Timestamp:    time.Now().Format(time.RFC3339),
		})
	}
}
