/*
Package handler provides the HTTP handlers and routing setup for the
Amazing Chat server.

This file contains the WebSocket endpoint: rate limiting, upgrading the
HTTP connection, attaching the connection to the room, and running the
client pumps.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"amazingchat/internal/app/chat"
	"amazingchat/internal/pkg/errs"
	"amazingchat/internal/pkg/limiter"
	"amazingchat/internal/pkg/logx"
	"amazingchat/internal/pkg/resp"
)

// HandleWebSocket creates the HandlerFunc that accepts WebSocket
// connections. The connection enters the room with no identity; the
// client binds a display name later with a join event.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Room, conn)

		go client.WritePump()

		deps.Room.Connect(client)

		logx.Info("WebSocket connection established", "conn_id", client.ID())

		client.ReadPump()
	}
}
