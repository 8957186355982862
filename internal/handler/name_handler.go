/*
Package handler provides the HTTP handlers and routing setup for the
Amazing Chat server.

This file contains the display-name availability query used by the
login page to hint before joining. It is independent of the live
connection protocol.
*/
package handler

import (
	"net/http"

	"amazingchat/internal/pkg/req"
	"amazingchat/internal/pkg/resp"
)

// CheckUsernameInput is the POST body of the availability query.
type CheckUsernameInput struct {
	Username string `json:"username"`
}

// CheckUsernameResult is the availability query response payload.
type CheckUsernameResult struct {
	Taken     bool   `json:"taken"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// HandleCheckUsername reports whether a display name is currently free.
// GET passes the name as a query parameter; POST as a JSON body.
func HandleCheckUsername(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var username string

		if r.Method == http.MethodPost {
			var input CheckUsernameInput
			if customErr := req.BindJSON(r, &input); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			username = input.Username
		} else {
			username = r.URL.Query().Get("username")
		}

		available := deps.Room.CheckAvailable(username)

		message := "用户名可用"
		if !available {
			message = "用户名已被使用"
		}

		resp.RespondSuccess(w, r, CheckUsernameResult{
			Taken:     !available,
			Available: available,
			Message:   message,
		})
	}
}
