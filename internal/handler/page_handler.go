/*
Package handler provides the HTTP handlers and routing setup for the
Amazing Chat server.

This file renders the login and chat pages from embedded templates.
These are thin wrappers; the pages talk to the server over the
WebSocket protocol and the JSON endpoints.
*/
package handler

import (
	"embed"
	"html/template"
	"net/http"

	"amazingchat/internal/app/chat"
	"amazingchat/internal/configs"
	"amazingchat/internal/pkg/logx"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// loginPageData feeds the login template.
type loginPageData struct {
	Servers []configs.ServerEntry
}

// chatPageData feeds the chat template.
type chatPageData struct {
	Username string
	Server   string
}

// HandleLoginPage renders the login page with the selectable server list.
func HandleLoginPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, "login.html", loginPageData{Servers: deps.Servers})
	}
}

// HandleChatPage renders the chat page. The username is normalized the
// same way the join handler will normalize it; an empty result sends
// the visitor back to the login page.
func HandleChatPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chat.NormalizeName(r.URL.Query().Get("username"))
		if username == "" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		renderPage(w, "chat.html", chatPageData{
			Username: username,
			Server:   r.URL.Query().Get("server"),
		})
	}
}

func renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		logx.Error(err, "Failed to render page template", "template", name)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}
