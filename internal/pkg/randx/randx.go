/*
Package randx generates the unique identifiers used across the chat server.

Connection IDs name one live WebSocket transport for the lifetime of the
socket; event IDs name one entry in the shared message log. Both are
standard UUID v4 strings.
*/
package randx

import "github.com/google/uuid"

// ConnectionID generates the opaque identifier assigned to a WebSocket
// connection when it is accepted. Sessions are rebound to a new
// ConnectionID when the same display name reconnects.
func ConnectionID() string {
	return uuid.New().String()
}

// EventID generates the unique identifier for a chat event.
func EventID() string {
	return uuid.New().String()
}
