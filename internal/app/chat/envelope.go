/*
Package chat contains the core logic of the single shared chat room.

This file defines the wire envelopes exchanged with clients: the inbound
and outbound event names and the payload shapes listed in the protocol
table.
*/
package chat

// Inbound event names (client to server).
const (
	InJoin        = "join"
	InSendMessage = "send_message"
	InLeave       = "leave"
)

// Outbound event names (server to client).
const (
	OutConnectAck = "connect_ack"
	OutHistory    = "history"
	OutUserJoined = "user_joined"
	OutUserLeft   = "user_left"
	OutNewMessage = "new_message"
	OutKicked     = "kicked"
	OutError      = "error"
)

// Envelope is the frame wrapping every message on the wire.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// JoinPayload is the inbound payload for join and leave events.
type JoinPayload struct {
	Username string `json:"username"`
}

// SendMessagePayload is the inbound payload for send_message events.
type SendMessagePayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// NoticePayload carries a single human-readable message
// (connect_ack and kicked events).
type NoticePayload struct {
	Message string `json:"message"`
}

// HistoryPayload replays the log snapshot to a newly joined client.
type HistoryPayload struct {
	Messages []ChatEvent `json:"messages"`
}

// UserJoinedPayload announces a join together with the refreshed
// membership set and the welcome event.
type UserJoinedPayload struct {
	Username string    `json:"username"`
	Users    []string  `json:"users"`
	Message  ChatEvent `json:"message"`
}

// UserLeftPayload announces a departure with the refreshed membership set.
type UserLeftPayload struct {
	Username string   `json:"username"`
	Users    []string `json:"users"`
}

// ErrorPayload is the point-to-point error notice.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
