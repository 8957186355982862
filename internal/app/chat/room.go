/*
Package chat contains the core logic of the single shared chat room.

This file defines the Room, which orchestrates the connection protocol:
connect, join, send, leave, disconnect. It drives the session Registry
and the History, and fans resulting events out to every attached
connection. Every handler body is fault-isolated; an internal fault is
logged and converted into a best-effort error notice to the originating
connection, never a crash.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"amazingchat/internal/app/responder"
	"amazingchat/internal/pkg/errs"
	"amazingchat/internal/pkg/logx"
)

// connectAckMessage acknowledges a freshly attached connection.
const connectAckMessage = "连接成功"

// Sender is the Room's view of one attached transport connection.
// Enqueue must not block: a slow or broken connection reports a
// per-connection delivery failure instead of stalling the fan-out.
type Sender interface {
	// ID returns the opaque connection identifier.
	ID() string

	// Enqueue queues an outbound payload for delivery.
	Enqueue(payload []byte) error

	// Close releases the connection's outbound queue.
	Close()
}

// Room is the single shared chat channel. It owns the session registry,
// the bounded message log, and the set of attached connections, and is
// constructed once at process start and passed by handle into every
// connection handler.
type Room struct {
	registry  *Registry
	history   *History
	responder responder.Responder

	// mu protects conns.
	mu    sync.RWMutex
	conns map[string]Sender

	logger zerolog.Logger
}

// NewRoom creates the room with an empty registry, an empty bounded
// history, and the given assistant responder.
func NewRoom(rsp responder.Responder) *Room {
	return &Room{
		registry:  NewRegistry(),
		history:   NewHistory(DefaultHistoryLimit),
		responder: rsp,
		conns:     make(map[string]Sender),
		logger:    logx.Logger().With().Str("component", "room").Logger(),
	}
}

// Connect attaches a new transport connection and acknowledges it.
// The connection has no identity until it joins.
func (r *Room) Connect(s Sender) {
	defer r.recoverHandler("connect", s.ID())

	r.mu.Lock()
	r.conns[s.ID()] = s
	total := len(r.conns)
	r.mu.Unlock()

	r.logger.Info().
		Str("conn_id", s.ID()).
		Int("total_conns", total).
		Msg("Connection attached.")

	r.sendTo(s.ID(), OutConnectAck, NoticePayload{Message: connectAckMessage})
}

// Join binds a display name to connID. A name held by a different
// connection is rebound and the superseded connection receives a kicked
// notice. The joiner gets the full history snapshot; everyone gets a
// user_joined announcement carrying the refreshed membership set and
// the welcome event.
func (r *Room) Join(connID, rawName string) {
	defer r.recoverHandler("join", connID)

	session, members, supersededConnID, joinErr := r.registry.Join(rawName, connID)
	if joinErr != nil {
		r.logger.Warn().
			Str("conn_id", connID).
			Str("raw_name", rawName).
			Msg("Join rejected: invalid display name.")

		r.sendError(connID, joinErr)
		return
	}

	if supersededConnID != "" {
		kicked := errs.NewError(errs.ErrSessionKicked)
		r.sendTo(supersededConnID, OutKicked, NoticePayload{Message: kicked.Message})
	}

	welcome := NewEvent(KindSystem, "", fmt.Sprintf("欢迎 %s 加入聊天室！", session.Name))
	r.history.Append(welcome)

	r.sendTo(connID, OutHistory, HistoryPayload{Messages: r.history.Snapshot()})

	r.broadcast(OutUserJoined, UserJoinedPayload{
		Username: session.Name,
		Users:    members,
		Message:  welcome,
	}, "")

	r.logger.Info().
		Str("username", session.Name).
		Str("conn_id", connID).
		Int("online", len(members)).
		Msg("User joined the room.")
}

// SendMessage handles a user message from connID. Messages from names
// with no active session are rejected with an error notice and cause no
// side effect. Whitespace-only bodies are silently dropped. Accepted
// messages are classified, appended to the history, and broadcast; an
// assistant question additionally produces an assistant reply.
func (r *Room) SendMessage(connID, username, body string) {
	defer r.recoverHandler("send_message", connID)

	name := NormalizeName(username)
	if r.registry.CheckAvailable(name) {
		r.logger.Warn().
			Str("conn_id", connID).
			Str("username", username).
			Msg("Rejected message from a name with no active session.")

		r.sendError(connID, errs.NewError(errs.ErrUnauthorized))
		return
	}

	event, ok := BuildUserEvent(name, body)
	if !ok {
		return
	}

	r.history.Append(event)
	r.broadcast(OutNewMessage, event, "")

	if event.Kind == KindAIChat {
		r.answerAssistant(connID, event.Special.Question)
	}
}

// answerAssistant forwards an extracted question to the Responder. The
// reply is logged and broadcast as a separate ai_reply event authored
// by the assistant identity. A responder failure instead produces a
// system error event delivered to the asking connection only.
func (r *Room) answerAssistant(connID, question string) {
	answer, err := r.responder.Answer(question)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("conn_id", connID).
			Msg("Assistant responder failed.")

		failure := NewEvent(KindSystem, "", errs.NewError(errs.ErrResponderUnavailable).Message)
		r.history.Append(failure)
		r.sendTo(connID, OutNewMessage, failure)
		return
	}

	reply := NewEvent(KindAIReply, AssistantName, answer)
	r.history.Append(reply)
	r.broadcast(OutNewMessage, reply, "")
}

// Leave removes username's session on explicit request. On success the
// refreshed membership is announced to everyone except the leaving
// connection; an absent name is a no-op with no broadcast.
func (r *Room) Leave(connID, username string) {
	defer r.recoverHandler("leave", connID)

	name := NormalizeName(username)

	removed, members := r.registry.Leave(name)
	if !removed {
		r.logger.Warn().
			Str("conn_id", connID).
			Str("username", username).
			Msg("Leave ignored: no active session for name.")
		return
	}

	r.broadcast(OutUserLeft, UserLeftPayload{Username: name, Users: members}, connID)

	r.logger.Info().
		Str("username", name).
		Str("conn_id", connID).
		Int("online", len(members)).
		Msg("User left the room.")
}

// Disconnect detaches connID and removes its session, if one is bound.
// The removal is keyed by connection because the transport event carries
// no display name; racing an explicit leave for the same name is safe,
// the second removal being a no-op.
func (r *Room) Disconnect(connID string) {
	defer r.recoverHandler("disconnect", "")

	r.mu.Lock()
	delete(r.conns, connID)
	total := len(r.conns)
	r.mu.Unlock()

	r.logger.Info().
		Str("conn_id", connID).
		Int("total_conns", total).
		Msg("Connection detached.")

	name, removed, members := r.registry.LeaveByConnection(connID)
	if !removed {
		return
	}

	r.broadcast(OutUserLeft, UserLeftPayload{Username: name, Users: members}, "")

	r.logger.Info().
		Str("username", name).
		Str("conn_id", connID).
		Int("online", len(members)).
		Msg("User removed after transport disconnect.")
}

// CheckAvailable reports whether the normalized form of name is free.
// Exposed for the pre-join availability endpoint.
func (r *Room) CheckAvailable(name string) bool {
	return r.registry.CheckAvailable(name)
}

// OnlineCount returns the number of active sessions, for the health probe.
func (r *Room) OnlineCount() int {
	return r.registry.Count()
}

// HistoryCount returns the number of retained events, for the health probe.
func (r *Room) HistoryCount() int {
	return r.history.Len()
}

// Shutdown closes the outbound queue of every attached connection.
// Transport teardown itself belongs to the HTTP server shutdown.
func (r *Room) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.conns {
		s.Close()
		delete(r.conns, id)
	}

	r.logger.Info().Msg("Room shutdown complete.")
}

// sendTo delivers one envelope to a single connection. A missing or
// failing connection is a logged diagnostic, never an error to the
// caller.
func (r *Room) sendTo(connID, event string, data any) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("event", event).
			Msg("Failed to marshal outbound envelope.")
		return
	}

	r.mu.RLock()
	s, ok := r.conns[connID]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn().
			Str("conn_id", connID).
			Str("event", event).
			Msg("Point-to-point delivery skipped: connection not attached.")
		return
	}

	if err := s.Enqueue(payload); err != nil {
		r.logger.Warn().
			Err(err).
			Str("conn_id", connID).
			Str("event", event).
			Msg("Point-to-point delivery failed.")
	}
}

// sendError delivers a point-to-point error notice.
func (r *Room) sendError(connID string, customErr *errs.CustomError) {
	r.sendTo(connID, OutError, ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

// broadcast fans one envelope out to every attached connection except
// excludeConnID. The envelope is marshaled once; targets are snapshotted
// under the read lock and enqueued without it, so one slow connection
// cannot stall the others. Per-connection failures are logged and
// otherwise ignored.
func (r *Room) broadcast(event string, data any, excludeConnID string) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("event", event).
			Msg("Failed to marshal broadcast envelope.")
		return
	}

	r.mu.RLock()
	targets := make([]Sender, 0, len(r.conns))
	for id, s := range r.conns {
		if id != excludeConnID {
			targets = append(targets, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range targets {
		if err := s.Enqueue(payload); err != nil {
			r.logger.Warn().
				Err(err).
				Str("conn_id", s.ID()).
				Str("event", event).
				Msg("Broadcast delivery failed for connection.")
		}
	}
}

// recoverHandler is deferred by every protocol handler. It converts an
// internal panic into a log entry plus a best-effort error notice to
// the originating connection, keeping the fault from terminating the
// connection or the process.
func (r *Room) recoverHandler(op, connID string) {
	if p := recover(); p != nil {
		r.logger.Error().
			Interface("panic", p).
			Str("op", op).
			Msg("Recovered from panic in event handler.")

		if connID != "" {
			r.sendError(connID, errs.NewError(errs.ErrUnknown))
		}
	}
}
