/*
Package chat contains the core logic of the single shared chat room.

This file defines the session Registry, which binds each display name to
exactly one live connection. It resolves name collisions by rebinding
the name to the newest connection (last join wins) and supports removal
both by name and by connection, since transport disconnects carry no
display name.
*/
package chat

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"amazingchat/internal/pkg/errs"
	"amazingchat/internal/pkg/logx"
)

// MaxNameRunes caps the length of a display name before filtering.
const MaxNameRunes = 30

// Session binds a display name to one live connection.
type Session struct {
	// Name is the normalized display name, unique among active sessions.
	Name string

	// ConnID identifies the current live transport connection.
	// It is reassigned in place when the same name reconnects.
	ConnID string

	// JoinedAt is the time of the most recent join.
	JoinedAt time.Time
}

// Registry is the concurrent map of active sessions, keyed by name.
// All mutations and the membership snapshots feeding broadcasts happen
// inside a single critical section per operation.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   zerolog.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logx.Logger().With().Str("component", "registry").Logger(),
	}
}

// NormalizeName cleans a raw display name: trim surrounding whitespace,
// cap at MaxNameRunes runes, then keep only ASCII alphanumerics, spaces,
// underscores, and CJK ideographs (U+4E00..U+9FA5).
func NormalizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)

	runes := []rune(trimmed)
	if len(runes) > MaxNameRunes {
		runes = runes[:MaxNameRunes]
	}

	var b strings.Builder
	for _, r := range runes {
		if isAllowedNameRune(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isAllowedNameRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r == ' ' || r == '_':
		return true
	case r >= 0x4E00 && r <= 0x9FA5:
		return true
	default:
		return false
	}
}

// CheckAvailable reports whether no active session holds the normalized
// form of name. Pure read, no side effect.
func (reg *Registry) CheckAvailable(name string) bool {
	normalized := NormalizeName(name)

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	_, taken := reg.sessions[normalized]
	return !taken
}

// Join registers name under connID and returns the resulting session, a
// membership snapshot taken in the same critical section, and the
// connection superseded by this join ("" when none).
//
// A name already bound to a different connection is rebound: the prior
// connection is reported as superseded and must be notified by the
// caller. Rejoining from the same connection refreshes the session and
// supersedes nothing.
func (reg *Registry) Join(name, connID string) (Session, []string, string, *errs.CustomError) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Session{}, nil, "", errs.NewError(errs.ErrInvalidName)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	supersededConnID := ""

	if existing, ok := reg.sessions[normalized]; ok {
		if existing.ConnID != connID {
			supersededConnID = existing.ConnID
			reg.logger.Info().
				Str("username", normalized).
				Str("old_conn_id", existing.ConnID).
				Str("new_conn_id", connID).
				Msg("User rejoined from a new connection. Superseding old session.")
		} else {
			reg.logger.Warn().
				Str("username", normalized).
				Str("conn_id", connID).
				Msg("User rejoined from the same connection.")
		}
	}

	session := &Session{
		Name:     normalized,
		ConnID:   connID,
		JoinedAt: time.Now(),
	}
	reg.sessions[normalized] = session

	return *session, reg.membersLocked(), supersededConnID, nil
}

// Leave removes the session for name if present and reports whether a
// removal occurred. Removing an absent name is a safe no-op.
func (reg *Registry) Leave(name string) (removed bool, members []string) {
	normalized := NormalizeName(name)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.sessions[normalized]; !ok {
		return false, reg.membersLocked()
	}

	delete(reg.sessions, normalized)
	return true, reg.membersLocked()
}

// LeaveByConnection removes the session bound to connID, if any, and
// returns the removed name. Used on transport disconnect, which carries
// no display name. A connection with no bound session is a safe no-op,
// which also covers a disconnect racing an explicit leave.
func (reg *Registry) LeaveByConnection(connID string) (name string, removed bool, members []string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for n, session := range reg.sessions {
		if session.ConnID == connID {
			delete(reg.sessions, n)
			return n, true, reg.membersLocked()
		}
	}

	return "", false, reg.membersLocked()
}

// Members returns a sorted snapshot of active display names.
func (reg *Registry) Members() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return reg.membersLocked()
}

// Count returns the number of active sessions.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.sessions)
}

// membersLocked builds the sorted membership snapshot.
// Callers must hold reg.mu.
func (reg *Registry) membersLocked() []string {
	members := make([]string, 0, len(reg.sessions))
	for name := range reg.sessions {
		members = append(members, name)
	}
	sort.Strings(members)
	return members
}
