package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/core"
	"github.com/dkeye/Helpline/internal/domain"
)

type sessionEntry struct {
	RoomID domain.RoomID
	Conn   core.SignalConnection
	Cancel context.CancelFunc
}

// Registry tracks every live relay connection, independent of rooms, so the
// process can tear them all down on shutdown.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.ConnID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.ConnID]*sessionEntry),
	}
}

func (r *Registry) Bind(room domain.RoomID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[conn.ID()] = &sessionEntry{RoomID: room, Conn: conn, Cancel: cancel}
	log.Debug().Str("module", "app.registry").Str("conn_id", string(conn.ID())).Str("room_id", string(room)).Msg("bound session")
}

func (r *Registry) Unbind(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	log.Debug().Str("module", "app.registry").Str("conn_id", string(id)).Msg("unbind session")
}

func (r *Registry) RoomOf(id core.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	return e.RoomID, true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CancelAll stops every bound session. Entries are removed by the sessions
// themselves during teardown.
func (r *Registry) CancelAll() int {
	r.mu.RLock()
	entries := make([]*sessionEntry, 0, len(r.sessions))
	for _, e := range r.sessions {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	for _, e := range entries {
		if e.Cancel != nil {
			e.Cancel()
		}
		e.Conn.Close()
	}
	log.Info().Str("module", "app.registry").Int("sessions", len(entries)).Msg("canceled all sessions")
	return len(entries)
}
