package orch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/core"
	"github.com/dkeye/Helpline/internal/domain"
)

// Attach moves a freshly established connection into its room.
func (o *Orchestrator) Attach(roomID domain.RoomID, conn core.SignalConnection, cancel context.CancelFunc) {
	if o.Registry != nil {
		o.Registry.Bind(roomID, conn, cancel)
	}
	o.Rooms.Join(roomID, conn)
	log.Info().Str("module", "app.orch").Str("conn_id", string(conn.ID())).Str("room_id", string(roomID)).Msg("attached")
}

// Detach is the synchronous part of connection teardown. It is safe to call
// more than once.
func (o *Orchestrator) Detach(roomID domain.RoomID, conn core.SignalConnection) {
	o.Rooms.Leave(roomID, conn)
	if o.Registry != nil {
		o.Registry.Unbind(conn.ID())
	}
	log.Info().Str("module", "app.orch").Str("conn_id", string(conn.ID())).Str("room_id", string(roomID)).Msg("detached")
}

// Shutdown cancels every live relay session.
func (o *Orchestrator) Shutdown() {
	if o.Registry != nil {
		o.Registry.CancelAll()
	}
}
