// Package orch glues relay transports to match and room state.
package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/app"
	"github.com/dkeye/Helpline/internal/app/match"
	"github.com/dkeye/Helpline/internal/core"
	"github.com/dkeye/Helpline/internal/domain"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.SessionRegistry
	Policy   app.Policy
	Match    *match.Coordinator
}

// OnFrame relays data from one member to the rest of its room. Delivery
// failures are handed to Policy and never reported back to the sender.
func (o *Orchestrator) OnFrame(roomID domain.RoomID, from core.SignalConnection, data core.Frame) core.PublishResult {
	res := o.Rooms.Dispatch(roomID, from, data)
	if o.Policy == nil || len(res.Dropped) == 0 {
		return res
	}
	room, ok := o.Rooms.Room(roomID)
	if !ok {
		return res
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			log.Warn().Str("module", "app.orch").Str("room_id", string(roomID)).Str("conn_id", string(slow.ID())).Msg("kicking slow member")
			o.Rooms.Leave(roomID, slow)
			slow.Close()
		case app.DropFrame, app.NoAction:
		}
	}
	return res
}
