package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/core"
	"github.com/dkeye/Helpline/internal/domain"
)

// RoomManagerImpl implements core.SessionRegistry. A room exists exactly
// while it has at least one member.
type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager() *RoomManagerImpl {
	return &RoomManagerImpl{rooms: make(map[domain.RoomID]core.RoomService)}
}

var _ core.SessionRegistry = (*RoomManagerImpl)(nil)

func (f *RoomManagerImpl) Join(id domain.RoomID, conn core.SignalConnection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		room = core.NewRoomService(&domain.Room{ID: id})
		f.rooms[id] = room
		log.Info().Str("module", "app.rooms").Str("room_id", string(id)).Msg("room created")
	}
	room.AddMember(conn)
}

func (f *RoomManagerImpl) Leave(id domain.RoomID, conn core.SignalConnection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return
	}
	room.RemoveMember(conn.ID())
	if room.MemberCount() == 0 {
		delete(f.rooms, id)
		log.Info().Str("module", "app.rooms").Str("room_id", string(id)).Msg("room removed (empty)")
	}
}

// Dispatch fans data out to everyone in the room but the sender. A missing
// room is not an error; nothing is delivered.
func (f *RoomManagerImpl) Dispatch(id domain.RoomID, from core.SignalConnection, data core.Frame) core.PublishResult {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if !ok {
		return core.PublishResult{}
	}
	return room.Broadcast(from.ID(), data)
}

func (f *RoomManagerImpl) Room(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: r.MemberCount()})
	}
	return out
}
