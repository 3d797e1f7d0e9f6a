package core

import (
	"maps"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room    *domain.Room
	mu      sync.RWMutex
	members map[ConnID]SignalConnection
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:    room,
		members: make(map[ConnID]SignalConnection),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// AddMember reports false when the connection is already a member.
func (r *roomImpl) AddMember(conn SignalConnection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[conn.ID()]; ok {
		return false
	}
	r.members[conn.ID()] = conn
	log.Info().Str("module", "core.room").Str("room_id", string(r.room.ID)).Str("conn_id", string(conn.ID())).Int("size", len(r.members)).Msg("member added")
	return true
}

func (r *roomImpl) RemoveMember(id ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	log.Info().Str("module", "core.room").Str("room_id", string(r.room.ID)).Str("conn_id", string(id)).Int("size", len(r.members)).Msg("member removed")
	return true
}

func (r *roomImpl) Members() []SignalConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SignalConnection, 0, len(r.members))
	for _, c := range r.members {
		out = append(out, c)
	}
	return out
}

// Broadcast sends to a snapshot of the membership taken at call time, so
// joins and leaves during the fan-out neither block nor race with it.
func (r *roomImpl) Broadcast(from ConnID, data Frame) PublishResult {
	r.mu.RLock()
	snapshot := maps.Clone(r.members)
	r.mu.RUnlock()

	res := PublishResult{}
	for id, m := range snapshot {
		if id == from {
			continue
		}
		if m.IsClosed() {
			res.Skipped++
			continue
		}
		if err := m.TrySend(data); err != nil {
			log.Warn().Err(err).Str("module", "core.room").Str("room_id", string(r.room.ID)).Str("conn_id", string(id)).Msg("delivery failed")
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room_id", string(r.room.ID)).Str("from", string(from)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
