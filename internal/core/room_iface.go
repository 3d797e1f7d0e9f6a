package core

import (
	"github.com/dkeye/Helpline/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Skipped int
	Dropped []SignalConnection
}

type RoomInfo struct {
	ID          domain.RoomID `json:"room_id"`
	MemberCount int           `json:"member_count"`
}

// RoomService is the membership set of one room.
// It never touches transport resources beyond TrySend.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	Members() []SignalConnection

	AddMember(conn SignalConnection) bool
	RemoveMember(id ConnID) bool
	Broadcast(from ConnID, data Frame) PublishResult
}

// SessionRegistry maps room ids to live relay connections.
type SessionRegistry interface {
	Join(room domain.RoomID, conn SignalConnection)
	Leave(room domain.RoomID, conn SignalConnection)
	Dispatch(room domain.RoomID, from SignalConnection, data Frame) PublishResult
	Room(room domain.RoomID) (RoomService, bool)
	List() []RoomInfo
}
