package app_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Helpline/internal/app"
	"github.com/dkeye/Helpline/internal/core"
	"github.com/dkeye/Helpline/internal/core/coretest"
	"github.com/dkeye/Helpline/internal/domain"
)

func TestRoomManager_RelayIsolation(t *testing.T) {
	rm := app.NewRoomManager()
	a, b := coretest.NewConn("a"), coretest.NewConn("b")
	other := coretest.NewConn("other")
	rm.Join("r1", a)
	rm.Join("r1", b)
	rm.Join("r2", other)

	res := rm.Dispatch("r1", a, core.Frame("sdp"))

	assert.Equal(t, 1, res.SendTo)
	assert.Equal(t, []core.Frame{core.Frame("sdp")}, b.Frames())
	assert.Empty(t, a.Frames())
	assert.Empty(t, other.Frames())
}

func TestRoomManager_JoinIsIdempotent(t *testing.T) {
	rm := app.NewRoomManager()
	a, b := coretest.NewConn("a"), coretest.NewConn("b")
	rm.Join("r1", a)
	rm.Join("r1", a)
	rm.Join("r1", b)

	rm.Dispatch("r1", b, core.Frame("once"))

	assert.Len(t, a.Frames(), 1)
	room, ok := rm.Room("r1")
	require.True(t, ok)
	assert.Equal(t, 2, room.MemberCount())
}

func TestRoomManager_LastLeaveRemovesRoom(t *testing.T) {
	rm := app.NewRoomManager()
	a, b := coretest.NewConn("a"), coretest.NewConn("b")
	rm.Join("r1", a)
	rm.Join("r1", b)

	rm.Leave("r1", a)
	_, ok := rm.Room("r1")
	assert.True(t, ok)

	rm.Leave("r1", b)
	_, ok = rm.Room("r1")
	assert.False(t, ok)
	assert.Empty(t, rm.List())

	// Reusing the former id starts from an empty room.
	c := coretest.NewConn("c")
	rm.Join("r1", c)
	room, ok := rm.Room("r1")
	require.True(t, ok)
	assert.Equal(t, 1, room.MemberCount())
	res := rm.Dispatch("r1", c, core.Frame("hi"))
	assert.Equal(t, 0, res.SendTo)
	assert.Empty(t, a.Frames())
	assert.Empty(t, b.Frames())
}

func TestRoomManager_LeaveUnknownIsNoop(t *testing.T) {
	rm := app.NewRoomManager()
	rm.Leave("missing", coretest.NewConn("a"))
	assert.Empty(t, rm.List())
}

func TestRoomManager_DispatchToMissingRoom(t *testing.T) {
	rm := app.NewRoomManager()
	res := rm.Dispatch("missing", coretest.NewConn("a"), core.Frame("x"))
	assert.Equal(t, core.PublishResult{}, res)
}

func TestRoomManager_List(t *testing.T) {
	rm := app.NewRoomManager()
	rm.Join("r1", coretest.NewConn("a"))
	rm.Join("r1", coretest.NewConn("b"))
	rm.Join("r2", coretest.NewConn("c"))

	counts := map[string]int{}
	for _, info := range rm.List() {
		counts[string(info.ID)] = info.MemberCount
	}
	assert.Equal(t, map[string]int{"r1": 2, "r2": 1}, counts)
}

func TestRoomManager_ConcurrentJoinLeave(t *testing.T) {
	rm := app.NewRoomManager()
	anchor := coretest.NewConn("anchor")
	rm.Join("r", anchor)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		c := coretest.NewConn(fmt.Sprintf("c%d", i))
		go func() {
			defer wg.Done()
			rm.Join("r", c)
			rm.Dispatch("r", c, core.Frame("ping"))
			rm.Leave("r", c)
		}()
		go func(i int) {
			defer wg.Done()
			tmp := coretest.NewConn(fmt.Sprintf("t%d", i))
			id := domain.RoomID(fmt.Sprintf("tmp-%d", i))
			rm.Join(id, tmp)
			rm.Leave(id, tmp)
		}(i)
	}
	wg.Wait()

	require.Len(t, rm.List(), 1)
	assert.Len(t, anchor.Frames(), 100)
}

func TestRegistry_BindAndCancelAll(t *testing.T) {
	reg := app.NewRegistry()
	a := coretest.NewConn("a")
	canceled := false
	reg.Bind("r1", a, func() { canceled = true })

	room, ok := reg.RoomOf(a.ID())
	require.True(t, ok)
	assert.Equal(t, "r1", string(room))
	assert.Equal(t, 1, reg.Count())

	assert.Equal(t, 1, reg.CancelAll())
	assert.True(t, canceled)
	assert.True(t, a.IsClosed())

	reg.Unbind(a.ID())
	_, ok = reg.RoomOf(a.ID())
	assert.False(t, ok)
}

func TestParsePolicy(t *testing.T) {
	p, err := app.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, app.DropFrame, p.OnBackPressure(nil, nil))

	p, err = app.ParsePolicy("kick")
	require.NoError(t, err)
	assert.Equal(t, app.KickMember, p.OnBackPressure(nil, nil))

	_, err = app.ParsePolicy("explode")
	assert.Error(t, err)
}
