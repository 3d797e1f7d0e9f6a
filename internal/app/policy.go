package app

import (
	"fmt"

	"github.com/dkeye/Helpline/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a recipient a broadcast could not reach.
type Policy interface {
	OnBackPressure(room core.RoomService, member core.SignalConnection) BackpressureAction
}

// SimplePolicy applies the same action to every dropped recipient.
type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(core.RoomService, core.SignalConnection) BackpressureAction {
	return p.Action
}

// ParsePolicy maps the relay.backpressure config value.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return SimplePolicy{Action: DropFrame}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	}
	return nil, fmt.Errorf("unknown backpressure policy %q", name)
}
