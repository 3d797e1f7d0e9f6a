// Package coretest provides an in-memory SignalConnection for tests.
package coretest

import (
	"sync"

	"github.com/dkeye/Helpline/internal/core"
)

type Conn struct {
	id core.ConnID

	mu       sync.Mutex
	frames   []core.Frame
	closed   bool
	failWith error
}

func NewConn(id string) *Conn {
	return &Conn{id: core.ConnID(id)}
}

func (c *Conn) ID() core.ConnID { return c.id }

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.failWith != nil {
		return c.failWith
	}
	c.frames = append(c.frames, append(core.Frame(nil), f...))
	return nil
}

func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// FailWith makes every following TrySend return err.
func (c *Conn) FailWith(err error) {
	c.mu.Lock()
	c.failWith = err
	c.mu.Unlock()
}

func (c *Conn) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Frame(nil), c.frames...)
}
