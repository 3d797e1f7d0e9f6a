package core

import "errors"

// Frame is an opaque payload relayed between room members.
type Frame []byte

type ConnID string

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	ID() ConnID
	// TrySend must not block; it enqueues or fails.
	TrySend(Frame) error
	IsClosed() bool
	Close()
}
