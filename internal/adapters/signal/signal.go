package signal

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/app/orch"
	"github.com/dkeye/Helpline/internal/config"
	"github.com/dkeye/Helpline/internal/core"
	"github.com/dkeye/Helpline/internal/domain"
)

// RoomParam names the query parameter that binds a connection to a room.
const RoomParam = "roomId"

type connState int32

const (
	stateConnecting connState = iota
	stateJoined
	stateClosed
)

type SignalWSController struct {
	Orch     *orch.Orchestrator
	cfg      config.RelayConfig
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, cfg config.RelayConfig) *SignalWSController {
	return &SignalWSController{
		Orch: o,
		cfg:  cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type WsSignalConn struct {
	id    core.ConnID
	conn  *websocket.Conn
	send  chan core.Frame
	state atomic.Int32

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		id:   core.ConnID(uuid.NewString()),
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) ID() core.ConnID { return c.id }

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) IsClosed() bool {
	return connState(c.state.Load()) == stateClosed
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.state.Store(int32(stateClosed))
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (c *WsSignalConn) markJoined() {
	c.state.CompareAndSwap(int32(stateConnecting), int32(stateJoined))
}

// HandleSignal upgrades a request carrying ?roomId= and wires the socket into
// that room. Requests without a room id never reach the upgrade.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	roomID := domain.RoomID(strings.TrimSpace(c.Query(RoomParam)))
	if roomID == "" {
		log.Warn().Str("module", "signal").Str("remote", c.ClientIP()).Msg("connection without roomId rejected")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "roomId query parameter is required"})
		return
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := newWsSignalConn(ws, ctl.cfg.SendBuffer)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Attach(roomID, conn, cancel)
	conn.markJoined()
	log.Info().Str("module", "signal").Str("conn_id", string(conn.ID())).Str("room_id", string(roomID)).Msg("new WS connection")

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, roomID, conn)
}
