package signal

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/core"
	"github.com/dkeye/Helpline/internal/domain"
)

const writeWait = 5 * time.Second

// pongWait allows one missed ping before the peer is considered gone.
func (ctl *SignalWSController) pongWait() time.Duration {
	return 2 * ctl.cfg.PingPeriod
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn_id", string(c.ID())).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("conn_id", string(c.ID())).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn_id", string(c.ID())).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn_id", string(c.ID())).Msg("ping failed")
				return
			}
		}
	}
}

// readPump owns teardown: when the socket stops reading, the connection leaves
// its room before it is closed.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, roomID domain.RoomID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn_id", string(c.ID())).Str("room_id", string(roomID)).Msg("readPump closing")
		ctl.Orch.Detach(roomID, c)
		cancel()
		c.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("module", "signal").Str("conn_id", string(c.ID())).Msg("readPump read error")
			}
			return
		}
		if mt != websocket.TextMessage {
			log.Debug().Str("module", "signal").Str("conn_id", string(c.ID())).Int("type", mt).Msg("non-text frame ignored")
			continue
		}
		ctl.Orch.OnFrame(roomID, c, core.Frame(data))
	}
}
