// Package signal is the WebSocket transport adapter for the relay: it owns
// the sockets, pumps frames in and out, and hands decoded operations to the
// coordinator.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/app"
	"github.com/mvoronin/huddle/internal/config"
	"github.com/mvoronin/huddle/internal/core"
	"github.com/mvoronin/huddle/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Coord *app.Coordinator
	Cfg   *config.Config
}

func NewController(cfg *config.Config, coord *app.Coordinator) *Controller {
	return &Controller{Coord: coord, Cfg: cfg}
}

// wsConn implements core.SignalConnection over a gorilla socket. Writes go
// through the buffered send channel so one stalled peer never blocks the
// coordinator; Ping uses WriteControl, which gorilla allows concurrently
// with the write pump.
type wsConn struct {
	conn         *websocket.Conn
	send         chan core.Frame
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Ping() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *wsConn) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// session tracks what the relay knows about one socket: nothing before
// join-room, then the participant identity it is bound to.
type session struct {
	conn *wsConn

	mu     sync.RWMutex
	pid    domain.ParticipantID
	handle domain.RoomHandle
}

func (s *session) bind(pid domain.ParticipantID, handle domain.RoomHandle) {
	s.mu.Lock()
	s.pid = pid
	s.handle = handle
	s.mu.Unlock()
}

func (s *session) participant() (domain.ParticipantID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pid, s.pid != ""
}

func (s *session) identity() (domain.ParticipantID, domain.RoomHandle) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pid, s.handle
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("remote", ws.RemoteAddr().String()).Msg("new WS connection")

	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := &wsConn{
		conn:         ws,
		send:         make(chan core.Frame, ctl.Cfg.SendBuffer),
		writeTimeout: ctl.Cfg.WriteTimeout,
	}
	sess := &session{conn: conn}

	// A pong refreshes the liveness flag the sweep cleared.
	ws.SetPongHandler(func(string) error {
		if pid, ok := sess.participant(); ok {
			ctl.Coord.Registry.MarkAlive(pid, true)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sess)
}
