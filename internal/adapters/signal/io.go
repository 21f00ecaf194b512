package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/protocol"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sess *session) {
	defer func() {
		pid, _ := sess.identity()
		log.Info().Str("module", "signal").Str("participant", string(pid)).Msg("readPump closing")
		ctl.Coord.HandleDisconnection(sess.conn)
		sess.conn.Close()
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("readPump ctx done")
			return
		default:
			_, data, err := sess.conn.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Msg("readPump read error")
				return
			}
			ctl.dispatch(sess, data)
		}
	}
}

// dispatch is the single entry point for inbound frames. The message-type
// set is closed; anything else gets an error reply and the connection
// stays open.
func (ctl *Controller) dispatch(sess *session, data []byte) {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("unparseable message")
		ctl.sendError(sess, "Invalid message format", "")
		return
	}

	switch env.Type {
	case protocol.TypeJoinRoom:
		ctl.handleJoin(sess, data)
	case protocol.TypeLeaveRoom:
		ctl.handleLeave(sess, env)
	case protocol.TypeOffer, protocol.TypeAnswer, protocol.TypeICECandidate:
		ctl.handleSignaling(sess, data)
	case protocol.TypeParticipantJoined, protocol.TypeParticipantLeft,
		protocol.TypeRoomState, protocol.TypeRoomTerminated, protocol.TypeError:
		// Server-to-client types are not accepted from clients.
		log.Warn().Str("module", "signal").Str("type", string(env.Type)).Msg("server-only message from client")
		ctl.sendError(sess, "Unknown message type", string(env.Type))
	default:
		log.Warn().Str("module", "signal").Str("type", string(env.Type)).Msg("unknown message type")
		ctl.sendError(sess, "Unknown message type", string(env.Type))
	}
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(sess *session, msg, details string) {
	pid, handle := sess.identity()
	ctl.sendJSON(sess.conn, protocol.NewError(pid, handle, msg, details))
}
