package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/protocol"
)

func (ctl *Controller) handleJoin(sess *session, data []byte) {
	var p protocol.JoinRoom
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(sess, "Invalid message format", "")
		return
	}
	if p.ParticipantID == "" || p.RoomHandle == "" {
		ctl.sendError(sess, "Missing participantId or roomHandle", "")
		return
	}

	if err := ctl.Coord.Join(sess.conn, p.ParticipantID, p.RoomHandle, p.Name, p.IsCreator); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("participant", string(p.ParticipantID)).Msg("join failed")
		ctl.sendError(sess, "Failed to join room", err.Error())
		return
	}
	sess.bind(p.ParticipantID, p.RoomHandle)
}

func (ctl *Controller) handleLeave(sess *session, env protocol.Envelope) {
	if env.ParticipantID == "" {
		ctl.sendError(sess, "Missing participantId", "")
		return
	}
	log.Info().Str("module", "signal").Str("participant", string(env.ParticipantID)).Msg("leave")
	ctl.Coord.Leave(env.ParticipantID)
}
