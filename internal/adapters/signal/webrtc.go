package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/app"
	"github.com/mvoronin/huddle/internal/core"
	"github.com/mvoronin/huddle/internal/protocol"
)

// handleSignaling relays offer/answer/candidate frames. The payload is
// opaque past the envelope; the original bytes are forwarded verbatim so
// the peers see exactly what was sent.
func (ctl *Controller) handleSignaling(sess *session, data []byte) {
	pid, ok := sess.participant()
	if !ok {
		ctl.sendError(sess, "Must join room before WebRTC signaling", "")
		return
	}

	var p protocol.Signal
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad signaling payload")
		ctl.sendError(sess, "Invalid message format", "")
		return
	}
	if p.TargetParticipantID == "" {
		ctl.sendError(sess, "Missing targetParticipantId in signaling message", "")
		return
	}

	if err := ctl.Coord.Forward(pid, p.TargetParticipantID, core.Frame(data)); err != nil {
		if errors.Is(err, app.ErrNotJoined) {
			ctl.sendError(sess, "Must join room before WebRTC signaling", "")
			return
		}
		log.Warn().Err(err).Str("module", "signal").Msg("forward failed")
	}
}
