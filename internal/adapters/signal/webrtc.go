package signal

import (
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleNegotiation forwards offers, answers, ICE candidates, rejections and
// hang-ups. SDP and candidate payloads pass through untouched.
func (ctl *SignalWSController) handleNegotiation(sid core.SessionID, kind protocol.Kind, data []byte) {
	n, err := protocol.DecodeNegotiation(kind, data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad negotiation payload")
		return
	}
	ctl.Orch.Relay(sid, n)
}
