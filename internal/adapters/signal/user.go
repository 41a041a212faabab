package signal

import (
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleJoin binds a display name to the connection. Any string is
// accepted, including "" and names already taken.
func (ctl *SignalWSController) handleJoin(sid core.SessionID, data []byte) {
	p, err := protocol.DecodeJoin(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad join payload")
		return
	}
	ctl.Orch.Join(sid, p.Username)
}

func (ctl *SignalWSController) handleWhoAmI(sid core.SessionID, conn *WsSignalConn) {
	name, joined := ctl.Orch.Registry.NameOf(sid)
	ctl.sendJSON(conn, protocol.NewWhoAmI(domain.UserID(sid), name, joined))
}
