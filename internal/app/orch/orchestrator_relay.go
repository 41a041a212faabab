package orch

import (
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay forwards n from sid to the connection currently holding n.To and
// to nobody else. An unknown destination is dropped without telling the
// sender. The relay keeps no call state: any kind, in any order, is
// forwarded as received. It reports whether the frame was queued.
func (o *Orchestrator) Relay(sid core.SessionID, n protocol.Negotiation) bool {
	logger := log.With().
		Str("module", "orch").
		Str("sid", string(sid)).
		Str("type", n.Kind.String()).
		Str("to", n.To).
		Logger()

	from, joined := o.Registry.NameOf(sid)
	if !joined {
		logger.Debug().Msg("relaying for a connection that has not joined")
	}

	dst, ok := o.Registry.ResolveByName(n.To)
	if !ok {
		logger.Debug().Msg("destination offline, dropped")
		return false
	}
	sig, ok := o.Registry.Signal(dst)
	if !ok {
		logger.Debug().Str("dst_sid", string(dst)).Msg("destination has no transport, dropped")
		return false
	}

	frame, err := protocol.EncodeRelayed(n, from, joined)
	if err != nil {
		logger.Error().Err(err).Msg("encode relayed message")
		return false
	}

	res := core.PublishResult{}
	o.deliver(&res, dst, sig, frame)
	o.applyPolicy(res)
	if res.SendTo == 0 {
		return false
	}
	logger.Debug().Str("dst_sid", string(dst)).Msg("relayed")
	return true
}
