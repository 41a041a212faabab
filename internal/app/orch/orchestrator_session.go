package orch

import (
	"context"

	"github.com/dkeye/Relay/internal/core"
	"github.com/rs/zerolog/log"
)

// Connect binds a freshly accepted transport. Presence is unchanged until
// the connection joins, so nothing is published.
func (o *Orchestrator) Connect(sid core.SessionID, sig core.SignalConnection, cancel context.CancelFunc) {
	o.Registry.BindSignal(sid, sig, cancel)
}

// Join registers (or renames) sid and publishes the new presence snapshot.
func (o *Orchestrator) Join(sid core.SessionID, name string) {
	o.Registry.Register(sid, name)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("username", name).Msg("joined")
	o.PublishPresence()
}

// Disconnect releases everything held for sid. Calling it twice, or for a
// connection that never joined, is safe. Peers mid-call with sid are not
// told; they find out from presence or their own media path.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	bound := o.Registry.Unbind(sid)
	joined := o.Registry.Unregister(sid)
	if !bound && !joined {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Bool("joined", joined).Msg("disconnected")
	o.PublishPresence()
}
