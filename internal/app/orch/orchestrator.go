package orch

import (
	"errors"
	"sync"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/rs/zerolog/log"
)

// Orchestrator glues the registry to the transports: it runs the connection
// lifecycle, publishes presence and routes negotiation messages.
type Orchestrator struct {
	Registry *app.Registry
	Policy   app.Policy

	// serializes snapshot+fan-out so the newest snapshot is always the last one queued
	pubMu sync.Mutex
}

// deliver enqueues f on one connection. A failed enqueue is recorded in res.
func (o *Orchestrator) deliver(res *core.PublishResult, sid core.SessionID, sig core.SignalConnection, f core.Frame) {
	if err := sig.TrySend(f); err != nil {
		if errors.Is(err, core.ErrBackpressure) {
			res.Dropped = append(res.Dropped, sid)
		}
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("frame not queued")
		return
	}
	res.SendTo++
}

// applyPolicy must be called without pubMu held: a kick closes transports.
func (o *Orchestrator) applyPolicy(res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, sid := range res.Dropped {
		switch o.Policy.OnBackPressure(sid) {
		case app.KickMember:
			o.Kick(sid)
		case app.DropFrame, app.NoAction:
		}
	}
}

// Kick closes the transport of sid. Registry cleanup happens when the
// adapter's read loop observes the close and calls Disconnect.
func (o *Orchestrator) Kick(sid core.SessionID) {
	sig, ok := o.Registry.Signal(sid)
	if !ok {
		return
	}
	log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("kicking slow member")
	o.Registry.Cancel(sid)
	sig.Close()
}
