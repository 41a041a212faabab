package orch

import (
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

// PublishPresence sends the full presence snapshot to every connected
// client, joined or not. Enqueueing never blocks, so one slow client cannot
// hold up the others or the next registry mutation.
func (o *Orchestrator) PublishPresence() core.PublishResult {
	o.pubMu.Lock()
	users := o.Registry.Snapshot()
	frame, err := protocol.EncodeUpdateUsers(users)
	if err != nil {
		o.pubMu.Unlock()
		log.Error().Err(err).Str("module", "orch").Msg("encode presence")
		return core.PublishResult{}
	}
	res := core.PublishResult{}
	for _, snap := range o.Registry.Signals() {
		o.deliver(&res, snap.SID, snap.Signal, frame)
	}
	o.pubMu.Unlock()

	log.Debug().Str("module", "orch").Int("users", len(users)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("presence published")
	o.applyPolicy(res)
	return res
}
