package app

import (
	"context"
	"slices"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Signal core.SignalConnection
	Cancel context.CancelFunc
}

// Registry is the single owner of shared connection state: the live
// transport bindings and the presence records of joined connections.
// All methods are plain map work under one lock and never do I/O.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	users    map[core.SessionID]*domain.User
	// join order of users; a re-join keeps its slot
	order []core.SessionID
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		users:    make(map[core.SessionID]*domain.User),
	}
}

// Register inserts or replaces the presence record for sid.
func (r *Registry) Register(sid core.SessionID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[sid]; ok {
		u.SetUsername(name)
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", name).Msg("updated username")
		return
	}
	r.users[sid] = domain.NewUser(domain.UserID(sid), name)
	r.order = append(r.order, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", name).Msg("registered user")
}

// Unregister drops the presence record of sid. It reports whether one existed.
func (r *Registry) Unregister(sid core.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[sid]; !ok {
		return false
	}
	delete(r.users, sid)
	if i := slices.Index(r.order, sid); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unregistered user")
	return true
}

// ResolveByName returns the earliest-joined connection currently holding
// name. Names are not unique; callers must not rely on which duplicate wins.
func (r *Registry) ResolveByName(name string) (core.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sid := range r.order {
		if r.users[sid].Username == name {
			return sid, true
		}
	}
	return "", false
}

// NameOf returns the display name sid joined with.
func (r *Registry) NameOf(sid core.SessionID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[sid]
	if !ok {
		return "", false
	}
	return u.Username, true
}

// Snapshot returns a copy of all presence records in join order.
func (r *Registry) Snapshot() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.order))
	for _, sid := range r.order {
		out = append(out, *r.users[sid])
	}
	return out
}

func (r *Registry) BindSignal(sid core.SessionID, sig core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Signal: sig, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

// Unbind forgets the transport of sid. It reports whether one was bound.
func (r *Registry) Unbind(sid core.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; !ok {
		return false
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return true
}

func (r *Registry) Signal(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

// RegSnap is one bound transport as seen at the time of the call.
type RegSnap struct {
	SID    core.SessionID
	Signal core.SignalConnection
}

// Signals returns every bound transport, joined or not.
func (r *Registry) Signals() []RegSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RegSnap, 0, len(r.sessions))
	for sid, e := range r.sessions {
		out = append(out, RegSnap{SID: sid, Signal: e.Signal})
	}
	return out
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
