// Package registry holds the peer registry (C8): atomic snapshots of
// the called-AE, allowed-source, and destination sets, read on every
// association's admission path and swapped wholesale on reload.
package registry

import (
	"sync/atomic"

	"github.com/codeninja55/radx-adapter/internal/model"
)

// Snapshot is one immutable view of the registry.
type Snapshot struct {
	CalledAEs      map[string]model.CalledAE      // keyed by AETitle
	AllowedSources map[string]model.AllowedSource // keyed by AETitle
	Destinations   map[string]model.Destination   // keyed by Name
}

// CalledAE looks up a called AE by title.
func (s *Snapshot) CalledAE(aeTitle string) (model.CalledAE, bool) {
	ae, ok := s.CalledAEs[aeTitle]
	return ae, ok
}

// IsAllowedSource reports whether (aeTitle, hostOrIP) matches an
// AllowedSource entry, per §3/§4.3 rule 2: both the AE title and the
// peer's host/IP must agree with a single registered entry.
func (s *Snapshot) IsAllowedSource(aeTitle, hostOrIP string) bool {
	src, ok := s.AllowedSources[aeTitle]
	if !ok {
		return false
	}
	return src.HostOrIP == hostOrIP
}

// Registry is a lock-free, swap-a-pointer store for the current
// Snapshot. Grounded on the teacher's own Association guarding
// negotiated state with a mutex for cheap-read/rare-write access; here
// reads are on the per-association hot path (per §4.1's "cheap enough
// to call per association"), so a pointer swap removes lock contention
// entirely instead of just narrowing it.
type Registry struct {
	current atomic.Pointer[Snapshot]
}

// New creates a Registry holding an initial, possibly empty snapshot.
func New(initial Snapshot) *Registry {
	r := &Registry{}
	r.Store(initial)
	return r
}

// Load returns the current snapshot. Safe for concurrent use without
// locking against Store.
func (r *Registry) Load() *Snapshot {
	return r.current.Load()
}

// Store atomically replaces the current snapshot. Mutations (add,
// update, delete) are the external control plane's responsibility
// (out of scope); this method just performs the atomic swap.
func (r *Registry) Store(snap Snapshot) {
	r.current.Store(&snap)
}
