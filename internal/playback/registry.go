package playback

import "sync"

// Registry maps display ids to their playback sessions. It only hands out
// ownership; each sequencer is driven independently by its display.
type Registry struct {
	mu   sync.Mutex
	seqs map[int]*Sequencer
}

func NewRegistry() *Registry {
	return &Registry{seqs: make(map[int]*Sequencer)}
}

func (r *Registry) Get(displayID int) (*Sequencer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.seqs[displayID]
	return s, ok
}

// Swap installs a new sequencer for the display and returns the previous
// one (nil if none) so the caller can stop it.
func (r *Registry) Swap(displayID int, s *Sequencer) *Sequencer {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.seqs[displayID]
	r.seqs[displayID] = s
	return old
}

// Remove drops the display's sequencer and returns it (nil if none).
func (r *Registry) Remove(displayID int) *Sequencer {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.seqs[displayID]
	delete(r.seqs, displayID)
	return old
}

// All returns a snapshot of the registered sequencers.
func (r *Registry) All() map[int]*Sequencer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]*Sequencer, len(r.seqs))
	for id, s := range r.seqs {
		out[id] = s
	}
	return out
}
