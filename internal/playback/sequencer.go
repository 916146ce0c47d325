package playback

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/model"
)

// State of a display's playback session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StateFinished
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Fallback dwell durations when an item carries no explicit duration.
const (
	defaultImageDwell   = 5 * time.Second
	defaultUnknownDwell = 10 * time.Second
)

type stopper interface {
	Stop() bool
}

type timerFunc func(d time.Duration, fn func()) stopper

// Options controls how a sequencer walks its items.
type Options struct {
	// Loop restarts from item 0 after the last item instead of finishing.
	Loop bool
	// Hold keeps a non-video item on screen until Stop or an external
	// signal. Used for indefinite single-content assignments.
	Hold bool
}

// Sequencer walks one display's playlist: renders an item, waits for its
// dwell timer or the video-finished callback, advances, and raises the
// ended event once on the terminal transition. Every display owns exactly
// one Sequencer; instances share nothing.
//
// A generation counter increments every time the current item changes, and
// timers/callbacks carry the generation they were armed with. A stale timer
// fire or a late device report after Stop/Advance compares unequal and is
// dropped, so a race can never double-advance.
type Sequencer struct {
	displayID int
	store     db.Store
	render    RenderPort
	onEnded   func(displayID int)

	mu       sync.Mutex
	state    State
	items    []model.PlaylistItem
	index    int
	opts     Options
	gen      uint64
	timer    stopper
	newTimer timerFunc
}

func NewSequencer(displayID int, store db.Store, render RenderPort, onEnded func(displayID int)) *Sequencer {
	return &Sequencer{
		displayID: displayID,
		store:     store,
		render:    render,
		onEnded:   onEnded,
		state:     StateIdle,
		newTimer: func(d time.Duration, fn func()) stopper {
			return time.AfterFunc(d, fn)
		},
	}
}

// Start begins playback of the playlist. Items are fetched from the store
// when the playlist is not materialized. An empty playlist finishes
// immediately and raises the ended event without a single render call.
func (s *Sequencer) Start(playlist model.Playlist, opts Options) error {
	items := playlist.Items
	if items == nil && s.store != nil {
		fetched, err := s.store.GetPlaylistItems(playlist.ID)
		if err != nil {
			return err
		}
		items = fetched
	}

	s.mu.Lock()
	s.cancelTimerLocked()
	s.gen++
	s.items = items
	s.opts = opts
	s.index = 0
	if len(items) == 0 {
		s.state = StateFinished
		s.mu.Unlock()
		log.Info().Int("display_id", s.displayID).Int("playlist_id", playlist.ID).
			Msg("[sequencer] empty playlist, finishing immediately")
		s.fireEnded()
		return nil
	}
	s.state = StatePlaying
	s.playCurrentLocked()
	s.mu.Unlock()
	return nil
}

// Advance skips to the next item, cancelling any pending dwell or callback
// wait. No-op unless playing.
func (s *Sequencer) Advance() {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	ended := s.advanceLocked()
	s.mu.Unlock()
	if ended {
		s.fireEnded()
	}
}

// Stop halts playback from any state. Idempotent; a timer or device report
// racing with Stop is discarded by the generation check.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.cancelTimerLocked()
	s.gen++
	s.state = StateStopped
	s.mu.Unlock()
}

// OnItemFinished reports natural end of media for the item rendered under
// gen. Stale generations are dropped.
func (s *Sequencer) OnItemFinished(gen uint64) {
	s.signal(gen, false)
}

// OnItemFailed reports a playback failure. Treated exactly like finished:
// advance, never halt.
func (s *Sequencer) OnItemFailed(gen uint64) {
	s.signal(gen, true)
}

func (s *Sequencer) signal(gen uint64, failed bool) {
	s.mu.Lock()
	if gen != s.gen || s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	if failed {
		it := s.items[s.index]
		log.Warn().Int("display_id", s.displayID).Int("item_id", it.ID).
			Str("source", it.Source).Msg("[sequencer] item playback failed, advancing")
	}
	ended := s.advanceLocked()
	s.mu.Unlock()
	if ended {
		s.fireEnded()
	}
}

// State returns the current playback state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentIndex returns the zero-based index of the item on screen.
func (s *Sequencer) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Generation returns the token of the current item, for tagging render
// commands and matching device reports.
func (s *Sequencer) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Sequencer) advanceLocked() (ended bool) {
	s.cancelTimerLocked()
	s.gen++
	s.index++
	if s.index >= len(s.items) {
		if !s.opts.Loop {
			s.state = StateFinished
			return true
		}
		s.index = 0
	}
	s.playCurrentLocked()
	return false
}

func (s *Sequencer) playCurrentLocked() {
	it := s.items[s.index]
	g := s.gen
	err := s.render.Render(RenderItem{
		DisplayID:    s.displayID,
		Type:         it.Type,
		Source:       it.Source,
		DurationHint: it.Duration,
		Generation:   g,
	})
	if err != nil {
		// a failed render will never report back, so arm a fallback
		// timer to keep the sequence moving
		log.Warn().Err(err).Int("display_id", s.displayID).Int("item_id", it.ID).
			Msg("[sequencer] render failed, advancing after fallback dwell")
		s.armTimerLocked(fallbackDwell(it), g)
		return
	}

	if it.Type == model.ItemTypeVideo {
		// advancement driven by OnItemFinished/OnItemFailed
		return
	}
	if s.opts.Hold {
		return
	}
	s.armTimerLocked(dwellFor(it), g)
}

func (s *Sequencer) armTimerLocked(d time.Duration, gen uint64) {
	s.timer = s.newTimer(d, func() {
		s.timerFired(gen)
	})
}

func (s *Sequencer) timerFired(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	ended := s.advanceLocked()
	s.mu.Unlock()
	if ended {
		s.fireEnded()
	}
}

func (s *Sequencer) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Sequencer) fireEnded() {
	if s.onEnded != nil {
		s.onEnded(s.displayID)
	}
}

// dwellFor computes how long a non-video item stays on screen: its own
// duration when set, otherwise 5s for images and 10s for everything else.
func dwellFor(it model.PlaylistItem) time.Duration {
	if it.Duration > 0 {
		return time.Duration(it.Duration) * time.Second
	}
	if it.Type == model.ItemTypeImage {
		return defaultImageDwell
	}
	return defaultUnknownDwell
}

func fallbackDwell(it model.PlaylistItem) time.Duration {
	if it.Type == model.ItemTypeVideo {
		return defaultUnknownDwell
	}
	return dwellFor(it)
}
