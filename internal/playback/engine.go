package playback

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/model"
)

// Notifier is told when a display's resolved content changed, so caches can
// be invalidated and UIs refreshed.
type Notifier interface {
	ContentChanged(displayID int)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(displayID int)

func (f NotifierFunc) ContentChanged(displayID int) { f(displayID) }

// Engine owns the per-display playback sessions. It re-resolves a display's
// content whenever an assignment changes, starts or stops the display's
// sequencer accordingly, and routes device playback reports to it.
type Engine struct {
	store    db.Store
	resolver *Resolver
	registry *Registry
	render   RenderPort
	notifier Notifier
}

func NewEngine(store db.Store, render RenderPort, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		resolver: NewResolver(store),
		registry: NewRegistry(),
		render:   render,
		notifier: notifier,
	}
}

// Resolve answers what the display should currently show.
func (e *Engine) Resolve(displayID int, now time.Time) (*ResolvedContent, error) {
	return e.resolver.Resolve(displayID, now)
}

// Refresh re-resolves the display and restarts its playback session to
// match. Called on display start and after every assignment write. A
// display without live content goes idle, never errors.
func (e *Engine) Refresh(displayID int, now time.Time) error {
	rc, err := e.resolver.Resolve(displayID, now)
	if errors.Is(err, ErrNoAssignment) {
		e.StopDisplay(displayID)
		e.notifyChanged(displayID)
		return nil
	}
	if err != nil {
		return err
	}

	if rc.Assignment.ContentMode == model.ModeSchedule && rc.Status != StatusLive {
		log.Info().Int("display_id", displayID).Str("status", string(rc.Status)).
			Msg("[engine] scheduled content not live, display idle")
		e.StopDisplay(displayID)
		e.notifyChanged(displayID)
		return nil
	}

	playlist, opts := plan(rc)
	seq := NewSequencer(displayID, e.store, e.render, e.onPlaylistEnded)
	if old := e.registry.Swap(displayID, seq); old != nil {
		old.Stop()
	}
	if err := seq.Start(playlist, opts); err != nil {
		return err
	}
	e.notifyChanged(displayID)
	return nil
}

// StopDisplay halts and discards the display's playback session and blanks
// the output. Safe to call for displays that never started.
func (e *Engine) StopDisplay(displayID int) {
	if old := e.registry.Remove(displayID); old != nil {
		old.Stop()
		if err := e.render.Clear(displayID); err != nil {
			log.Warn().Err(err).Int("display_id", displayID).Msg("[engine] failed to clear display")
		}
	}
}

// StopAll halts every running session, for shutdown.
func (e *Engine) StopAll() {
	for id, seq := range e.registry.All() {
		seq.Stop()
		e.registry.Remove(id)
	}
}

// Bootstrap starts playback for every display that already has a resolvable
// assignment, typically at server boot.
func (e *Engine) Bootstrap(now time.Time) error {
	displays, err := e.store.ListDisplays()
	if err != nil {
		return err
	}
	for _, d := range displays {
		if err := e.Refresh(d.ID, now); err != nil {
			log.Error().Err(err).Int("display_id", d.ID).Msg("[engine] bootstrap refresh failed")
		}
	}
	return nil
}

// ItemFinished routes a device's natural-end report to the display's
// sequencer. Reports for unknown displays or stale generations are dropped.
func (e *Engine) ItemFinished(displayID int, gen uint64) {
	if seq, ok := e.registry.Get(displayID); ok {
		seq.OnItemFinished(gen)
	}
}

// ItemFailed routes a device's playback-failure report; the sequencer
// advances past the item.
func (e *Engine) ItemFailed(displayID int, gen uint64) {
	if seq, ok := e.registry.Get(displayID); ok {
		seq.OnItemFailed(gen)
	}
}

// Sequencer exposes the display's session, if any.
func (e *Engine) Sequencer(displayID int) (*Sequencer, bool) {
	return e.registry.Get(displayID)
}

func (e *Engine) onPlaylistEnded(displayID int) {
	log.Info().Int("display_id", displayID).Msg("[engine] playlist ended")
	if err := e.render.Clear(displayID); err != nil {
		log.Warn().Err(err).Int("display_id", displayID).Msg("[engine] failed to clear display")
	}
}

func (e *Engine) notifyChanged(displayID int) {
	if e.notifier != nil {
		e.notifier.ContentChanged(displayID)
	}
}

// plan translates a resolved assignment into the sequence the display will
// play. SIMPLE content becomes a single synthetic item; an indefinite
// non-video item is held on screen, an indefinite video loops.
func plan(rc *ResolvedContent) (model.Playlist, Options) {
	a := rc.Assignment

	if rc.Playlist != nil {
		return *rc.Playlist, Options{Loop: a.IsLoop}
	}

	item := model.PlaylistItem{
		Name:   a.ContentValue,
		Type:   normalizeType(a.ContentType),
		Source: a.ContentValue,
	}
	opts := Options{Loop: a.IsLoop}

	if a.DisplayDuration != nil && *a.DisplayDuration > 0 {
		item.Duration = *a.DisplayDuration
	} else {
		// indefinite
		if item.Type == model.ItemTypeVideo {
			opts.Loop = true
		} else {
			opts.Hold = true
		}
	}

	return model.Playlist{Items: []model.PlaylistItem{item}}, opts
}

func normalizeType(t string) string {
	switch t {
	case model.ItemTypeVideo, model.ItemTypeImage, model.ItemTypeWeb:
		return t
	}
	return model.ItemTypeUnknown
}
