package playback

import (
	"testing"
	"time"

	"github.com/Argus-Signage/argus/internal/model"
)

type countingNotifier struct{ changed []int }

func (n *countingNotifier) ContentChanged(displayID int) {
	n.changed = append(n.changed, displayID)
}

func TestEngineRefreshStartsPlaylistPlayback(t *testing.T) {
	store := &fakeStore{
		assignments: map[int][]model.ContentAssignment{
			1: {{ID: 10, DisplayID: 1, ContentMode: model.ModePlaylist, PlaylistID: intp(4), IsLoop: true, IsActive: true}},
		},
		playlists: map[int]model.Playlist{
			4: {ID: 4, Items: []model.PlaylistItem{
				{ID: 1, Position: 1, Type: model.ItemTypeImage, Source: "a.png", Duration: 30},
			}},
		},
	}
	render := &fakeRender{}
	notifier := &countingNotifier{}
	e := NewEngine(store, render, notifier)

	if err := e.Refresh(1, time.Now()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	seq, ok := e.Sequencer(1)
	if !ok {
		t.Fatal("no sequencer registered for display")
	}
	if seq.State() != StatePlaying {
		t.Errorf("state = %v, want playing", seq.State())
	}
	if got := render.renderedSources(); len(got) != 1 || got[0] != "a.png" {
		t.Errorf("rendered %v, want first playlist item", got)
	}
	if len(notifier.changed) != 1 || notifier.changed[0] != 1 {
		t.Errorf("content-changed notifications = %v, want [1]", notifier.changed)
	}
}

func TestEngineRefreshNoAssignmentGoesIdle(t *testing.T) {
	store := &fakeStore{
		assignments: map[int][]model.ContentAssignment{
			1: {{ID: 10, DisplayID: 1, ContentMode: model.ModePlaylist, PlaylistID: intp(4), IsActive: true}},
		},
		playlists: map[int]model.Playlist{
			4: {ID: 4, Items: []model.PlaylistItem{{ID: 1, Type: model.ItemTypeImage, Source: "a.png", Duration: 30}}},
		},
	}
	render := &fakeRender{}
	e := NewEngine(store, render, nil)
	if err := e.Refresh(1, time.Now()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// the assignment is cleared; refresh must stop the session and blank
	store.assignments[1] = nil
	if err := e.Refresh(1, time.Now()); err != nil {
		t.Fatalf("Refresh after clear: %v", err)
	}

	if _, ok := e.Sequencer(1); ok {
		t.Error("sequencer still registered after assignment cleared")
	}
	if len(render.cleared) != 1 || render.cleared[0] != 1 {
		t.Errorf("cleared = %v, want display 1 blanked", render.cleared)
	}
}

func TestEngineRefreshReplacesSupersededSession(t *testing.T) {
	store := &fakeStore{
		assignments: map[int][]model.ContentAssignment{
			1: {{ID: 10, DisplayID: 1, ContentMode: model.ModePlaylist, PlaylistID: intp(4), IsActive: true}},
		},
		playlists: map[int]model.Playlist{
			4: {ID: 4, Items: []model.PlaylistItem{{ID: 1, Type: model.ItemTypeImage, Source: "a.png", Duration: 30}}},
			5: {ID: 5, Items: []model.PlaylistItem{{ID: 2, Type: model.ItemTypeImage, Source: "b.png", Duration: 30}}},
		},
	}
	render := &fakeRender{}
	e := NewEngine(store, render, nil)
	if err := e.Refresh(1, time.Now()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	old, _ := e.Sequencer(1)

	store.assignments[1] = []model.ContentAssignment{
		{ID: 11, DisplayID: 1, ContentMode: model.ModePlaylist, PlaylistID: intp(5), IsActive: true},
	}
	if err := e.Refresh(1, time.Now()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if old.State() != StateStopped {
		t.Errorf("superseded sequencer state = %v, want stopped", old.State())
	}
	cur, _ := e.Sequencer(1)
	if cur == old {
		t.Fatal("sequencer not replaced on refresh")
	}
	if got := render.renderedSources(); got[len(got)-1] != "b.png" {
		t.Errorf("rendered %v, want new playlist on screen", got)
	}
}

func TestEngineScheduledContentOutsideWindowIsIdle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		assignments: map[int][]model.ContentAssignment{
			1: {{
				ID: 10, DisplayID: 1, ContentMode: model.ModeSchedule,
				ContentType: model.ItemTypeImage, ContentValue: "promo.png",
				StartAt: timep(now.Add(time.Hour)), EndAt: timep(now.Add(2 * time.Hour)),
				IsActive: true,
			}},
		},
	}
	render := &fakeRender{}
	e := NewEngine(store, render, nil)

	if err := e.Refresh(1, now); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, ok := e.Sequencer(1); ok {
		t.Error("sequencer running for pending scheduled content")
	}
	if len(render.renderedSources()) != 0 {
		t.Errorf("rendered %v, want nothing before window opens", render.renderedSources())
	}
}

func TestEngineSimpleIndefiniteContentHolds(t *testing.T) {
	store := &fakeStore{
		assignments: map[int][]model.ContentAssignment{
			1: {{
				ID: 10, DisplayID: 1, ContentMode: model.ModeSimple,
				ContentType: model.ItemTypeImage, ContentValue: "poster.png",
				DisplayDuration: intp(0), IsActive: true,
			}},
		},
	}
	render := &fakeRender{}
	e := NewEngine(store, render, nil)

	if err := e.Refresh(1, time.Now()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	seq, ok := e.Sequencer(1)
	if !ok {
		t.Fatal("no sequencer for display")
	}
	if seq.State() != StatePlaying {
		t.Errorf("state = %v, want playing indefinitely", seq.State())
	}
	if got := render.renderedSources(); len(got) != 1 || got[0] != "poster.png" {
		t.Errorf("rendered %v, want the single content item", got)
	}
}

func TestEngineRoutesDeviceReports(t *testing.T) {
	store := &fakeStore{
		assignments: map[int][]model.ContentAssignment{
			1: {{ID: 10, DisplayID: 1, ContentMode: model.ModePlaylist, PlaylistID: intp(4), IsActive: true}},
		},
		playlists: map[int]model.Playlist{
			4: {ID: 4, Items: []model.PlaylistItem{
				{ID: 1, Type: model.ItemTypeVideo, Source: "v.mp4"},
				{ID: 2, Type: model.ItemTypeImage, Source: "b.png", Duration: 30},
			}},
		},
	}
	render := &fakeRender{}
	e := NewEngine(store, render, nil)
	if err := e.Refresh(1, time.Now()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	seq, _ := e.Sequencer(1)

	// report for an unknown display is dropped, not a panic
	e.ItemFinished(99, 1)

	e.ItemFinished(1, seq.Generation())
	if got := render.renderedSources(); len(got) != 2 || got[1] != "b.png" {
		t.Errorf("rendered %v, want advance on device report", got)
	}
}
