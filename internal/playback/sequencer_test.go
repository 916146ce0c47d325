package playback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Argus-Signage/argus/internal/model"
)

type fakeRender struct {
	mu       sync.Mutex
	rendered []RenderItem
	cleared  []int
	renderErr error
}

func (f *fakeRender) Render(it RenderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rendered = append(f.rendered, it)
	return f.renderErr
}

func (f *fakeRender) Clear(displayID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, displayID)
	return nil
}

func (f *fakeRender) renderedSources() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.rendered))
	for i, it := range f.rendered {
		out[i] = it.Source
	}
	return out
}

// manualTimer lets tests fire or drop dwell timers without sleeping.
type manualTimer struct {
	duration time.Duration
	fn       func()
	stopped  bool
}

func (t *manualTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

type timerCtl struct {
	mu    sync.Mutex
	armed []*manualTimer
}

func (c *timerCtl) newTimer(d time.Duration, fn func()) stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{duration: d, fn: fn}
	c.armed = append(c.armed, t)
	return t
}

func (c *timerCtl) last() *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.armed) == 0 {
		return nil
	}
	return c.armed[len(c.armed)-1]
}

// fireLast fires the most recently armed timer as if its dwell elapsed.
func (c *timerCtl) fireLast(t *testing.T) {
	t.Helper()
	timer := c.last()
	if timer == nil {
		t.Fatal("no timer armed")
	}
	timer.fn()
}

func newTestSequencer(t *testing.T, items []model.PlaylistItem, opts Options) (*Sequencer, *fakeRender, *timerCtl, *int) {
	t.Helper()
	render := &fakeRender{}
	ctl := &timerCtl{}
	ended := 0
	seq := NewSequencer(7, nil, render, func(displayID int) {
		if displayID != 7 {
			t.Errorf("ended event for display %d, want 7", displayID)
		}
		ended++
	})
	seq.newTimer = ctl.newTimer
	if err := seq.Start(model.Playlist{ID: 1, Items: items}, opts); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return seq, render, ctl, &ended
}

func imageItem(id int, source string, duration int) model.PlaylistItem {
	return model.PlaylistItem{ID: id, Type: model.ItemTypeImage, Source: source, Duration: duration}
}

func TestSequencerFinishesAfterAllItems(t *testing.T) {
	items := []model.PlaylistItem{
		imageItem(1, "a.png", 3),
		imageItem(2, "b.png", 3),
		imageItem(3, "c.png", 3),
	}
	seq, render, ctl, ended := newTestSequencer(t, items, Options{})

	ctl.fireLast(t)
	ctl.fireLast(t)
	ctl.fireLast(t)

	if got := seq.State(); got != StateFinished {
		t.Errorf("state = %v, want finished", got)
	}
	if *ended != 1 {
		t.Errorf("ended fired %d times, want exactly once", *ended)
	}
	want := []string{"a.png", "b.png", "c.png"}
	got := render.renderedSources()
	if len(got) != len(want) {
		t.Fatalf("rendered %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("render %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSequencerLoopWrapsWithoutEnding(t *testing.T) {
	items := []model.PlaylistItem{
		imageItem(1, "a.png", 3),
		imageItem(2, "b.png", 3),
	}
	seq, render, ctl, ended := newTestSequencer(t, items, Options{Loop: true})

	ctl.fireLast(t)
	ctl.fireLast(t) // past last item, should wrap

	if got := seq.CurrentIndex(); got != 0 {
		t.Errorf("index after wrap = %d, want 0", got)
	}
	if seq.State() != StatePlaying {
		t.Errorf("state = %v, want playing", seq.State())
	}
	if *ended != 0 {
		t.Errorf("ended fired %d times, want 0 while looping", *ended)
	}
	got := render.renderedSources()
	if len(got) != 3 || got[2] != "a.png" {
		t.Errorf("rendered %v, want wrap back to a.png", got)
	}
}

func TestSequencerEmptyPlaylistFinishesImmediately(t *testing.T) {
	seq, render, _, ended := newTestSequencer(t, []model.PlaylistItem{}, Options{})

	if seq.State() != StateFinished {
		t.Errorf("state = %v, want finished", seq.State())
	}
	if *ended != 1 {
		t.Errorf("ended fired %d times, want 1", *ended)
	}
	if len(render.renderedSources()) != 0 {
		t.Errorf("rendered %v, want no render calls", render.renderedSources())
	}
}

func TestSequencerDwellDurations(t *testing.T) {
	cases := []struct {
		name string
		item model.PlaylistItem
		want time.Duration
	}{
		{"image default", imageItem(1, "a.png", 0), 5 * time.Second},
		{"image explicit", imageItem(1, "a.png", 12), 12 * time.Second},
		{"web explicit", model.PlaylistItem{ID: 1, Type: model.ItemTypeWeb, Source: "http://x", Duration: 20}, 20 * time.Second},
		{"unknown default", model.PlaylistItem{ID: 1, Type: model.ItemTypeUnknown, Source: "x.bin"}, 10 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ctl, _ := newTestSequencer(t, []model.PlaylistItem{tc.item}, Options{})
			timer := ctl.last()
			if timer == nil {
				t.Fatal("no dwell timer armed")
			}
			if timer.duration != tc.want {
				t.Errorf("dwell = %v, want %v", timer.duration, tc.want)
			}
		})
	}
}

func TestSequencerVideoWaitsForCallback(t *testing.T) {
	items := []model.PlaylistItem{
		{ID: 1, Type: model.ItemTypeVideo, Source: "v.mp4"},
		imageItem(2, "b.png", 3),
	}
	seq, render, ctl, _ := newTestSequencer(t, items, Options{})

	if ctl.last() != nil {
		t.Fatal("dwell timer armed for video item")
	}

	seq.OnItemFinished(seq.Generation())

	got := render.renderedSources()
	if len(got) != 2 || got[1] != "b.png" {
		t.Fatalf("rendered %v, want advance to b.png after callback", got)
	}
}

func TestSequencerFailedTreatedAsFinished(t *testing.T) {
	items := []model.PlaylistItem{
		{ID: 1, Type: model.ItemTypeVideo, Source: "broken.mp4"},
		imageItem(2, "b.png", 3),
	}
	seq, render, _, _ := newTestSequencer(t, items, Options{})

	seq.OnItemFailed(seq.Generation())

	got := render.renderedSources()
	if len(got) != 2 || got[1] != "b.png" {
		t.Fatalf("rendered %v, want advance past failed item", got)
	}
	if seq.State() != StatePlaying {
		t.Errorf("state = %v, want playing (failure never halts)", seq.State())
	}
}

func TestSequencerStaleSignalIgnored(t *testing.T) {
	items := []model.PlaylistItem{
		{ID: 1, Type: model.ItemTypeVideo, Source: "v.mp4"},
		imageItem(2, "b.png", 3),
		imageItem(3, "c.png", 3),
	}
	seq, render, _, _ := newTestSequencer(t, items, Options{})

	stale := seq.Generation()
	seq.OnItemFinished(stale)

	// a late duplicate for the already-superseded video must not advance
	seq.OnItemFinished(stale)
	seq.OnItemFailed(stale)

	got := render.renderedSources()
	if len(got) != 2 {
		t.Fatalf("rendered %v, stale signals must not double-advance", got)
	}
	if idx := seq.CurrentIndex(); idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}
}

func TestSequencerStaleTimerIgnoredAfterAdvance(t *testing.T) {
	items := []model.PlaylistItem{
		imageItem(1, "a.png", 5),
		imageItem(2, "b.png", 5),
		imageItem(3, "c.png", 5),
	}
	seq, render, ctl, _ := newTestSequencer(t, items, Options{})

	first := ctl.last()
	seq.Advance()
	if !first.stopped {
		t.Error("pending dwell timer not cancelled by Advance")
	}

	// even if the old timer managed to fire, the generation check drops it
	first.fn()

	got := render.renderedSources()
	if len(got) != 2 {
		t.Fatalf("rendered %v, stale timer fire must be ignored", got)
	}
}

func TestSequencerStopIsIdempotent(t *testing.T) {
	items := []model.PlaylistItem{imageItem(1, "a.png", 5)}
	seq, _, ctl, ended := newTestSequencer(t, items, Options{})

	timer := ctl.last()
	seq.Stop()
	seq.Stop()

	if seq.State() != StateStopped {
		t.Errorf("state = %v, want stopped", seq.State())
	}
	if !timer.stopped {
		t.Error("dwell timer not cancelled by Stop")
	}
	if *ended != 0 {
		t.Errorf("ended fired %d times on Stop, want 0", *ended)
	}

	// a racing timer fire after Stop is dropped
	timer.fn()
	if seq.State() != StateStopped {
		t.Errorf("state after stale fire = %v, want stopped", seq.State())
	}
}

func TestSequencerRenderFailureStillAdvances(t *testing.T) {
	items := []model.PlaylistItem{
		imageItem(1, "a.png", 3),
		imageItem(2, "b.png", 3),
	}
	render := &fakeRender{renderErr: errors.New("device unreachable")}
	ctl := &timerCtl{}
	seq := NewSequencer(7, nil, render, nil)
	seq.newTimer = ctl.newTimer
	if err := seq.Start(model.Playlist{ID: 1, Items: items}, Options{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// fallback timer keeps the sequence moving past the failed render
	ctl.fireLast(t)
	if idx := seq.CurrentIndex(); idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}
}

// The worked sequence: imageA (default 5s) -> videoB (callback) ->
// webC (20s) -> finished, ended exactly once.
func TestSequencerMixedPlaylistSequence(t *testing.T) {
	items := []model.PlaylistItem{
		{ID: 1, Type: model.ItemTypeImage, Source: "imageA.png"},
		{ID: 2, Type: model.ItemTypeVideo, Source: "videoB.mp4"},
		{ID: 3, Type: model.ItemTypeWeb, Source: "http://c", Duration: 20},
	}
	seq, render, ctl, ended := newTestSequencer(t, items, Options{})

	if d := ctl.last().duration; d != 5*time.Second {
		t.Errorf("imageA dwell = %v, want 5s", d)
	}
	ctl.fireLast(t)

	// videoB: no new timer, callback drives
	if got := render.renderedSources(); got[len(got)-1] != "videoB.mp4" {
		t.Fatalf("rendered %v, want videoB on screen", got)
	}
	seq.OnItemFinished(seq.Generation())

	if d := ctl.last().duration; d != 20*time.Second {
		t.Errorf("webC dwell = %v, want 20s", d)
	}
	ctl.fireLast(t)

	if seq.State() != StateFinished {
		t.Errorf("state = %v, want finished", seq.State())
	}
	if *ended != 1 {
		t.Errorf("ended fired %d times, want 1", *ended)
	}
	want := []string{"imageA.png", "videoB.mp4", "http://c"}
	got := render.renderedSources()
	if len(got) != 3 {
		t.Fatalf("rendered %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("render %d = %q, want %q", i, got[i], want[i])
		}
	}
}
