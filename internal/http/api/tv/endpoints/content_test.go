package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/model"
	"github.com/Argus-Signage/argus/internal/playback"
)

type fakeStore struct {
	db.Store
	display     model.Display
	assignments []model.ContentAssignment
	playlists   map[int]model.Playlist
}

func (f *fakeStore) GetDisplayByID(id int) (model.Display, error) {
	if id != f.display.ID {
		return model.Display{}, errors.New("display not found")
	}
	return f.display, nil
}

func (f *fakeStore) GetActiveAssignments(displayID int) ([]model.ContentAssignment, error) {
	return f.assignments, nil
}

func (f *fakeStore) GetPlaylistByID(id int) (model.Playlist, error) {
	pl, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, errors.New("playlist not found")
	}
	return pl, nil
}

type nopRender struct{}

func (nopRender) Render(playback.RenderItem) error { return nil }
func (nopRender) Clear(int) error                  { return nil }

func newTestRouter(store db.Store, engine *playback.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPlayerRoutes(r.Group("/api/tv"), store, engine)
	return r
}

func TestPollWithoutAssignmentIs404(t *testing.T) {
	store := &fakeStore{display: model.Display{ID: 7}}
	engine := playback.NewEngine(store, nopRender{}, nil)
	r := newTestRouter(store, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/tv/displays/7/content", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPollReturnsContentAndHonorsETag(t *testing.T) {
	store := &fakeStore{
		display: model.Display{ID: 7},
		assignments: []model.ContentAssignment{{
			ID:           3,
			DisplayID:    7,
			ContentMode:  model.ModeSimple,
			ContentType:  model.ItemTypeImage,
			ContentValue: "http://cdn/a.png",
			IsActive:     true,
		}},
	}
	engine := playback.NewEngine(store, nopRender{}, nil)
	r := newTestRouter(store, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/tv/displays/7/content", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("response has no ETag")
	}

	var resp struct {
		Source string `json:"source"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Source != "http://cdn/a.png" {
		t.Errorf("source = %q", resp.Source)
	}
	if resp.Status != "LIVE" {
		t.Errorf("status = %q, want LIVE", resp.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tv/displays/7/content", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified {
		t.Errorf("unchanged content: status = %d, want 304", w.Code)
	}
}

func TestPlaybackFinishedAdvancesSequencer(t *testing.T) {
	pid := 4
	store := &fakeStore{
		display: model.Display{ID: 7},
		assignments: []model.ContentAssignment{{
			ID:          3,
			DisplayID:   7,
			ContentMode: model.ModePlaylist,
			PlaylistID:  &pid,
			IsActive:    true,
		}},
		playlists: map[int]model.Playlist{
			4: {ID: 4, Name: "loop", Items: []model.PlaylistItem{
				{ID: 1, Position: 1, Type: model.ItemTypeVideo, Source: "a.mp4"},
				{ID: 2, Position: 2, Type: model.ItemTypeVideo, Source: "b.mp4"},
			}},
		},
	}
	engine := playback.NewEngine(store, nopRender{}, nil)
	r := newTestRouter(store, engine)

	if err := engine.Refresh(7, time.Now()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	seq, ok := engine.Sequencer(7)
	if !ok {
		t.Fatal("no sequencer after refresh")
	}
	gen := seq.Generation()

	body := strings.NewReader(fmt.Sprintf(`{"generation":%d}`, gen))
	req := httptest.NewRequest(http.MethodPost, "/api/tv/displays/7/playback/finished", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if seq.CurrentIndex() != 1 {
		t.Errorf("index = %d, want 1 after finished report", seq.CurrentIndex())
	}

	// a stale generation must not advance anything
	req = httptest.NewRequest(http.MethodPost, "/api/tv/displays/7/playback/finished",
		strings.NewReader(fmt.Sprintf(`{"generation":%d}`, gen)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("stale report: status = %d", w.Code)
	}
	if seq.CurrentIndex() != 1 {
		t.Errorf("index = %d, stale report must be dropped", seq.CurrentIndex())
	}
}
