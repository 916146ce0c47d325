package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/http/api/tv/packets"
	"github.com/Argus-Signage/argus/internal/model"
	"github.com/Argus-Signage/argus/internal/playback"
	redisclient "github.com/Argus-Signage/argus/internal/redis"
)

const resolvedETagTTL = 5 * time.Minute

type PlayerController struct {
	store  db.Store
	engine *playback.Engine
}

func NewPlayerController(store db.Store, engine *playback.Engine) *PlayerController {
	return &PlayerController{store: store, engine: engine}
}

// RegisterPlayerRoutes mounts the unauthenticated device-facing endpoints.
// Display devices poll /displays/:id/content and report playback outcomes.
func RegisterPlayerRoutes(r gin.IRoutes, store db.Store, engine *playback.Engine) {
	ctl := NewPlayerController(store, engine)
	r.GET("/displays/:id/content", ctl.getContent)
	r.POST("/displays/:id/playback/finished", ctl.playbackFinished)
	r.POST("/displays/:id/playback/failed", ctl.playbackFailed)
}

// GET /api/tv/displays/:id/content
func (t *PlayerController) getContent(c *gin.Context) {
	displayID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid display id"})
		return
	}

	if _, err := t.store.GetDisplayByID(displayID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "display not found"})
		return
	}

	// the cached ETag survives exactly until the next assignment or playlist
	// write, so a match here can skip resolving entirely
	if match := c.GetHeader("If-None-Match"); match != "" {
		if cached := redisclient.GetResolvedETag(c, displayID); cached != "" && cached == match {
			c.Status(http.StatusNotModified)
			return
		}
	}

	rc, err := t.engine.Resolve(displayID, time.Now())
	if errors.Is(err, playback.ErrNoAssignment) {
		// idle, the device blanks its output
		c.JSON(http.StatusNotFound, gin.H{"error": "no content assigned"})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("display_id", displayID).Msg("[tv] resolve failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve content"})
		return
	}

	etag := resolvedETag(rc)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	redisclient.SetResolvedETag(c, displayID, etag, resolvedETagTTL)

	c.Header("ETag", etag)
	c.JSON(http.StatusOK, t.mapPlayerContent(displayID, rc))
}

// POST /api/tv/displays/:id/playback/finished
func (t *PlayerController) playbackFinished(c *gin.Context) {
	t.playbackReport(c, t.engine.ItemFinished)
}

// POST /api/tv/displays/:id/playback/failed
func (t *PlayerController) playbackFailed(c *gin.Context) {
	t.playbackReport(c, t.engine.ItemFailed)
}

func (t *PlayerController) playbackReport(c *gin.Context, report func(int, uint64)) {
	displayID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid display id"})
		return
	}

	var req packets.PlaybackReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// stale generations are dropped inside the sequencer
	report(displayID, req.Generation)
	c.Status(http.StatusNoContent)
}

// resolvedETag changes whenever the assignment or its playlist does, so a
// polling device re-fetches exactly when the resolved answer changed.
func resolvedETag(rc *playback.ResolvedContent) string {
	if rc.Playlist != nil {
		return fmt.Sprintf(`"a%d-p%d-%d"`, rc.Assignment.ID, rc.Playlist.ID, rc.Playlist.UpdatedAt.Unix())
	}
	return fmt.Sprintf(`"a%d-%d"`, rc.Assignment.ID, rc.Assignment.CreatedAt.Unix())
}

func (t *PlayerController) mapPlayerContent(displayID int, rc *playback.ResolvedContent) packets.PlayerContentResponse {
	resp := packets.PlayerContentResponse{
		DisplayID:   displayID,
		ContentMode: string(rc.Assignment.ContentMode),
		ContentType: rc.Assignment.ContentType,
		Source:      rc.Assignment.ContentValue,
		Duration:    rc.Assignment.DisplayDuration,
		IsLoop:      rc.Assignment.IsLoop,
		Status:      string(rc.Status),
		ResolvedAt:  time.Now().UTC(),
	}

	if rc.Playlist != nil {
		resp.Items = make([]packets.PlayerItemResponse, len(rc.Playlist.Items))
		for i, it := range rc.Playlist.Items {
			resp.Items[i] = mapPlayerItem(it)
		}
	}

	if seq, ok := t.engine.Sequencer(displayID); ok {
		resp.State = seq.State().String()
		resp.Generation = seq.Generation()
	}
	return resp
}

func mapPlayerItem(it model.PlaylistItem) packets.PlayerItemResponse {
	return packets.PlayerItemResponse{
		ID:       it.ID,
		Position: it.Position,
		Name:     it.Name,
		Type:     it.Type,
		Duration: it.Duration,
		Source:   it.Source,
	}
}
