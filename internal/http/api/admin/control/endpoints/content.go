package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/http/api"
	"github.com/Argus-Signage/argus/internal/http/api/admin/control/packets"
	"github.com/Argus-Signage/argus/internal/model"
	"github.com/Argus-Signage/argus/internal/playback"
	"github.com/Argus-Signage/argus/internal/storage"
)

type ContentController struct {
	store   db.Store
	engine  *playback.Engine
	storage storage.Storage
}

func newContentController(store db.Store, engine *playback.Engine, storage storage.Storage) *ContentController {
	return &ContentController{store: store, engine: engine, storage: storage}
}

// ContentModule mounts the authenticated assignment and media endpoints.
func ContentModule(store db.Store, engine *playback.Engine, storage storage.Storage) api.Module {
	ctl := newContentController(store, engine, storage)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/displays/:id/content", 	ctl.assignContent)
		c.GET("/displays/:id/content", 		ctl.getResolvedContent)
		c.DELETE("/displays/:id/content", 	ctl.clearContent)

		c.POST("/media", ctl.uploadMedia)
	})
}

func mapAssignment(a model.ContentAssignment) packets.AssignmentResponse {
	return packets.AssignmentResponse{
		ID:              a.ID,
		DisplayID:       a.DisplayID,
		ContentMode:     string(a.ContentMode),
		ContentType:     a.ContentType,
		ContentValue:    a.ContentValue,
		PlaylistID:      a.PlaylistID,
		ScheduleID:      a.ScheduleID,
		DisplayDuration: a.DisplayDuration,
		StartAt:         a.StartAt,
		EndAt:           a.EndAt,
		IsLoop:          a.IsLoop,
		Priority:        a.Priority,
		CreatedAt:       a.CreatedAt,
	}
}

func mapResolved(rc *playback.ResolvedContent) packets.ResolvedContentResponse {
	resp := packets.ResolvedContentResponse{
		Assignment: mapAssignment(rc.Assignment),
		Status:     string(rc.Status),
	}
	if rc.Playlist != nil {
		pl := mapPlaylist(*rc.Playlist)
		resp.Playlist = &pl
	}
	if rc.Schedule != nil {
		sch := mapSchedule(*rc.Schedule)
		resp.Schedule = &sch
	}
	return resp
}

// assignContent replaces the display's active assignment. The store supersedes
// the previous assignment and inserts the new one in one transaction, then the
// engine re-resolves the display so playback switches before we answer.
func (c *ContentController) assignContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	display, apiErr := c.ownedDisplay(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.AssignContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("[content] assign: bad request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	a := model.ContentAssignment{
		DisplayID:       display.ID,
		ContentMode:     model.ContentMode(req.ContentMode),
		ContentType:     req.ContentType,
		ContentValue:    req.ContentValue,
		PlaylistID:      req.PlaylistID,
		ScheduleID:      req.ScheduleID,
		DisplayDuration: req.DisplayDuration,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		IsLoop:          req.IsLoop,
		Priority:        req.Priority,
		IsActive:        true,
	}

	switch a.ContentMode {
	case model.ModeSimple:
		if a.ContentValue == "" {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "content_value is required for SIMPLE mode"}
		}
	case model.ModePlaylist:
		if a.PlaylistID == nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "playlist_id is required for PLAYLIST mode"}
		}
		if _, err := c.store.GetPlaylistByID(*a.PlaylistID); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
		}
	case model.ModeSchedule:
		if a.ScheduleID == nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "schedule_id is required for SCHEDULE mode"}
		}
		if _, err := c.store.GetSchedule(*a.ScheduleID); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
		}
	}

	saved, err := c.store.SaveAssignment(a)
	if err != nil {
		log.Error().Err(err).Int("display_id", display.ID).Msg("[content] assign: save failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save assignment"}
	}

	if err := c.engine.Refresh(display.ID, time.Now()); err != nil {
		log.Error().Err(err).Int("display_id", display.ID).Msg("[content] assign: refresh failed")
	}

	return mapAssignment(saved), nil
}

func (c *ContentController) getResolvedContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	display, apiErr := c.ownedDisplay(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	rc, err := c.engine.Resolve(display.ID, time.Now())
	if errors.Is(err, playback.ErrNoAssignment) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no content assigned"}
	}
	if err != nil {
		log.Error().Err(err).Int("display_id", display.ID).Msg("[content] resolve failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not resolve content"}
	}

	return mapResolved(rc), nil
}

func (c *ContentController) clearContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	display, apiErr := c.ownedDisplay(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := c.store.ClearAssignment(display.ID); err != nil {
		log.Error().Err(err).Int("display_id", display.ID).Msg("[content] clear failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not clear assignment"}
	}

	if err := c.engine.Refresh(display.ID, time.Now()); err != nil {
		log.Error().Err(err).Int("display_id", display.ID).Msg("[content] clear: refresh failed")
	}
	return nil, nil
}

func (c *ContentController) uploadMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("source")
	if err != nil {
		log.Warn().Err(err).Msg("[content] uploadMedia: missing file")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	uploadPath, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("[content] uploadMedia: save failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	return packets.MediaUploadResponse{URL: uploadPath}, nil
}

func (c *ContentController) ownedDisplay(ctx *gin.Context, user *model.User) (model.Display, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.Display{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid display id"}
	}
	display, err := c.store.GetDisplayByID(id)
	if err != nil {
		return model.Display{}, &api.APIError{Code: http.StatusNotFound, Message: "display not found"}
	}
	if display.CreatedBy != user.ID {
		return model.Display{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return display, nil
}
