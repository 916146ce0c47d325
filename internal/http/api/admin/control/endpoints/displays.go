package endpoints

import (
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
)

type DisplayController struct {
	store  db.Store
	engine *playback.Engine
}

func newDisplayController(store db.Store, engine *playback.Engine) *DisplayController {
	return &DisplayController{store: store, engine: engine}
}

// DisplayModule mounts all authenticated /displays endpoints.
func DisplayModule(store db.Store, engine *playback.Engine) api.Module {
	ctl := newDisplayController(store, engine)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/displays", 			ctl.listDisplays)
		c.POST("/displays", 		ctl.createDisplay)
		c.GET("/displays/:id", 		ctl.getDisplay)
		c.PUT("/displays/:id", 		ctl.updateDisplay)
		c.DELETE("/displays/:id", 	ctl.deleteDisplay)

		c.POST("/displays/:id/start", 	ctl.startDisplay)
		c.POST("/displays/:id/stop", 	ctl.stopDisplay)
	})
}

func mapDisplay(d model.Display) packets.DisplayResponse {
	return packets.DisplayResponse{
		ID:        d.ID,
		Name:      d.Name,
		IsPrimary: d.IsPrimary,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d *DisplayController) listDisplays(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := d.store.ListDisplays()
	if err != nil {
		log.Error().Err(err).Msg("[display] list: could not list displays")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list displays"}
	}

	out := make([]packets.DisplayResponse, 0, len(all))
	for _, x := range all {
		if x.CreatedBy != user.ID {
			continue
		}
		out = append(out, mapDisplay(x))
	}
	return out, nil
}

func (d *DisplayController) createDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateDisplayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	display, err := d.store.CreateDisplay(req.Name, req.IsPrimary, user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[display] create: could not create display")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create display"}
	}
	return mapDisplay(display), nil
}

func (d *DisplayController) getDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	display, apiErr := d.ownedDisplay(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return mapDisplay(display), nil
}

func (d *DisplayController) updateDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	display, apiErr := d.ownedDisplay(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdateDisplayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := d.store.UpdateDisplay(display.ID, req.Name, req.IsPrimary); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	full, _ := d.store.GetDisplayByID(display.ID)
	return mapDisplay(full), nil
}

func (d *DisplayController) deleteDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	display, apiErr := d.ownedDisplay(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	d.engine.StopDisplay(display.ID)

	if err := d.store.DeleteDisplay(display.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return nil, nil
}

// startDisplay resolves the display's assignment and begins playback; a
// display with nothing live simply stays idle.
func (d *DisplayController) startDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	display, apiErr := d.ownedDisplay(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := d.engine.Refresh(display.ID, time.Now()); err != nil {
		log.Error().Err(err).Int("display_id", display.ID).Msg("[display] start failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not start display"}
	}
	return nil, nil
}

func (d *DisplayController) stopDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	display, apiErr := d.ownedDisplay(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	d.engine.StopDisplay(display.ID)
	return nil, nil
}

func (d *DisplayController) ownedDisplay(ctx *gin.Context, user *model.User) (model.Display, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.Display{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	display, err := d.store.GetDisplayByID(id)
	if err != nil {
		return model.Display{}, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	if display.CreatedBy != user.ID {
		return model.Display{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return display, nil
}
