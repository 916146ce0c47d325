package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/http/api"
	"github.com/Argus-Signage/argus/internal/http/api/admin/control/packets"
	"github.com/Argus-Signage/argus/internal/model"
)

type ScheduleController struct {
	store db.Store
}

func newScheduleController(store db.Store) *ScheduleController {
	return &ScheduleController{store: store}
}

// ScheduleModule mounts all authenticated /schedules endpoints.
func ScheduleModule(store db.Store) api.Module {
	ctl := newScheduleController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", 		ctl.listSchedules)
		c.POST("/schedules", 		ctl.createSchedule)
		c.GET("/schedules/:id", 	ctl.getSchedule)
		c.PUT("/schedules/:id", 	ctl.updateSchedule)
		c.DELETE("/schedules/:id", 	ctl.deleteSchedule)
	})
}

func mapSchedule(s model.Schedule) packets.ScheduleResponse {
	return packets.ScheduleResponse{
		ID:           s.ID,
		Name:         s.Name,
		ScheduleType: s.ScheduleType,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		DaysOfWeek:   s.DaysOfWeek,
		IsActive:     s.IsActive,
	}
}

func (s *ScheduleController) listSchedules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := s.store.ListSchedules(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[schedule] list failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list schedules"}
	}

	out := make([]packets.ScheduleResponse, len(all))
	for i, x := range all {
		out[i] = mapSchedule(x)
	}
	return out, nil
}

func (s *ScheduleController) createSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	sch, err := s.store.CreateSchedule(model.Schedule{
		Name:         req.Name,
		ScheduleType: req.ScheduleType,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		DaysOfWeek:   req.DaysOfWeek,
		IsActive:     true,
		CreatedBy:    user.ID,
	})
	if err != nil {
		log.Error().Err(err).Msg("[schedule] create failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create schedule"}
	}
	return mapSchedule(sch), nil
}

func (s *ScheduleController) getSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	sch, apiErr := s.ownedSchedule(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return mapSchedule(sch), nil
}

func (s *ScheduleController) updateSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	sch, apiErr := s.ownedSchedule(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := s.store.UpdateSchedule(sch.ID, req.Name, req.StartTime, req.EndTime, req.DaysOfWeek, req.IsActive); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	full, _ := s.store.GetSchedule(sch.ID)
	return mapSchedule(full), nil
}

func (s *ScheduleController) deleteSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	sch, apiErr := s.ownedSchedule(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := s.store.DeleteSchedule(sch.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return nil, nil
}

func (s *ScheduleController) ownedSchedule(ctx *gin.Context, user *model.User) (model.Schedule, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.Schedule{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	sch, err := s.store.GetSchedule(id)
	if err != nil {
		return model.Schedule{}, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	if sch.CreatedBy != user.ID {
		return model.Schedule{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return sch, nil
}
