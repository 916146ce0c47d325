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

type PlaylistController struct {
	store  db.Store
	engine *playback.Engine
}

func newPlaylistController(store db.Store, engine *playback.Engine) *PlaylistController {
	return &PlaylistController{store: store, engine: engine}
}

// PlaylistModule mounts all authenticated /playlists endpoints.
func PlaylistModule(store db.Store, engine *playback.Engine) api.Module {
	ctl := newPlaylistController(store, engine)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/playlists", 		ctl.listPlaylists)
		c.POST("/playlists", 		ctl.createPlaylist)
		c.GET("/playlists/:id", 	ctl.getPlaylist)
		c.PUT("/playlists/:id", 	ctl.updatePlaylist)
		c.DELETE("/playlists/:id", 	ctl.deletePlaylist)

		c.POST("/playlists/:id/items", 				ctl.addItem)
		c.PUT("/playlists/:id/items/:item_id", 		ctl.updateItem)
		c.DELETE("/playlists/:id/items/:item_id", 	ctl.removeItem)
		c.GET("/playlists/:id/items",		 		ctl.listItems)
		c.PUT("/playlists/:id/items", 				ctl.reorderItems)

		c.POST("/playlists/:id/items/:item_id/move-up", 	ctl.moveItemUp)
		c.POST("/playlists/:id/items/:item_id/move-down", 	ctl.moveItemDown)
	})
}

// notifyDisplaysPlaylistUpdated re-resolves every display whose active
// assignment points at the playlist, so running sequencers pick up the edit.
func (p *PlaylistController) notifyDisplaysPlaylistUpdated(playlistID int) {
	displays, err := p.store.GetDisplaysUsingPlaylist(playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).
			Msg("failed to get displays for playlist notification")
		return
	}

	if len(displays) == 0 {
		log.Debug().Int("playlist_id", playlistID).Msg("no displays assigned to playlist")
		return
	}

	now := time.Now()
	for _, d := range displays {
		if err := p.engine.Refresh(d.ID, now); err != nil {
			log.Error().Err(err).Int("display_id", d.ID).Int("playlist_id", playlistID).
				Msg("failed to refresh display after playlist update")
		}
	}

	log.Info().Int("playlist_id", playlistID).Int("affected_displays", len(displays)).
		Msg("playlist updated - refreshed all affected displays")
}

func mapPlaylist(pl model.Playlist) packets.PlaylistResponse {
	items := make([]packets.PlaylistItemResponse, len(pl.Items))
	for i, it := range pl.Items {
		items[i] = mapItem(it)
	}

	var desc string
	if pl.Description != nil {
		desc = *pl.Description
	}

	return packets.PlaylistResponse{
		ID:          pl.ID,
		Name:        pl.Name,
		Description: desc,
		Items:       items,
		CreatedAt:   pl.CreatedAt,
		UpdatedAt:   pl.UpdatedAt,
	}
}

func mapItem(it model.PlaylistItem) packets.PlaylistItemResponse {
	return packets.PlaylistItemResponse{
		ID:        it.ID,
		Position:  it.Position,
		Name:      it.Name,
		Type:      it.Type,
		Duration:  it.Duration,
		SizeBytes: it.SizeBytes,
		Source:    it.Source,
	}
}

func (p *PlaylistController) listPlaylists(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := p.store.ListPlaylists()
	if err != nil {
		log.Error().Err(err).Msg("[playlist] list: could not list playlists")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list playlists"}
	}

	var out []packets.PlaylistResponse
	for _, pl := range all {
		if pl.CreatedBy != user.ID {
			continue
		}
		out = append(out, mapPlaylist(pl))
	}
	return out, nil
}

func (p *PlaylistController) createPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("[playlist] create: bad request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	pl, err := p.store.CreatePlaylist(req.Name, req.Description, user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] create: could not create playlist")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create playlist"}
	}

	full, _ := p.store.GetPlaylistByID(pl.ID)
	return mapPlaylist(full), nil
}

func (p *PlaylistController) getPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return mapPlaylist(pl), nil
}

func (p *PlaylistController) updatePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.UpdatePlaylist(pl.ID, req.Name, req.Description); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	go p.notifyDisplaysPlaylistUpdated(pl.ID)

	full, _ := p.store.GetPlaylistByID(pl.ID)
	return mapPlaylist(full), nil
}

func (p *PlaylistController) deletePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := p.store.DeletePlaylist(pl.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	go p.notifyDisplaysPlaylistUpdated(pl.ID)
	return nil, nil
}

func (p *PlaylistController) addItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.AddPlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	item, err := p.store.AddPlaylistItem(pl.ID, req.Name, req.Type, req.Source, req.Duration, req.SizeBytes)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] add item failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add item"}
	}

	go p.notifyDisplaysPlaylistUpdated(pl.ID)
	return mapItem(item), nil
}

func (p *PlaylistController) updateItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	iid, err := strconv.Atoi(ctx.Param("item_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}

	var req packets.UpdatePlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.UpdatePlaylistItem(iid, req.Name, req.Duration); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	go p.notifyDisplaysPlaylistUpdated(pl.ID)
	return nil, nil
}

func (p *PlaylistController) removeItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	iid, err := strconv.Atoi(ctx.Param("item_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}

	if err := p.store.RemovePlaylistItem(pl.ID, iid); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	go p.notifyDisplaysPlaylistUpdated(pl.ID)
	return nil, nil
}

func (p *PlaylistController) listItems(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	items, err := p.store.GetPlaylistItems(pl.ID)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] list items failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list playlist items"}
	}

	out := make([]packets.PlaylistItemResponse, len(items))
	for i, it := range items {
		out[i] = mapItem(it)
	}
	return out, nil
}

func (p *PlaylistController) reorderItems(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.ReorderPlaylistItemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.ReorderPlaylistItems(pl.ID, req.ItemIDs); err != nil {
		log.Error().Err(err).Msg("[playlist] reorder failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reorder items"}
	}

	go p.notifyDisplaysPlaylistUpdated(pl.ID)
	return p.listItems(ctx, user)
}

func (p *PlaylistController) moveItemUp(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return p.moveItem(ctx, user, p.store.MovePlaylistItemUp)
}

func (p *PlaylistController) moveItemDown(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return p.moveItem(ctx, user, p.store.MovePlaylistItemDown)
}

// moveItem swaps the item one step in the given direction. A boundary move
// (first item up, last item down) is a no-op and reports moved=false.
func (p *PlaylistController) moveItem(ctx *gin.Context, user *model.User, move func(int, int) (bool, error)) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	iid, err := strconv.Atoi(ctx.Param("item_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}

	moved, err := move(pl.ID, iid)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", pl.ID).Int("item_id", iid).Msg("[playlist] move failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not move item"}
	}

	if moved {
		go p.notifyDisplaysPlaylistUpdated(pl.ID)
	}
	return packets.MoveItemResponse{Moved: moved}, nil
}

func (p *PlaylistController) ownedPlaylist(ctx *gin.Context, user *model.User) (model.Playlist, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.Playlist{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid playlist id"}
	}
	pl, err := p.store.GetPlaylistByID(id)
	if err != nil {
		return model.Playlist{}, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	if pl.CreatedBy != user.ID {
		return model.Playlist{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return pl, nil
}
