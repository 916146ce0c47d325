package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/http/api"
	"github.com/Argus-Signage/argus/internal/playback"
	"github.com/Argus-Signage/argus/internal/storage"

	adminapi 	"github.com/Argus-Signage/argus/internal/http/api/admin/control/endpoints"
	authapi  	"github.com/Argus-Signage/argus/internal/http/api/admin/auth/endpoints"
	clientapi 	"github.com/Argus-Signage/argus/internal/http/api/tv/endpoints"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, storageSystem storage.Storage, engine *playback.Engine) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.JWTSecret, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.JWTSecret,
		Store:     store,
	},
		// control modules
		adminapi.DisplayModule(store, engine),
		adminapi.PlaylistModule(store, engine),
		adminapi.ContentModule(store, engine, storageSystem),
		adminapi.ScheduleModule(store),
		// session endpoints that require auth
		authapi.AuthSessionModule(env.JWTSecret, store),
	)

	// device-facing endpoints are unauthenticated; displays poll for content
	// and report playback outcomes
	clientapi.RegisterPlayerRoutes(r.Group("/api/tv"), store, engine)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
