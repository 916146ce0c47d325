package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/config"
	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/http/middleware"
	"github.com/Argus-Signage/argus/internal/playback"
	redisclient "github.com/Argus-Signage/argus/internal/redis"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	env := LoadEnvironment(cfg)

	// initialize PostgreSQL
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}
	store := db.NewStore(db.DB)

	if cfg.RedisAddress != "" {
		redisclient.InitRedis(cfg.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	storageSystem := InitStorage(env)

	// MQTT carries render commands to displays and playback reports back
	middleware.SetBrokerURL(cfg.MQTTBrokerURL)
	mqttClient, err := middleware.CreateMQTTClient("argus-server")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MQTT broker")
	}
	defer middleware.CleanupMQTT()

	notifier := playback.NotifierFunc(func(displayID int) {
		redisclient.InvalidateResolved(context.Background(), displayID)
	})
	engine := playback.NewEngine(store, middleware.NewMQTTRenderPort(mqttClient), notifier)
	defer engine.StopAll()

	if err := middleware.SubscribePlaybackEvents(mqttClient, engine); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to playback events")
	}

	// resume playback for displays that already have live assignments
	if err := engine.Bootstrap(time.Now()); err != nil {
		log.Error().Err(err).Msg("playback bootstrap failed")
	}

	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem, engine)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
