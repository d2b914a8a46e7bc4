package main

import (
	"context"
	"net/http"
	"os"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"subwave/config"
	"subwave/database"
	"subwave/handlers"
	"subwave/lyrics"
	"subwave/sentry"
	"subwave/spotify"
	"subwave/subsonic"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}

	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		TimestampFormat: time.RFC3339,
	})
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	config.NewConfig()
	sentry.Init()

	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	if !config.Config.Subsonic.IsComplete() {
		log.Fatal("SUBSONIC_SERVER_URL, SUBSONIC_USERNAME and SUBSONIC_PASSWORD must be set")
	}

	db, err := database.New(config.Config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	var clientOpts []subsonic.ClientOption
	if name := config.Config.Subsonic.ClientName; name != "" {
		clientOpts = append(clientOpts, subsonic.WithClientName(name))
	}
	catalog := subsonic.NewClient(
		config.Config.Subsonic.ServerURL,
		config.Config.Subsonic.Username,
		config.Config.Subsonic.Password,
		clientOpts...,
	)

	// A dead music server should not stop the gateway from starting;
	// requests will surface the outage per call.
	if err := catalog.Ping(ctx); err != nil {
		log.Warnf("Music server not reachable at startup: %v", err)
	}

	if config.Config.Spotify.Enabled {
		if err := spotify.NewSpotifyClient(); err != nil {
			log.Warnf("Spotify enrichment disabled: %v", err)
			config.Config.Spotify.Enabled = false
		}
	}

	manager := handlers.NewManager(catalog, db, lyrics.New())

	router := gin.Default()
	router.Use(sentry.GetSentryGin())
	manager.Register(router)

	port := config.Config.Options.Port
	if port == "" {
		port = "8080"
	}
	log.Infof("Starting server on :%s", port)
	return http.ListenAndServe(":"+port, router)
}
