package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"reelmatch/config"
	"reelmatch/handlers"
	"reelmatch/internal/database"
	"reelmatch/internal/state"
	"reelmatch/services/catalog"
	"reelmatch/services/recommend"
	"reelmatch/services/swipes"
)

func main() {
	_ = godotenv.Load()

	settingsPath := os.Getenv("REELMATCH_SETTINGS")
	if settingsPath == "" {
		settingsPath = "data/settings.json"
	}

	settings, err := config.NewManager(settingsPath).Load()
	if err != nil {
		log.Fatalf("[main] load settings: %v", err)
	}
	settings.ApplyEnv()

	if settings.Log.Path != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   settings.Log.Path,
			MaxSize:    settings.Log.MaxSizeMB,
			MaxBackups: settings.Log.MaxBackups,
			MaxAge:     settings.Log.MaxAgeDays,
		}))
	}

	log.Printf("[main] TMDB key %s, OMDB key %s",
		keyStatus(settings.Catalog.TMDBAPIKey), keyStatus(settings.Catalog.OMDBAPIKey))

	cacheDB, err := database.NewDB(database.Config{DatabasePath: settings.Catalog.CacheDatabasePath})
	if err != nil {
		log.Fatalf("[main] open cache database: %v", err)
	}
	defer cacheDB.Close()

	tmdb := catalog.NewTMDBClient(settings.Catalog.TMDBAPIKey)
	omdb := catalog.NewOMDBClient(settings.Catalog.OMDBAPIKey)
	catalogSvc := catalog.NewService(tmdb, omdb, cacheDB.Enrichment,
		time.Duration(settings.Catalog.CacheTTLHours)*time.Hour)

	store := state.NewStore(settings.State.Path)
	swipeSvc, err := swipes.NewServiceWithClock(store,
		time.Duration(settings.Matches.TTLHours)*time.Hour, time.Now)
	if err != nil {
		log.Fatalf("[main] init swipe service: %v", err)
	}

	selector := recommend.NewSelector(catalogSvc)

	router := handlers.NewRouter(
		handlers.NewMoviesHandler(selector, swipeSvc, catalogSvc),
		handlers.NewSwipeHandler(swipeSvc),
		handlers.NewMatchesHandler(swipeSvc),
		handlers.NewUsersHandler(swipeSvc),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", settings.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[main] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}

func keyStatus(key string) string {
	if key == "" {
		return "not configured"
	}
	return "configured"
}
