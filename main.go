package main

import (
	"context"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/backend"
	"github.com/kresus/backend/pkg/config"
	"github.com/kresus/backend/pkg/controllers"
	"github.com/kresus/backend/pkg/duplicates"
	"github.com/kresus/backend/pkg/fetch"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/pkg/router"
	"github.com/kresus/backend/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:generate swag init --parseDependency --output ./api

// @title						Kresus
// @version					0.0.0
// @description				The backend of Kresus, a personal finance manager
// @BasePath					/
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create data directory
	err = os.MkdirAll(cfg.DataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	db, err := models.Connect(cfg.DatabasePath() + "?_pragma=foreign_keys(1)")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	weboob := fetch.NewWeboob(fetch.WeboobConfig{
		Executable: cfg.PythonExec,
		Script:     cfg.WeboobScript,
		Dir:        cfg.WeboobDir,
		Debug:      cfg.WeboobDebug,
	})

	// The demo bank is always available, everything else goes
	// through weboob unless only the demo is wanted
	var source fetch.Source = fetch.Mux{
		Banks:    map[string]fetch.Source{"demo": fetch.NewDemo()},
		Fallback: weboob,
	}
	if cfg.Demo {
		log.Info().Msg("Demo mode, only the demo bank is available")
		source = fetch.NewDemo()
	}

	s := store.New(backend.NewLocal(db, source, cfg.DefaultCurrency), store.Settings{
		Constants: store.Constants{
			DefaultCurrency: cfg.DefaultCurrency,
			Locale:          cfg.Locale,
		},
		DefaultAccountID: cfg.DefaultAccountID,
	})

	err = s.Load(context.Background())
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	co := controllers.Controller{
		Store:   s,
		DB:      db,
		Fetcher: weboob,
		Duplicates: duplicates.Options{
			Threshold: cfg.DuplicateThreshold,
		},
	}

	path := cfg.APIURL.Path
	if path == "" {
		path = "/"
	}
	router.AttachRoutes(co, r.Group(path), cfg.EnablePprof)

	if err := r.Run(cfg.Address()); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
