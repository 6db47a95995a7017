package main

import (
	"errors"
	"flag"
	"io/fs"

	"github.com/rs/zerolog/log"

	"github.com/jyotish-labs/dashactl/internal/config"
	"github.com/jyotish-labs/dashactl/internal/logging"
	"github.com/jyotish-labs/dashactl/internal/observability"
	"github.com/jyotish-labs/dashactl/internal/server"
)

func main() {
	configPath := flag.String("config", "cmd/dashad/config.toml", "path to dashad TOML config")
	flag.Parse()

	logging.ConfigureRuntime()
	observability.InitLogger("dashad")

	cfg, err := loadServerConfig(*configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = config.DefaultServerConfig()
			log.Warn().Str("path", *configPath).Msg("config missing, using defaults")
		} else {
			log.Fatal().Err(err).Msg("failed to load dashad config")
		}
	} else {
		log.Info().Str("path", *configPath).Msg("loaded dashad config")
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build dashad server")
	}
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("dashad stopped")
	}
}
