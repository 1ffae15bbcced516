package main

import (
	"github.com/rs/zerolog/log"

	"github.com/timcollins90/react-msger-app/internal/chat"
	"github.com/timcollins90/react-msger-app/internal/config"
	clog "github.com/timcollins90/react-msger-app/internal/log"
	"github.com/timcollins90/react-msger-app/internal/server"
	"github.com/timcollins90/react-msger-app/internal/ws"
)

func main() {
	cfg := config.Load()
	clog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	registry := chat.NewRegistry(cfg.HistoryLimit)
	hub := ws.NewHub(registry)
	go hub.Run()

	r := server.SetupRouter(cfg, registry, hub)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("chat server listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
