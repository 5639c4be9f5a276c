package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bastion-tracker/code"
)

func main() {
	config := MustLoadConfig()
	SetupLogger(config.Env, config.LogLevel)
	if config.RejoinSecret == defaultRejoinSecret {
		LogDefaultRejoinSecret()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := NewRegistry(code.NewGenerator(time.Now().UnixNano()))
	hub := NewHub(registry)
	go NewSweeper(registry, hub, config.SweepInterval, config.MaxRoomAge).Run(ctx)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           NewHTTPServer(config, registry, hub, NewRejoinKeys(config.RejoinSecret)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		LogStartedServer(config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Server crashed")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	LogStoppedServer()
}
