// README: Entry point; loads config, wires the planner, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daytrip/internal/app"
	"daytrip/internal/config"
	httptransport "daytrip/internal/http"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, true)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	handler := httptransport.NewServer(httptransport.ServerDeps{Planner: a.Planner})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s (provider=%s, search=%s)", cfg.HTTP.Addr, cfg.AI.Provider, cfg.Search.Engine)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
