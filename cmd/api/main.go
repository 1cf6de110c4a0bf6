package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sparklabs/sparkchat/internal/config"
	"github.com/sparklabs/sparkchat/internal/handler"
	"github.com/sparklabs/sparkchat/internal/service/ai"
	"github.com/sparklabs/sparkchat/internal/service/chat"
	"github.com/sparklabs/sparkchat/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	turnStore, err := store.Open(cfg.Store.DSN)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := turnStore.Close(); err != nil {
			log.Printf("warning: failed to close store: %v", err)
		}
	}()
	log.Printf("conversation store ready (dsn=%s)", cfg.Store.DSN)

	gateway, err := ai.NewGateway(cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize completion gateway: %v", err)
	}

	// Operator visibility only; a failure here must never block serving.
	listAvailableModels(ctx, gateway)

	chatService := chat.NewService(turnStore, gateway)
	router := handler.NewRouter(chatService)

	startServer(ctx, cfg.Server, router)
}

// listAvailableModels logs the model ids the completion endpoint offers.
func listAvailableModels(ctx context.Context, gateway *ai.Gateway) {
	listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models, err := gateway.ListModels(listCtx)
	if err != nil {
		log.Printf("warning: failed to list models: %v", err)
		return
	}
	log.Printf("available models: %s", strings.Join(models, ", "))
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("sparkchat backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
