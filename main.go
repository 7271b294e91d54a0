package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drawstream/internal/color"
	"drawstream/internal/config"
	"drawstream/internal/draw"
	"drawstream/internal/middleware"
	"drawstream/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: Loading config - %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ipRateLimiter := middleware.NewIPRateLimit()
	handler := transport.NewHandler(cfg, ipRateLimiter, draw.NewCodec(draw.NewValidator()), color.NewGenerator(), nil)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: transport.NewRouter(handler),
		// streams end with the server
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go cleanupLimiters(ctx, ipRateLimiter)

	go func() {
		log.Printf("Draw stream server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error: Shutting down server - %v", err)
	}
}

// cleanupLimiters: Routine to drop idle per-IP limiters.
func cleanupLimiters(ctx context.Context, iprl *middleware.IPRateLimit) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			iprl.Cleanup()
		}
	}
}
