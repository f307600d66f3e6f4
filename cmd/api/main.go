package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"cotizador_backend/internal/catalog"
	"cotizador_backend/internal/chat"
	"cotizador_backend/internal/chat/session"
	"cotizador_backend/internal/events"
	apphttp "cotizador_backend/internal/http"
	"cotizador_backend/internal/http/router"
	"cotizador_backend/internal/orders"
	"cotizador_backend/platform/ai/gemini"
	"cotizador_backend/platform/config"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)
	val := validator.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewInMemoryBus(log)
	registerAuditSubscribers(bus, log)

	model, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Temperature: cfg.GeminiTemperature,
	})
	if err != nil {
		return fmt.Errorf("init gemini client: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	catalogModule := catalog.NewModule(cfg, httpClient, val, log)

	store, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}

	orderClient := orders.NewDuxClient(log)
	chatModule := chat.NewModule(store, model, catalogModule.Service(), orderClient, bus, val, log)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		EventBus: bus,
		Modules:  []apphttp.Module{catalogModule, chatModule},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newSessionStore picks the session backend. Redis keeps conversations across
// restarts; the in-memory store is the default for single-process setups.
func newSessionStore(ctx context.Context, cfg config.SessionConfig, log *logger.Logger) (session.Store, error) {
	if !cfg.IsRedisEnabled() {
		log.Info("session store: in-memory")
		return session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("session store: redis", "addr", cfg.GetRedisAddr())
	return session.NewRedisStore(client, cfg.GetSessionTTL()), nil
}

// registerAuditSubscribers logs domain events for observability.
func registerAuditSubscribers(bus events.Bus, log *logger.Logger) {
	bus.Subscribe(events.QuoteUpdated{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			if e, ok := event.(events.QuoteUpdated); ok {
				log.Info("quote updated",
					"session_id", e.SessionID,
					"items", e.ItemCount,
					"total", e.Total,
				)
			}
			return nil
		}))

	bus.Subscribe(events.OrderCreated{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			if e, ok := event.(events.OrderCreated); ok {
				log.Info("order created",
					"session_id", e.SessionID,
					"order_id", e.OrderID,
					"items", e.ItemCount,
					"total", e.Total,
				)
			}
			return nil
		}))
}
