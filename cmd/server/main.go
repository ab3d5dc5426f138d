package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tagmatrix/internal/config"
	httpHandler "tagmatrix/internal/delivery/http"
	"tagmatrix/internal/delivery/websocket"
	"tagmatrix/internal/dispatch"
	"tagmatrix/internal/events"
	"tagmatrix/internal/filter"
	"tagmatrix/internal/logger"
	"tagmatrix/internal/model"
	"tagmatrix/internal/registry"
	"tagmatrix/internal/session"
)

// demoCards seeds the Card Registry at startup; the server reads no card
// fixture file. It exists so the server has something to query on first
// boot.
func demoCards() []model.Card {
	return []model.Card{
		{ID: "card-1", Tags: []string{"red", "small", "row:alpha", "col:one"}},
		{ID: "card-2", Tags: []string{"red", "large", "row:alpha", "col:two"}},
		{ID: "card-3", Tags: []string{"blue", "small", "row:beta", "col:one"}},
		{ID: "card-4", Tags: []string{"blue", "large", "row:beta", "col:two"}},
	}
}

func main() {
	if err := logger.Init(nil); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	zapLog := logger.Get()

	registries := registry.NewStore()
	if _, err := registries.Publish(demoCards(), registry.Limits{MaxCards: cfg.MaxCards, MaxTags: cfg.MaxTags}); err != nil {
		zapLog.Fatal("failed to publish initial registry", zap.Error(err))
	}

	sessionControls := session.Controls{StartWithAllCards: cfg.StartWithAllCards}
	sessionLimits := session.Limits{MaxTagsPerZone: cfg.MaxTagsPerZone}
	sessions := session.NewRepository(sessionControls, sessionLimits)

	groups := dispatch.NewGroupStore()
	cards := dispatch.NewInMemoryCardStore(nil)
	cache := filter.NewCache(cfg.CacheCapacity)
	pipelineLimits := filter.Limits{MaxOpsPerPlan: cfg.MaxOpsPerPlan, CancellationCheckInterval: cfg.CancellationCheckInterval}

	bus := events.NewInMemoryEventBus()
	defer bus.Close()

	dispatcher := dispatch.New(sessions, registries, groups, cards, cache, pipelineLimits, bus)

	hub := websocket.NewHub(dispatcher)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	wsHandler := websocket.NewHandler(hub)

	router := httpHandler.SetupRouter(registries, sessions, dispatcher, cache, pipelineLimits)
	router.HandleFunc("/ws", wsHandler.ServeWS)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zapLog.Info("tagmatrix server starting",
			zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown error", zap.Error(err))
	}
}
