package main

import (
	"context"
	"fmt"

	"samsara/internal/config"
	"samsara/internal/debug"
	"samsara/internal/game/puzzle"
	"samsara/internal/game/session"
	"samsara/internal/llm"
	"samsara/internal/observability"
	"samsara/internal/storage"
)

type app struct {
	config       config.Config
	debug        *debug.Logger
	store        *storage.Store
	orchestrator *session.Orchestrator
}

func createApp(ctx context.Context) (*app, func(), error) {
	cfg := config.LoadConfigFromEnv()

	debugLogger := debug.NewFileLogger(cfg.Debug, cfg.DebugLogPath)

	tracingConfig := observability.LoadConfigFromEnv()
	tracingConfig.ServiceVersion = version
	tracerProvider, err := observability.InitTracing(ctx, tracingConfig)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	} else {
		debugLogger.Println("OpenTelemetry tracing disabled (set OTEL_TRACES_ENABLED=true to enable)")
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open progress database: %w", err)
	}

	defs, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	registry, err := puzzle.NewRegistry(defs...)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to build puzzle registry: %w", err)
	}
	debugLogger.Printf("Loaded %d puzzles", registry.Len())

	state, err := store.LoadPlayer(ctx, cfg.Player)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load player %s: %w", cfg.Player, err)
	}

	opts := session.Options{
		Store:    store,
		Events:   store,
		Unlocker: store,
		Debug:    debugLogger,
		Tracer:   tracerProvider.GetTracer("puzzle-session"),
	}
	if cfg.HintsEnabled() {
		llmService := llm.NewService(cfg.OpenAIKey, cfg.HintModel, debugLogger)
		opts.Oracle = llm.NewHintOracle(llmService, cfg.HintTokens).WithRecorder(store, debugLogger)
		debugLogger.Printf("LLM hints enabled with model %s", cfg.HintModel)
	}

	a := &app{
		config:       cfg,
		debug:        debugLogger,
		store:        store,
		orchestrator: session.NewOrchestrator(registry, state, opts),
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			debugLogger.Printf("Failed to close database: %v", err)
		}
		if tracerProvider != nil {
			tracerProvider.Shutdown(context.Background())
		}
	}

	return a, cleanup, nil
}

func loadCatalog(path string) ([]puzzle.Definition, error) {
	if path == "" {
		return puzzle.DefaultCatalog()
	}
	defs, err := puzzle.LoadCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load puzzle catalog %s: %w", path, err)
	}
	return defs, nil
}
