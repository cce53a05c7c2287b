package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/linguasphere/internal/config"
	"codeberg.org/snonux/linguasphere/internal/flashcard"
	"codeberg.org/snonux/linguasphere/internal/logging"
	"codeberg.org/snonux/linguasphere/internal/session"
	"codeberg.org/snonux/linguasphere/internal/speech"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

// App bundles the components one command works with
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   *flashcard.Store
	Session *session.Session

	closers []func() error
}

// newApp is replaced in tests
var newApp = NewApp

// NewApp builds the logger, translation gateway, speech renderer and
// flashcard store from cfg and joins them in a session
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger}

	cache, err := app.newCache(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	gateway, err := translation.NewGateway(ctx, cfg.Translation.Gateway, cache, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	speechCfg := cfg.Speech
	provider, err := speech.NewProvider(&speechCfg, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create speech provider: %w", err)
	}
	renderer := speech.NewRenderer(provider, speechCfg.Output, logger)

	app.Store = flashcard.NewStore(cfg.FlashcardsPath)
	app.Session = session.New(gateway, renderer, app.Store, logger)

	logger.Debug("application ready",
		zap.String("backend", cfg.Translation.Backend.String()),
		zap.String("cache", cfg.Cache.Backend),
		zap.String("speech_provider", provider.Name()),
		zap.String("flashcards", app.Store.Path()))
	return app, nil
}

func (a *App) newCache(ctx context.Context) (translation.Cache, error) {
	switch a.Config.Cache.Backend {
	case config.CacheMemory:
		return translation.NewMemoryCache(a.Config.Cache.TTL), nil
	case config.CacheRedis:
		cache, err := translation.NewRedisCache(ctx, a.Config.Cache.RedisURL, a.Config.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect translation cache: %w", err)
		}
		a.closers = append(a.closers, cache.Close)
		return cache, nil
	default:
		return nil, nil
	}
}

// Close releases the cache connection and flushes the logger
func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return firstErr
}
