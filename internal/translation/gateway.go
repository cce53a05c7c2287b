package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Translator is implemented by each backend client
type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
	Name() string
}

// Config holds settings for both backends
type Config struct {
	Timeout  time.Duration
	MyMemory MyMemoryConfig
	Google   GoogleConfig
	Breaker  BreakerConfig
}

// DefaultConfig returns the production endpoints and limits
func DefaultConfig() Config {
	return Config{
		Timeout: 15 * time.Second,
		MyMemory: MyMemoryConfig{
			URL:               DefaultMyMemoryURL,
			RequestsPerMinute: 30,
		},
		Google: GoogleConfig{
			Engine:      EngineWeb,
			URL:         DefaultGoogleURL,
			GeminiModel: DefaultGeminiModel,
		},
		Breaker: BreakerConfig{
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
		},
	}
}

// Gateway routes requests to the MyMemory or Google backend.
// The set of backends is closed; see Backend.
type Gateway struct {
	myMemory Translator
	google   Translator
	cache    Cache
	logger   *zap.Logger
}

// NewGateway builds both backends from cfg. cache may be nil.
func NewGateway(ctx context.Context, cfg Config, cache Cache, logger *zap.Logger) (*Gateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	google, err := NewGoogleClient(ctx, cfg.Google, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create google backend: %w", err)
	}

	return NewGatewayWithBackends(
		WithBreaker(NewMyMemoryClient(cfg.MyMemory, httpClient), cfg.Breaker, logger),
		WithBreaker(google, cfg.Breaker, logger),
		cache,
		logger,
	), nil
}

// NewGatewayWithBackends assembles a gateway from already constructed clients
func NewGatewayWithBackends(myMemory, google Translator, cache Cache, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		myMemory: myMemory,
		google:   google,
		cache:    cache,
		logger:   logger,
	}
}

// Translate runs req on the chosen backend and blocks until it answers.
// Auto-detection on a backend that lacks it fails before any network call.
func (g *Gateway) Translate(ctx context.Context, req Request, backend Backend) (Result, error) {
	if err := req.normalize(); err != nil {
		return Result{}, err
	}

	if req.SourceCode == AutoDetect && !backend.SupportsAutoDetect() {
		return Result{}, &UnsupportedOperationError{Backend: backend, Operation: "automatic source language detection"}
	}

	var impl Translator
	switch backend {
	case MyMemory:
		impl = g.myMemory
	case Google:
		impl = g.google
	default:
		return Result{}, fmt.Errorf("%w: unknown backend %s", ErrInvalidRequest, backend)
	}
	if impl == nil {
		return Result{}, &BackendError{Backend: backend.String(), Message: "backend not configured"}
	}

	key := cacheKey(backend, req)
	if g.cache != nil {
		if res, ok := g.cache.Get(ctx, key); ok {
			g.logger.Debug("translation cache hit", zap.String("backend", backend.String()))
			return res, nil
		}
	}

	start := time.Now()
	res, err := impl.Translate(ctx, req)
	if err != nil {
		g.logger.Warn("translation failed",
			zap.String("backend", backend.String()),
			zap.String("source", req.SourceCode),
			zap.String("target", req.TargetCode),
			zap.Error(err))
		return Result{}, err
	}
	g.logger.Info("translated",
		zap.String("backend", backend.String()),
		zap.String("source", req.SourceCode),
		zap.String("detected", res.DetectedSourceCode),
		zap.String("target", req.TargetCode),
		zap.Duration("took", time.Since(start)))

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, res); err != nil {
			g.logger.Warn("failed to cache translation", zap.Error(err))
		}
	}

	return res, nil
}

// cacheKey hashes everything that influences a translation
func cacheKey(backend Backend, req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s", backend, req.SourceCode, req.TargetCode, req.Text)
	return hex.EncodeToString(h.Sum(nil))
}
