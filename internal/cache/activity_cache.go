package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/activity-service/internal/models"
)

// ActivityPrefix namespaces activity definitions in Redis
const ActivityPrefix = "activity:"

// DefinitionLoader resolves an activity identifier (public slug or id) to the
// definition an attempt is built from.
type DefinitionLoader interface {
	LoadDefinition(ctx context.Context, identifier string) (*models.ActivityDefinition, error)
}

// CachedLoader serves definitions from Redis and falls back to the wrapped
// loader on a miss. Cache errors never fail a lookup.
type CachedLoader struct {
	next   DefinitionLoader
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedLoader(next DefinitionLoader, cache CacheService, ttl time.Duration, logger *slog.Logger) *CachedLoader {
	return &CachedLoader{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (l *CachedLoader) LoadDefinition(ctx context.Context, identifier string) (*models.ActivityDefinition, error) {
	var def models.ActivityDefinition
	err := l.cache.Get(ctx, identifier, &def)
	switch {
	case err == nil:
		return &def, nil
	case errors.Is(err, ErrCacheNotFound), errors.Is(err, ErrCacheNotAvailable):
	default:
		l.logger.Warn("Activity cache read failed", "identifier", identifier, "error", err)
	}

	loaded, err := l.next.LoadDefinition(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, identifier, loaded, l.ttl); err != nil {
		l.logger.Warn("Activity cache write failed", "identifier", identifier, "error", err)
	}
	return loaded, nil
}

// Invalidate drops the cached definition for identifier
func (l *CachedLoader) Invalidate(ctx context.Context, identifier string) error {
	return l.cache.Delete(ctx, identifier)
}

