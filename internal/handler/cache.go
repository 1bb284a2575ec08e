// Package handler provides HTTP handlers for the verse router.
package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/versekit/verse-router/internal/ui"
)

const (
	// DefaultCacheTTL is the default time-to-live for cache entries.
	DefaultCacheTTL = 5 * time.Minute

	// CleanupInterval is how often the cache cleaner runs.
	CleanupInterval = 1 * time.Minute
)

// CacheEntry represents a cached response with expiration time.
type CacheEntry struct {
	Response  []byte    // Serialized JSON response
	ExpireAt  time.Time // When this entry expires
	CreatedAt time.Time // When this entry was created
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.ExpireAt)
}

// TransformCache is a thread-safe in-memory cache for verse-transform
// responses, keyed by a SHA256 hash of the request body. The transforms are
// pure functions of the submitted code, so identical requests always produce
// identical responses and caching them is sound.
type TransformCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	ttl     time.Duration
	logger  *slog.Logger

	// Stats
	hits   int64
	misses int64
}

// TransformCacheOption is a functional option for configuring TransformCache.
type TransformCacheOption func(*TransformCache)

// WithCacheTTL sets a custom TTL for cache entries.
func WithCacheTTL(ttl time.Duration) TransformCacheOption {
	return func(c *TransformCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets a custom logger.
func WithCacheLogger(logger *slog.Logger) TransformCacheOption {
	return func(c *TransformCache) {
		c.logger = logger
	}
}

// NewTransformCache creates a new TransformCache instance.
// It starts a background goroutine for TTL cleanup.
func NewTransformCache(opts ...TransformCacheOption) *TransformCache {
	c := &TransformCache{
		entries: make(map[string]*CacheEntry),
		ttl:     DefaultCacheTTL,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.startCleanup()

	return c
}

// HashRequest generates a SHA256 hash of the request body, used as the
// cache key.
func HashRequest(body []byte) string {
	hash := sha256.Sum256(body)
	return hex.EncodeToString(hash[:])
}

// Get retrieves a cached response by key.
// Returns the response bytes and whether the entry was found and valid.
func (c *TransformCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	if entry.IsExpired() {
		c.mu.Lock()
		delete(c.entries, key)
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()

	return entry.Response, true
}

// Set stores a response in the cache with the configured TTL.
func (c *TransformCache) Set(key string, response []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &CacheEntry{
		Response:  response,
		ExpireAt:  time.Now().Add(c.ttl),
		CreatedAt: time.Now(),
	}
}

// startCleanup runs a background goroutine that periodically removes
// expired entries.
func (c *TransformCache) startCleanup() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup removes all expired entries from the cache.
func (c *TransformCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := 0

	for key, entry := range c.entries {
		if now.After(entry.ExpireAt) {
			delete(c.entries, key)
			expired++
		}
	}

	if expired > 0 && c.logger != nil {
		c.logger.Debug("cache cleanup",
			slog.Int("expired_entries", expired),
			slog.Int("remaining_entries", len(c.entries)),
		)
	}
}

// Stats returns cache hit/miss statistics.
func (c *TransformCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.entries)
}

// isTransformPath reports whether a path is one of the deterministic verse
// endpoints. Chat completions are never cached: with a provider configured
// they are not deterministic.
func isTransformPath(path string) bool {
	return strings.HasPrefix(path, "/renumber-verses") || strings.HasPrefix(path, "/clean-verses")
}

// CacheMiddleware returns a Gin middleware that caches verse-transform
// responses.
// Flow:
//  1. Hash the request body (SHA256)
//  2. Check cache: HIT → return immediately
//  3. MISS → continue to handler, cache successful responses
func CacheMiddleware(cache *TransformCache, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || !isTransformPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}

		// Restore body for downstream handlers
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		cacheKey := HashRequest(bodyBytes)

		if cachedResponse, found := cache.Get(cacheKey); found {
			if logger != nil {
				logger.Info("cache hit",
					slog.String("cache_key", cacheKey[:12]+"..."),
					slog.String("path", c.Request.URL.Path),
				)
			}

			ui.PrintCacheHit(cacheKey)

			c.Set("cache_hit", true)
			c.Data(http.StatusOK, "application/json", cachedResponse)
			c.Abort()
			return
		}

		// Capture the response so it can be cached.
		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		// Only cache successful responses.
		if c.Writer.Status() == http.StatusOK {
			cache.Set(cacheKey, writer.body.Bytes())

			if logger != nil {
				logger.Debug("response cached",
					slog.String("cache_key", cacheKey[:12]+"..."),
					slog.Int("size_bytes", writer.body.Len()),
				)
			}
		}
	}
}

// responseWriter wraps gin.ResponseWriter to capture the response body.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write captures the response body while writing to the original writer.
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
