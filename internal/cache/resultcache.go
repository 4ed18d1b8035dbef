// Package cache provides the time-bounded disk caches the application
// layer wraps around extraction and summarization. The extraction core
// itself is stateless; caching lives out here so the pipeline stays a
// pure function of (url, parameters).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL matches how long the upstream pages are worth trusting
// without a refetch.
const DefaultTTL = 30 * time.Minute

// KeyFrom derives a stable cache key from the operation name and its
// parameters.
func KeyFrom(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// envelope wraps a cached payload with its save time so expiry can be
// decided without trusting file mtimes.
type envelope struct {
	SavedAt time.Time       `json:"saved_at"`
	Payload json.RawMessage `json:"payload"`
}

// ResultCache stores extraction results on disk as <key>.json. No
// eviction beyond TTL checks and explicit purges.
type ResultCache struct {
	Dir string
	// TTL bounds how old an entry may be and still be served. Zero
	// means DefaultTTL.
	TTL time.Duration
}

func (c *ResultCache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultTTL
}

func (c *ResultCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

func (c *ResultCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get returns the cached payload when present and younger than the
// TTL. A stale or unreadable entry is a miss, never an error.
func (c *ResultCache) Get(_ context.Context, key string) ([]byte, bool) {
	if err := c.ensureDir(); err != nil {
		return nil, false
	}
	b, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	var e envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, false
	}
	if time.Since(e.SavedAt) > c.ttl() {
		return nil, false
	}
	return e.Payload, true
}

// Save stores a payload under key, stamped with the current time.
func (c *ResultCache) Save(_ context.Context, key string, payload []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	data, err := json.Marshal(envelope{SavedAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return err
	}
	return os.WriteFile(c.pathFor(key), data, 0o644)
}
