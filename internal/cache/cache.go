package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Cache defines the interface for caching retrieved evidence
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from an adapter name and a search query.
// Queries are case- and whitespace-normalised first.
func Key(adapter, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	hash := sha256.Sum256([]byte(adapter + "\x00" + normalized))
	return "claimcheck:v1:" + adapter + ":" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg: memory only when no directory is
// configured, memory over disk otherwise. It returns nil when disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
