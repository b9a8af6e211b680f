package cache

import (
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestKey_NormalizesQuery(t *testing.T) {
	a := Key("news", "Is Elon Musk  a human?")
	b := Key("news", "  is elon musk a HUMAN?")
	if a != b {
		t.Errorf("Expected equal keys, got %s vs %s", a, b)
	}
	if Key("web", "x") == Key("news", "x") {
		t.Error("Expected keys to differ by adapter")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss")
	}
	_ = c.Set("k", []byte("v"), 0)
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Errorf("Expected hit with v, got %q %v", v, ok)
	}
	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := Key("web", "query")

	if err := c.Set(key, []byte("fresh"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := c.Get(key); !ok || string(v) != "fresh" {
		t.Errorf("Expected fresh hit, got %q %v", v, ok)
	}

	if err := c.Set(key, []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("Expected expired entry to miss")
	}

	if err := c.Delete(key); err != nil {
		t.Errorf("Delete of removed entry should not fail: %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Hour)
	_ = disk.Set("k", []byte("from-disk"), 0)

	layered := NewLayeredCache(time.Minute, dir, time.Hour)
	if v, ok := layered.Get("k"); !ok || string(v) != "from-disk" {
		t.Fatalf("Expected disk hit, got %q %v", v, ok)
	}
	if v, ok := layered.memory.Get("k"); !ok || string(v) != "from-disk" {
		t.Errorf("Expected promotion to memory, got %q %v", v, ok)
	}
}

func TestNew(t *testing.T) {
	if New(model.CacheConfig{Enabled: false}) != nil {
		t.Error("Expected nil cache when disabled")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("Expected memory cache without dir")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("Expected layered cache with dir")
	}
}
