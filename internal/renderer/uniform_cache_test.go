package renderer

import (
	"testing"
)

func TestNewUniformCache(t *testing.T) {
	cache := NewUniformCache(0)

	if cache == nil {
		t.Fatal("NewUniformCache returned nil")
	}

	if cache.locations == nil {
		t.Error("locations map should be initialized")
	}
}

func TestUniformCacheReset(t *testing.T) {
	cache := NewUniformCache(3)
	cache.locations["transform"] = 5

	cache.Reset(7)

	if len(cache.locations) != 0 {
		t.Error("Reset should empty the cache")
	}
	if cache.program != 7 {
		t.Errorf("Expected program 7 after reset, got %d", cache.program)
	}
}

func TestUniformCacheHitSkipsLookup(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["view"] = 4

	// A cached entry must be served without touching the GL context.
	if loc := cache.GetLocation("view"); loc != 4 {
		t.Errorf("Expected cached location 4, got %d", loc)
	}
}
