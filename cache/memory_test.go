package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CreativeUnicorns/viewerprefs"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	defer cache.Close()

	if err := cache.Set(ctx, "testKey", "testValue", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "testKey")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "testValue" {
		t.Errorf("Expected 'testValue', got '%v'", val)
	}

	_, err = cache.Get(ctx, "nonExistentKey")
	if !errors.Is(err, viewerprefs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for non-existent key, got: %v", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	defer cache.Close()

	if err := cache.Set(ctx, "deleteKey", "deleteValue", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete(ctx, "deleteKey"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := cache.Get(ctx, "deleteKey")
	if !errors.Is(err, viewerprefs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted key, got: %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	defer cache.Close()

	if err := cache.Set(ctx, "tempKey", "tempValue", 50*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Set(ctx, "permanentKey", "permanentValue", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := cache.Get(ctx, "tempKey"); !errors.Is(err, viewerprefs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for expired key, got: %v", err)
	}
	if val, err := cache.Get(ctx, "permanentKey"); err != nil || val != "permanentValue" {
		t.Errorf("Expected permanentValue, got %v (err %v)", val, err)
	}
}

func TestMemoryCache_GarbageCollection(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheWithInterval(20 * time.Millisecond)
	defer cache.Close()

	_ = cache.Set(ctx, "key1", "value1", 10*time.Millisecond)
	_ = cache.Set(ctx, "key2", "value2", 0)

	deadline := time.Now().Add(2 * time.Second)
	for cache.Len() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if cache.Len() != 1 {
		t.Fatalf("Expected sweeper to leave 1 item, got %d", cache.Len())
	}
}

func TestMemoryCache_Close(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if _, err := cache.Get(ctx, "key"); !errors.Is(err, viewerprefs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after closing, got: %v", err)
	}
}
