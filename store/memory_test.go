package store

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) error = %v, want store not-found", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get() = %q, want v", got)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete error = %v, want store not-found", err)
	}
}

func TestMemoryStore_BatchGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()
	_ = m.Set(ctx, "a", []byte("1"))
	_ = m.Set(ctx, "b", []byte("2"))

	got, err := m.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet() = %v", got)
	}
}

func TestMemoryStore_SortedSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	_ = m.ZAdd(ctx, "hot", 1, "low")
	_ = m.ZAdd(ctx, "hot", 9, "high")
	_ = m.ZAdd(ctx, "hot", 5, "mid")

	got, err := m.ZRange(ctx, "hot", 0, 1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	if len(got) != 2 || got[0] != "high" || got[1] != "mid" {
		t.Errorf("ZRange() = %v, want [high mid]", got)
	}

	score, err := m.ZScore(ctx, "hot", "mid")
	if err != nil {
		t.Fatalf("ZScore() error = %v", err)
	}
	if score != 5 {
		t.Errorf("ZScore(mid) = %v, want 5", score)
	}
}

func TestMemoryStore_DeleteClearsAllTypes(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	_ = m.Set(ctx, "k", []byte("v"))
	_ = m.ZAdd(ctx, "k", 1, "member")
	_ = m.HSet(ctx, "k", "field", []byte("v"))

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if got, _ := m.ZRange(ctx, "k", 0, -1); len(got) != 0 {
		t.Errorf("ZRange after Delete = %v, want empty", got)
	}
	if _, err := m.ZScore(ctx, "k", "member"); !core.IsStoreNotFound(err) {
		t.Errorf("ZScore after Delete error = %v, want store not-found", err)
	}
	if _, err := m.HGet(ctx, "k", "field"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet after Delete error = %v, want store not-found", err)
	}
	if got, _ := m.HGetAll(ctx, "k"); len(got) != 0 {
		t.Errorf("HGetAll after Delete = %v, want empty", got)
	}
}

func TestMemoryStore_CloseStopsCleanup(t *testing.T) {
	before := runtime.NumGoroutine()
	stores := make([]*MemoryStore, 10)
	for i := range stores {
		stores[i] = NewMemoryStore()
	}
	for _, s := range stores {
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}
	// Close 幂等
	if err := stores[0].Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("goroutines = %d, want <= %d after Close", runtime.NumGoroutine(), before)
}
