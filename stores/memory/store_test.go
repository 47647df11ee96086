package memory

import (
	"context"
	"testing"

	"genmock-studio/core"
)

func TestGetMissingKeyReturnsNotFound(t *testing.T) {
	kv := NewKV()
	if _, err := kv.Get(context.Background(), "missing"); err != core.ErrNotFound {
		t.Errorf("err = %v, want core.ErrNotFound", err)
	}
}

func TestSetGetDelete(t *testing.T) {
	kv := NewKV()
	ctx := context.Background()

	if err := kv.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); err != core.ErrNotFound {
		t.Errorf("err after delete = %v, want core.ErrNotFound", err)
	}
}

func TestGetReturnsACopy(t *testing.T) {
	kv := NewKV()
	ctx := context.Background()

	kv.Set(ctx, "k", []byte("abc"))
	first, _ := kv.Get(ctx, "k")
	first[0] = 'z'

	second, _ := kv.Get(ctx, "k")
	if string(second) != "abc" {
		t.Errorf("stored value mutated through a returned slice: %q", second)
	}
}

func TestKeysListsAllKeys(t *testing.T) {
	kv := NewKV()
	ctx := context.Background()

	kv.Set(ctx, "a", []byte("1"))
	kv.Set(ctx, "b", []byte("2"))

	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("got %d keys, want 2", len(keys))
	}
}
