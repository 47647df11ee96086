package integrations

import (
	"context"
	"testing"

	"genmock-studio/core"
	"genmock-studio/persist"
	"genmock-studio/stores/memory"
)

func newTestStore() *Store {
	return NewStore(persist.NewManager(memory.NewKV()))
}

func TestConnectRecordsMockConnection(t *testing.T) {
	s := newTestStore()
	in := s.Connect(context.Background(), core.IntegrationEtsy)

	if !in.IsMock {
		t.Error("connection not marked as mock")
	}
	if in.Status != core.IntegrationConnected {
		t.Errorf("status = %q, want connected", in.Status)
	}
	if in.Name != "Etsy" {
		t.Errorf("name = %q, want Etsy", in.Name)
	}
	if in.ConnectedAt == nil || in.LastSynced == nil {
		t.Error("connection timestamps not stamped")
	}
	if !s.IsConnected(core.IntegrationEtsy) {
		t.Error("IsConnected does not see the new connection")
	}
}

func TestReconnectReplacesExistingRecord(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	first := s.Connect(ctx, core.IntegrationShopify)
	second := s.Connect(ctx, core.IntegrationShopify)

	all := s.Integrations()
	if len(all) != 1 {
		t.Fatalf("got %d records, want 1 after reconnect", len(all))
	}
	if all[0].ID == first.ID {
		t.Error("reconnect kept the stale record")
	}
	if all[0].ID != second.ID {
		t.Error("reconnect did not keep the new record")
	}
}

func TestDisconnectRemovesRecord(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	in := s.Connect(ctx, core.IntegrationPrintful)
	s.Disconnect(ctx, in.ID)

	if s.IsConnected(core.IntegrationPrintful) {
		t.Error("platform still connected after disconnect")
	}
	if got := s.Get(core.IntegrationPrintful); got != nil {
		t.Errorf("Get returned %v after disconnect", got)
	}
}

func TestConnectionsPersistAcrossStores(t *testing.T) {
	m := persist.NewManager(memory.NewKV())
	ctx := context.Background()

	first := NewStore(m)
	first.Connect(ctx, core.IntegrationRedbubble)

	second := NewStore(m)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !second.IsConnected(core.IntegrationRedbubble) {
		t.Error("connection lost on reload")
	}
}
