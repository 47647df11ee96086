package marketplace

import (
	"context"
	"strings"
	"testing"

	"genmock-studio/core"
	"genmock-studio/persist"
	"genmock-studio/stores/memory"
)

func newTestStore() *Store {
	return NewStore(persist.NewManager(memory.NewKV()))
}

func sampleDraft() core.ListingDraft {
	return core.ListingDraft{
		Title:       "Vintage Wolf Tee",
		Description: "A vintage wolf design on a black tee.",
		Tags:        []string{"wolf", "vintage"},
		Price:       24.99,
		Platform:    core.IntegrationEtsy,
		Status:      core.ListingStatusDraft,
		DesignURL:   "u1",
		MockupURL:   "u2",
	}
}

func TestAddListingAssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore()
	l := s.AddListing(context.Background(), sampleDraft())

	if !strings.HasPrefix(l.ID, "listing-") {
		t.Errorf("id = %q, want a listing- prefix", l.ID)
	}
	if l.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
	if l.PublishedAt != nil {
		t.Error("a fresh listing must not carry PublishedAt")
	}
	if l.Views != 0 || l.Favorites != 0 || l.Sales != 0 {
		t.Errorf("counters not zeroed: %+v", l)
	}
}

func TestListingsAreNewestFirst(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	first := s.AddListing(ctx, sampleDraft())
	second := s.AddListing(ctx, sampleDraft())

	listings := s.Listings()
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if listings[0].ID != second.ID || listings[1].ID != first.ID {
		t.Error("listings are not newest first")
	}
}

func TestUpdateListingMergesPatch(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	l := s.AddListing(ctx, sampleDraft())

	price := 29.99
	s.UpdateListing(ctx, l.ID, core.ListingPatch{Price: &price})

	got := s.GetListing(l.ID)
	if got.Price != 29.99 {
		t.Errorf("price = %v, want 29.99", got.Price)
	}
	if got.Title != l.Title {
		t.Error("patch touched an unpatched field")
	}
}

func TestUpdateListingUnknownIDIsANoop(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	l := s.AddListing(ctx, sampleDraft())

	title := "hijacked"
	s.UpdateListing(ctx, "bogus", core.ListingPatch{Title: &title})

	if got := s.GetListing(l.ID); got.Title == "hijacked" {
		t.Error("patch for an unknown id reached another listing")
	}
}

func TestDeleteListing(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	l := s.AddListing(ctx, sampleDraft())

	s.DeleteListing(ctx, l.ID)
	if got := s.GetListing(l.ID); got != nil {
		t.Error("listing survived deletion")
	}
}

func TestPublishStampsStrictlyAfterCreation(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	l := s.AddListing(ctx, sampleDraft())

	s.PublishListing(ctx, l.ID)

	got := s.GetListing(l.ID)
	if got.Status != core.ListingStatusPublished {
		t.Errorf("status = %q, want published", got.Status)
	}
	if got.PublishedAt == nil {
		t.Fatal("PublishedAt not stamped")
	}
	if !got.PublishedAt.After(got.CreatedAt.Time) {
		t.Errorf("PublishedAt %v is not after CreatedAt %v", got.PublishedAt, got.CreatedAt)
	}
}

func TestRepublishRestampsTimestamp(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	l := s.AddListing(ctx, sampleDraft())

	s.PublishListing(ctx, l.ID)
	first := s.GetListing(l.ID).PublishedAt

	s.PublishListing(ctx, l.ID)
	second := s.GetListing(l.ID).PublishedAt

	if second.Before(first.Time) {
		t.Error("republish moved PublishedAt backwards")
	}
	if s.GetListing(l.ID).Status != core.ListingStatusPublished {
		t.Error("republish changed status")
	}
}

func TestOnChangeFiresOnEveryMutation(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	var calls, lastCount int
	s.OnChange(func(count int) {
		calls++
		lastCount = count
	})

	l := s.AddListing(ctx, sampleDraft())
	s.PublishListing(ctx, l.ID)
	s.DeleteListing(ctx, l.ID)

	if calls != 3 {
		t.Errorf("hook ran %d times, want 3", calls)
	}
	if lastCount != 0 {
		t.Errorf("final count = %d, want 0", lastCount)
	}
}

func TestListingsPersistAcrossStores(t *testing.T) {
	m := persist.NewManager(memory.NewKV())
	ctx := context.Background()

	first := NewStore(m)
	l := first.AddListing(ctx, sampleDraft())
	first.PublishListing(ctx, l.ID)

	second := NewStore(m)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got := second.GetListing(l.ID)
	if got == nil {
		t.Fatal("listing not reloaded")
	}
	if got.Status != core.ListingStatusPublished || got.PublishedAt == nil {
		t.Errorf("publish state lost on reload: %+v", got)
	}
}
