// Package marketplace owns the listing lifecycle, independent of the library
// and project stores. A listing carries image URLs by copy, so deleting the
// library item it came from does not break it.
package marketplace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"genmock-studio/core"
	"genmock-studio/persist"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type Store struct {
	mu          sync.RWMutex
	listings    []*core.Listing
	persistence *persist.Manager
	onChange    func(count int)
}

func NewStore(m *persist.Manager) *Store {
	return &Store{persistence: m}
}

// Load restores the persisted listings. Call once before serving.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.persistence.Load(ctx, persist.KeyListings, &s.listings); err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	logrus.WithField("count", len(s.listings)).Info("Loaded listings")
	return nil
}

// OnChange registers fn to run synchronously after every mutation with the
// listing count. At most one hook; call before serving.
func (s *Store) OnChange(fn func(count int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Listings returns a deep-copied snapshot, newest first.
func (s *Store) Listings() []*core.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*core.Listing, len(s.listings))
	for i, l := range s.listings {
		snapshot[i] = l.Clone()
	}
	return snapshot
}

// GetListing returns a copy of the listing, or nil.
func (s *Store) GetListing(id string) *core.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l := s.findLocked(id); l != nil {
		return l.Clone()
	}
	return nil
}

// AddListing materializes a caller-supplied draft: assigns id and CreatedAt,
// zeroes the counters and prepends it. Platform-specific constraints are the
// listing generator's concern, not validated here.
func (s *Store) AddListing(ctx context.Context, draft core.ListingDraft) *core.Listing {
	l := &core.Listing{
		ID:          fmt.Sprintf("listing-%s", ulid.Make().String()),
		Title:       draft.Title,
		Description: draft.Description,
		Tags:        append([]string(nil), draft.Tags...),
		Price:       draft.Price,
		Platform:    draft.Platform,
		Status:      draft.Status,
		DesignURL:   draft.DesignURL,
		MockupURL:   draft.MockupURL,
		CreatedAt:   core.Now(),
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}

	s.mu.Lock()
	s.listings = append([]*core.Listing{l}, s.listings...)
	s.saveLocked(ctx)
	fn, count := s.onChange, len(s.listings)
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"listing_id": l.ID,
		"platform":   l.Platform,
	}).Info("Listing created")
	notify(fn, count)
	return l.Clone()
}

// UpdateListing shallow-merges a patch. Unknown ids are a logged no-op.
func (s *Store) UpdateListing(ctx context.Context, id string, patch core.ListingPatch) {
	s.mu.Lock()

	l := s.findLocked(id)
	if l == nil {
		s.mu.Unlock()
		logrus.WithField("listing_id", id).Warn("Listing not found")
		return
	}

	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.Tags != nil {
		l.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Price != nil {
		l.Price = *patch.Price
	}
	if patch.Platform != nil {
		l.Platform = *patch.Platform
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	if patch.DesignURL != nil {
		l.DesignURL = *patch.DesignURL
	}
	if patch.MockupURL != nil {
		l.MockupURL = *patch.MockupURL
	}
	s.saveLocked(ctx)
	fn, count := s.onChange, len(s.listings)
	s.mu.Unlock()
	notify(fn, count)
}

// DeleteListing removes a listing by id; nothing else is touched.
func (s *Store) DeleteListing(ctx context.Context, id string) {
	s.mu.Lock()

	kept := s.listings[:0]
	for _, l := range s.listings {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.listings = kept
	s.saveLocked(ctx)
	fn, count := s.onChange, len(s.listings)
	s.mu.Unlock()
	notify(fn, count)
}

// PublishListing transitions the listing to published and stamps PublishedAt.
// Calling it on an already-published listing re-stamps the timestamp; there
// is deliberately no double-publish guard.
func (s *Store) PublishListing(ctx context.Context, id string) {
	s.mu.Lock()

	l := s.findLocked(id)
	if l == nil {
		s.mu.Unlock()
		logrus.WithField("listing_id", id).Warn("Listing not found")
		return
	}

	l.Status = core.ListingStatusPublished
	now := core.Now()
	if !now.After(l.CreatedAt.Time) {
		// Millisecond truncation can land publish in the creation instant;
		// the publish timestamp must still order after creation.
		now = core.NewDate(l.CreatedAt.Add(time.Millisecond))
	}
	l.PublishedAt = &now
	s.saveLocked(ctx)
	fn, count := s.onChange, len(s.listings)
	s.mu.Unlock()

	logrus.WithField("listing_id", id).Info("Listing published")
	notify(fn, count)
}

func (s *Store) findLocked(id string) *core.Listing {
	for _, l := range s.listings {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func notify(fn func(int), count int) {
	if fn != nil {
		fn(count)
	}
}

func (s *Store) saveLocked(ctx context.Context) {
	if err := s.persistence.Save(ctx, persist.KeyListings, s.listings); err != nil {
		logrus.WithError(err).Warn("Failed to persist listings")
	}
}
