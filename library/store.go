// Package library maintains the flattened, queryable catalog derived from
// projects, plus the mutable per-item metadata the project store does not
// track. The project store is append-only source data; this store layers
// tags, favorites and counters on top, related by shared id, never ownership.
package library

import (
	"context"
	"fmt"
	"sync"

	"genmock-studio/core"
	"genmock-studio/persist"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// defaultDimensions is assumed for generated images until measured.
var defaultDimensions = core.Dimensions{Width: 1024, Height: 1024}

// Prefs are the persisted view and sort preferences.
type Prefs struct {
	View      core.ViewMode  `json:"view"`
	SortBy    core.SortKey   `json:"sortBy"`
	SortOrder core.SortOrder `json:"sortOrder"`
}

// ItemPatch is a partial update of an item's mutable metadata. Nil fields are
// left untouched.
type ItemPatch struct {
	Name         *string   `json:"name,omitempty"`
	Thumbnail    *string   `json:"thumbnail,omitempty"`
	ProjectID    *string   `json:"projectId,omitempty"`
	Style        *string   `json:"style,omitempty"`
	Prompt       *string   `json:"prompt,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Categories   *[]string `json:"categories,omitempty"`
	IsFavorite   *bool     `json:"isFavorite,omitempty"`
	Uses         *int      `json:"uses,omitempty"`
	ShareID      *string   `json:"shareId,omitempty"`
	ShareEnabled *bool     `json:"shareEnabled,omitempty"`
}

type Store struct {
	mu          sync.RWMutex
	items       []*core.LibraryItem
	collections []*core.Collection
	filters     core.FilterState
	prefs       Prefs
	selectedIDs []string
	persistence *persist.Manager
}

func NewStore(m *persist.Manager) *Store {
	return &Store{
		filters: core.DefaultFilters(),
		prefs: Prefs{
			View:      core.ViewGrid,
			SortBy:    core.SortByDate,
			SortOrder: core.SortDesc,
		},
		persistence: m,
	}
}

// Load restores items, collections, filters and prefs. Call once before
// serving. Selection is session state and starts empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.persistence.Load(ctx, persist.KeyLibraryItems, &s.items); err != nil {
		return fmt.Errorf("failed to load library items: %w", err)
	}
	if _, err := s.persistence.Load(ctx, persist.KeyLibraryCollections, &s.collections); err != nil {
		return fmt.Errorf("failed to load collections: %w", err)
	}
	if _, err := s.persistence.Load(ctx, persist.KeyLibraryFilters, &s.filters); err != nil {
		return fmt.Errorf("failed to load filters: %w", err)
	}
	if _, err := s.persistence.Load(ctx, persist.KeyLibraryPrefs, &s.prefs); err != nil {
		return fmt.Errorf("failed to load prefs: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"items":       len(s.items),
		"collections": len(s.collections),
	}).Info("Loaded library")
	return nil
}

// SyncProjects reconciles the catalog against a project snapshot. Additive
// and idempotent: a design or mockup whose id is already present is skipped,
// so metadata layered on existing items survives every resync. New items are
// prepended. Wire this to the project store's Subscribe.
func (s *Store) SyncProjects(ctx context.Context, projects []*core.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.items))
	for _, item := range s.items {
		existing[item.ID] = struct{}{}
	}

	var newItems []*core.LibraryItem
	for _, p := range projects {
		for _, d := range p.Designs {
			if _, ok := existing[d.ID]; ok {
				continue
			}
			existing[d.ID] = struct{}{}
			newItems = append(newItems, &core.LibraryItem{
				ID:         d.ID,
				Type:       core.ItemDesign,
				Name:       d.Name,
				URL:        d.URL,
				ProjectID:  p.ID,
				Style:      d.Style,
				Tags:       []string{},
				Categories: []string{},
				CreatedAt:  d.CreatedAt,
				UpdatedAt:  core.Now(),
				Dimensions: defaultDimensions,
			})
		}
		for _, m := range p.Mockups {
			if _, ok := existing[m.ID]; ok {
				continue
			}
			existing[m.ID] = struct{}{}
			newItems = append(newItems, &core.LibraryItem{
				ID:         m.ID,
				Type:       core.ItemMockup,
				Name:       fmt.Sprintf("Mockup - %s", m.ProductType),
				URL:        m.URL,
				ProjectID:  p.ID,
				Tags:       []string{m.ProductType, m.Color},
				Categories: []string{"mockup"},
				CreatedAt:  m.CreatedAt,
				UpdatedAt:  core.Now(),
				Dimensions: defaultDimensions,
			})
		}
	}

	if len(newItems) == 0 {
		return
	}
	s.items = append(newItems, s.items...)
	s.saveItemsLocked(ctx)
	logrus.WithField("count", len(newItems)).Info("Synced new items from projects")
}

// Items returns a deep-copied snapshot in storage order.
func (s *Store) Items() []*core.LibraryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*core.LibraryItem, len(s.items))
	for i, item := range s.items {
		snapshot[i] = item.Clone()
	}
	return snapshot
}

// GetItem returns a copy of the item, or nil.
func (s *Store) GetItem(id string) *core.LibraryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item := s.findLocked(id); item != nil {
		return item.Clone()
	}
	return nil
}

// AddItem stores a new catalog item independent of project sync. ID and
// timestamps are assigned here; the copy with them filled in is returned.
func (s *Store) AddItem(ctx context.Context, item core.LibraryItem) *core.LibraryItem {
	now := core.Now()
	item.ID = fmt.Sprintf("library_%s", ulid.Make().String())
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.Categories == nil {
		item.Categories = []string{}
	}
	if item.Dimensions == (core.Dimensions{}) {
		item.Dimensions = defaultDimensions
	}

	s.mu.Lock()
	s.items = append([]*core.LibraryItem{&item}, s.items...)
	s.saveItemsLocked(ctx)
	s.mu.Unlock()
	return item.Clone()
}

// UpdateItem applies a metadata patch and refreshes UpdatedAt. Unknown ids
// are a logged no-op.
func (s *Store) UpdateItem(ctx context.Context, id string, patch ItemPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findLocked(id)
	if item == nil {
		logrus.WithField("item_id", id).Warn("Library item not found")
		return
	}

	applyPatch(item, patch)
	item.UpdatedAt = core.Now()
	s.saveItemsLocked(ctx)
}

// DeleteItem removes an item and evicts its id from the selection, so the
// selection never references an absent item.
func (s *Store) DeleteItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept

	selected := s.selectedIDs[:0]
	for _, sid := range s.selectedIDs {
		if sid != id {
			selected = append(selected, sid)
		}
	}
	s.selectedIDs = selected

	s.saveItemsLocked(ctx)
}

// BulkDelete removes all named items and clears the selection.
func (s *Store) BulkDelete(ctx context.Context, ids []string) {
	drop := idSet(ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if _, ok := drop[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.selectedIDs = nil
	s.saveItemsLocked(ctx)
}

// BulkTag merges tags into each named item with set-union semantics.
func (s *Store) BulkTag(ctx context.Context, ids []string, tags []string) {
	want := idSet(ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if _, ok := want[item.ID]; !ok {
			continue
		}
		item.Tags = unionStrings(item.Tags, tags)
		item.UpdatedAt = core.Now()
	}
	s.saveItemsLocked(ctx)
}

// BulkMove reassigns the projectId field of each named item. The project
// store's own design/mockup arrays are deliberately untouched.
func (s *Store) BulkMove(ctx context.Context, ids []string, projectID string) {
	want := idSet(ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if _, ok := want[item.ID]; !ok {
			continue
		}
		item.ProjectID = projectID
		item.UpdatedAt = core.Now()
	}
	s.saveItemsLocked(ctx)
}

// ToggleSelection adds or removes an id from the selection.
func (s *Store) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sid := range s.selectedIDs {
		if sid == id {
			s.selectedIDs = append(s.selectedIDs[:i], s.selectedIDs[i+1:]...)
			return
		}
	}
	s.selectedIDs = append(s.selectedIDs, id)
}

// SelectAll selects exactly the currently filtered items, not all items.
func (s *Store) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := Filter(s.items, s.filters, s.prefs.SortBy, s.prefs.SortOrder)
	ids := make([]string, len(filtered))
	for i, item := range filtered {
		ids[i] = item.ID
	}
	s.selectedIDs = ids
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedIDs = nil
}

// SelectedIDs returns a copy of the current selection.
func (s *Store) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.selectedIDs...)
}

// SetFilters shallow-merges a partial patch into the current filter state.
func (s *Store) SetFilters(ctx context.Context, patch core.FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Types != nil {
		s.filters.Types = *patch.Types
	}
	if patch.Styles != nil {
		s.filters.Styles = *patch.Styles
	}
	if patch.DateRange != nil {
		r := *patch.DateRange
		s.filters.DateRange = &r
	}
	if patch.Tags != nil {
		s.filters.Tags = *patch.Tags
	}
	if patch.Favorites != nil {
		s.filters.Favorites = *patch.Favorites
	}
	if patch.ProjectID != nil {
		s.filters.ProjectID = *patch.ProjectID
	}
	if patch.SearchQuery != nil {
		s.filters.SearchQuery = *patch.SearchQuery
	}
	s.saveFiltersLocked(ctx)
}

// ClearFilters resets the filter state to its defaults.
func (s *Store) ClearFilters(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = core.DefaultFilters()
	s.saveFiltersLocked(ctx)
}

// Filters returns the current filter state.
func (s *Store) Filters() core.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *Store) SetView(ctx context.Context, view core.ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.View = view
	s.savePrefsLocked(ctx)
}

func (s *Store) SetSortBy(ctx context.Context, key core.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.SortBy = key
	s.savePrefsLocked(ctx)
}

func (s *Store) SetSortOrder(ctx context.Context, order core.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.SortOrder = order
	s.savePrefsLocked(ctx)
}

func (s *Store) Preferences() Prefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// FilteredItems recomputes the filtered, sorted view of the catalog on every
// call; nothing is cached.
func (s *Store) FilteredItems() []*core.LibraryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.items, s.filters, s.prefs.SortBy, s.prefs.SortOrder)
}

// IncrementViews bumps the view counter and stamps LastViewedAt.
func (s *Store) IncrementViews(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findLocked(id)
	if item == nil {
		logrus.WithField("item_id", id).Warn("Library item not found")
		return
	}
	item.Views++
	now := core.Now()
	item.LastViewedAt = &now
	s.saveItemsLocked(ctx)
}

// IncrementDownloads bumps the download counter. Unlike views, it has no
// timestamp side effect.
func (s *Store) IncrementDownloads(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findLocked(id)
	if item == nil {
		logrus.WithField("item_id", id).Warn("Library item not found")
		return
	}
	item.Downloads++
	s.saveItemsLocked(ctx)
}

// CreateCollection groups item ids under a name. The cover image is the URL
// of the first item in storage order whose id is in itemIDs.
func (s *Store) CreateCollection(ctx context.Context, name, description string, itemIDs []string) *core.Collection {
	want := idSet(itemIDs)

	s.mu.Lock()
	defer s.mu.Unlock()

	cover := ""
	for _, item := range s.items {
		if _, ok := want[item.ID]; ok {
			cover = item.URL
			break
		}
	}

	c := &core.Collection{
		ID:          fmt.Sprintf("collection_%s", ulid.Make().String()),
		Name:        name,
		Description: description,
		ItemIDs:     append([]string(nil), itemIDs...),
		CoverImage:  cover,
		CreatedAt:   core.Now(),
	}
	s.collections = append([]*core.Collection{c}, s.collections...)
	s.saveCollectionsLocked(ctx)
	return c.Clone()
}

// DeleteCollection removes a collection; its items are unaffected.
func (s *Store) DeleteCollection(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.collections[:0]
	for _, c := range s.collections {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.collections = kept
	s.saveCollectionsLocked(ctx)
}

// AddToCollection set-unions item ids into an existing collection.
func (s *Store) AddToCollection(ctx context.Context, collectionID string, itemIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.collections {
		if c.ID == collectionID {
			c.ItemIDs = unionStrings(c.ItemIDs, itemIDs)
			s.saveCollectionsLocked(ctx)
			return
		}
	}
	logrus.WithField("collection_id", collectionID).Warn("Collection not found")
}

// Collections returns a deep-copied snapshot.
func (s *Store) Collections() []*core.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*core.Collection, len(s.collections))
	for i, c := range s.collections {
		snapshot[i] = c.Clone()
	}
	return snapshot
}

func (s *Store) findLocked(id string) *core.LibraryItem {
	for _, item := range s.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (s *Store) saveItemsLocked(ctx context.Context) {
	if err := s.persistence.Save(ctx, persist.KeyLibraryItems, s.items); err != nil {
		logrus.WithError(err).Warn("Failed to persist library items")
	}
}

func (s *Store) saveCollectionsLocked(ctx context.Context) {
	if err := s.persistence.Save(ctx, persist.KeyLibraryCollections, s.collections); err != nil {
		logrus.WithError(err).Warn("Failed to persist collections")
	}
}

func (s *Store) saveFiltersLocked(ctx context.Context) {
	if err := s.persistence.Save(ctx, persist.KeyLibraryFilters, s.filters); err != nil {
		logrus.WithError(err).Warn("Failed to persist filters")
	}
}

func (s *Store) savePrefsLocked(ctx context.Context) {
	if err := s.persistence.Save(ctx, persist.KeyLibraryPrefs, s.prefs); err != nil {
		logrus.WithError(err).Warn("Failed to persist prefs")
	}
}

func applyPatch(item *core.LibraryItem, patch ItemPatch) {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Thumbnail != nil {
		item.Thumbnail = *patch.Thumbnail
	}
	if patch.ProjectID != nil {
		item.ProjectID = *patch.ProjectID
	}
	if patch.Style != nil {
		item.Style = *patch.Style
	}
	if patch.Prompt != nil {
		item.Prompt = *patch.Prompt
	}
	if patch.Tags != nil {
		item.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Categories != nil {
		item.Categories = append([]string(nil), (*patch.Categories)...)
	}
	if patch.IsFavorite != nil {
		item.IsFavorite = *patch.IsFavorite
	}
	if patch.Uses != nil {
		item.Uses = *patch.Uses
	}
	if patch.ShareID != nil {
		item.ShareID = *patch.ShareID
	}
	if patch.ShareEnabled != nil {
		item.ShareEnabled = *patch.ShareEnabled
	}
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// unionStrings appends the members of add not already in base, preserving
// base's order.
func unionStrings(base, add []string) []string {
	seen := make(map[string]struct{}, len(base))
	out := append([]string(nil), base...)
	for _, v := range base {
		seen[v] = struct{}{}
	}
	for _, v := range add {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
