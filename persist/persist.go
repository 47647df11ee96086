// Package persist serializes store state to the key-value medium and enforces
// the soft storage ceiling. Writes are best-effort: callers log and swallow
// errors so persistence never gates an in-memory mutation.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"genmock-studio/core"

	"github.com/sirupsen/logrus"
)

// Namespaced keys for every persisted document.
const (
	KeyProjects           = "genmock_projects"
	KeyLibraryItems       = "genmock_library_items"
	KeyLibraryCollections = "genmock_library_collections"
	KeyLibraryFilters     = "genmock_library_filters"
	KeyLibraryPrefs       = "genmock_library_prefs"
	KeyListings           = "genmock_listings"
	KeyIntegrations       = "genmock_integrations"
)

// DefaultStorageLimit is the soft ceiling on aggregate persisted bytes.
const DefaultStorageLimit int64 = 5_000_000

// projectRetainCount is how many projects survive a cleanup.
const projectRetainCount = 3

const documentVersion = 1

// document is the envelope written for every key. Version makes format
// changes explicit instead of relying on shape sniffing.
type document struct {
	Kind    string          `json:"kind"`
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

type Manager struct {
	kv core.KV
}

func NewManager(kv core.KV) *Manager {
	return &Manager{kv: kv}
}

// Save wraps v in a versioned envelope and writes it under key.
func (m *Manager) Save(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", key, err)
	}
	doc, err := json.Marshal(document{
		Kind:    key,
		Version: documentVersion,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal document for %s: %w", key, err)
	}
	return m.kv.Set(ctx, key, doc)
}

// Load reads the document under key into v. The second return is false when
// the key has never been written; that is not an error.
func (m *Manager) Load(ctx context.Context, key string, v any) (bool, error) {
	data, err := m.kv.Get(ctx, key)
	if err != nil {
		if err == core.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err == nil && doc.Kind != "" {
		return true, json.Unmarshal(doc.Payload, v)
	}
	// Documents written before the envelope carry the bare payload.
	return true, json.Unmarshal(data, v)
}

// Delete removes the document under key.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.kv.Delete(ctx, key)
}

// Size sums serialized byte length (key plus value) across all keys.
func (m *Manager) Size(ctx context.Context) (int64, error) {
	keys, err := m.kv.Keys(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, key := range keys {
		value, err := m.kv.Get(ctx, key)
		if err != nil {
			continue
		}
		total += int64(len(key) + len(value))
	}
	return total, nil
}

// CleanupOldData enforces the storage ceiling. When aggregate size exceeds
// ceiling and more than three projects exist, only the three most-recently
// updated projects are retained and persisted; the rest are evicted. Library
// items and marketplace listings referencing evicted projects are deliberately
// left alone, so they can outlive the project that produced them.
func (m *Manager) CleanupOldData(ctx context.Context, ceiling int64, projects []*core.Project) []*core.Project {
	size, err := m.Size(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to compute storage size")
		return projects
	}
	if size <= ceiling || len(projects) <= projectRetainCount {
		return projects
	}

	logrus.WithFields(logrus.Fields{
		"size":    size,
		"ceiling": ceiling,
	}).Warn("Storage limit exceeded, cleaning up old data")

	sorted := append([]*core.Project(nil), projects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt.Time)
	})
	kept := sorted[:projectRetainCount]

	if err := m.Save(ctx, KeyProjects, kept); err != nil {
		logrus.WithError(err).Warn("Failed to persist retained projects")
	}
	return kept
}
