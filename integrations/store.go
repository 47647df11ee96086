// Package integrations tracks marketplace connection records. Connections
// are simulated: connecting never talks to the platform, it just records a
// mock connection.
package integrations

import (
	"context"
	"fmt"
	"sync"

	"genmock-studio/core"
	"genmock-studio/persist"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type Store struct {
	mu           sync.RWMutex
	integrations []*core.Integration
	persistence  *persist.Manager
}

func NewStore(m *persist.Manager) *Store {
	return &Store{persistence: m}
}

// Load restores the persisted connection records.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.persistence.Load(ctx, persist.KeyIntegrations, &s.integrations); err != nil {
		return fmt.Errorf("failed to load integrations: %w", err)
	}
	return nil
}

// Integrations returns a snapshot of all connection records.
func (s *Store) Integrations() []*core.Integration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*core.Integration, len(s.integrations))
	for i, in := range s.integrations {
		cp := *in
		snapshot[i] = &cp
	}
	return snapshot
}

// Connect records a mock connection for the platform, replacing any previous
// record of the same type.
func (s *Store) Connect(ctx context.Context, t core.IntegrationType) *core.Integration {
	now := core.Now()
	in := &core.Integration{
		ID:          fmt.Sprintf("%s-%s", t, ulid.Make().String()),
		Type:        t,
		Name:        t.DisplayName(),
		Status:      core.IntegrationConnected,
		IsMock:      true,
		ConnectedAt: &now,
		LastSynced:  &now,
		Settings:    map[string]string{},
	}

	s.mu.Lock()
	kept := s.integrations[:0]
	for _, existing := range s.integrations {
		if existing.Type != t {
			kept = append(kept, existing)
		}
	}
	s.integrations = append(kept, in)
	s.saveLocked(ctx)
	s.mu.Unlock()

	logrus.WithField("platform", t).Info("Integration connected")
	cp := *in
	return &cp
}

// Disconnect removes a connection record by id.
func (s *Store) Disconnect(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.integrations[:0]
	for _, in := range s.integrations {
		if in.ID != id {
			kept = append(kept, in)
		}
	}
	s.integrations = kept
	s.saveLocked(ctx)
}

// IsConnected reports whether the platform has a connected record.
func (s *Store) IsConnected(t core.IntegrationType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, in := range s.integrations {
		if in.Type == t && in.Status == core.IntegrationConnected {
			return true
		}
	}
	return false
}

// Get returns the connected record for the platform, or nil.
func (s *Store) Get(t core.IntegrationType) *core.Integration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, in := range s.integrations {
		if in.Type == t && in.Status == core.IntegrationConnected {
			cp := *in
			return &cp
		}
	}
	return nil
}

func (s *Store) saveLocked(ctx context.Context) {
	if err := s.persistence.Save(ctx, persist.KeyIntegrations, s.integrations); err != nil {
		logrus.WithError(err).Warn("Failed to persist integrations")
	}
}
