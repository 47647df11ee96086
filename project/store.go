// Package project owns the canonical collection of projects, the source of
// truth for everything generation produces.
package project

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

// Subscriber receives a snapshot of the full collection after every mutation.
type Subscriber func(projects []*core.Project)

type Store struct {
	mu          sync.RWMutex
	projects    []*core.Project
	current     *core.Project
	persistence *persist.Manager
	limit       int64
	subscribers []Subscriber
}

// NewStore creates a project store persisting through m. limit is the soft
// storage ceiling in bytes; pass 0 for the default.
func NewStore(m *persist.Manager, limit int64) *Store {
	if limit <= 0 {
		limit = persist.DefaultStorageLimit
	}
	return &Store{
		persistence: m,
		limit:       limit,
	}
}

// Load restores the persisted collection. Call once before serving.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var projects []*core.Project
	if _, err := s.persistence.Load(ctx, persist.KeyProjects, &projects); err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	s.projects = projects
	logrus.WithField("count", len(projects)).Info("Loaded projects")
	return nil
}

// Subscribe registers fn to run synchronously after every mutation, with a
// deep-copied snapshot of the collection.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Projects returns a deep-copied snapshot of the collection.
func (s *Store) Projects() []*core.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Current returns the active project pointer, or nil.
func (s *Store) Current() *core.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// SetCurrent sets the active project pointer. Passing nil clears it. The
// pointer is UI state, independent of the persisted collection.
func (s *Store) SetCurrent(p *core.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.current = nil
		return
	}
	s.current = p.Clone()
}

// CreateProject allocates a new project seeded with exactly one design, marks
// it current, and returns it. Callers rely on the returned id to chain an
// immediate AddMockups.
func (s *Store) CreateProject(ctx context.Context, seed core.Design) *core.Project {
	now := core.Now()
	p := &core.Project{
		ID:        ulid.Make().String(),
		Name:      fmt.Sprintf("Project %d", time.Now().UnixMilli()),
		Designs:   []core.Design{seed},
		Mockups:   []core.Mockup{},
		Listings:  []core.ProjectListing{},
		Status:    core.ProjectDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.current = p.Clone()
	s.saveLocked(ctx)
	snapshot := s.snapshotLocked()
	subs := s.subscribers
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"project_id": p.ID,
		"design_id":  seed.ID,
	}).Info("Project created")

	notify(subs, snapshot)
	return p.Clone()
}

// GetProject returns a copy of the project, or nil when the id does not
// resolve. Absence means evicted or never existed, not an error.
func (s *Store) GetProject(id string) *core.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p.Clone()
		}
	}
	return nil
}

// AddDesigns appends designs to a project. Unknown ids are a logged no-op.
func (s *Store) AddDesigns(ctx context.Context, projectID string, designs []core.Design) {
	s.mutate(ctx, projectID, func(p *core.Project) {
		p.Designs = append(p.Designs, designs...)
	})
}

// AddMockups appends mockups to a project. Unknown ids are a logged no-op.
func (s *Store) AddMockups(ctx context.Context, projectID string, mockups []core.Mockup) {
	s.mutate(ctx, projectID, func(p *core.Project) {
		p.Mockups = append(p.Mockups, mockups...)
	})
}

// AddListing appends a listing record to a project. Unknown ids are a logged
// no-op.
func (s *Store) AddListing(ctx context.Context, projectID string, listing core.ProjectListing) {
	s.mutate(ctx, projectID, func(p *core.Project) {
		p.Listings = append(p.Listings, listing)
	})
}

func (s *Store) mutate(ctx context.Context, projectID string, apply func(*core.Project)) {
	s.mu.Lock()

	var target *core.Project
	for _, p := range s.projects {
		if p.ID == projectID {
			target = p
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		logrus.WithField("project_id", projectID).Warn("Project not found")
		return
	}

	apply(target)
	target.UpdatedAt = core.Now()
	s.saveLocked(ctx)
	snapshot := s.snapshotLocked()
	subs := s.subscribers
	s.mu.Unlock()

	notify(subs, snapshot)
}

// saveLocked persists the collection best-effort and applies the storage
// ceiling. A persistence failure never rolls back the in-memory mutation.
func (s *Store) saveLocked(ctx context.Context) {
	if err := s.persistence.Save(ctx, persist.KeyProjects, s.projects); err != nil {
		logrus.WithError(err).Warn("Failed to persist projects")
		return
	}
	s.projects = s.persistence.CleanupOldData(ctx, s.limit, s.projects)
}

func (s *Store) snapshotLocked() []*core.Project {
	snapshot := make([]*core.Project, len(s.projects))
	for i, p := range s.projects {
		snapshot[i] = p.Clone()
	}
	return snapshot
}

func notify(subs []Subscriber, snapshot []*core.Project) {
	for _, fn := range subs {
		fn(snapshot)
	}
}
