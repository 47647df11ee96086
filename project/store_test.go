package project

import (
	"context"
	"strings"
	"testing"
	"time"

	"genmock-studio/core"
	"genmock-studio/persist"
	"genmock-studio/stores/memory"
)

func newTestStore(limit int64) *Store {
	return NewStore(persist.NewManager(memory.NewKV()), limit)
}

func TestCreateProjectSeedsOneDesign(t *testing.T) {
	s := newTestStore(0)
	seed := core.Design{ID: "design-1", Name: "Sunset wolf", URL: "data:image/png;base64,AA==", Style: "Vintage", CreatedAt: core.Now()}

	p := s.CreateProject(context.Background(), seed)
	if p == nil {
		t.Fatal("expected a project")
	}
	if len(p.Designs) != 1 || p.Designs[0].ID != "design-1" {
		t.Errorf("project designs = %v, want the single seed design", p.Designs)
	}
	if p.Status != core.ProjectDraft {
		t.Errorf("status = %q, want draft", p.Status)
	}
	if !strings.HasPrefix(p.Name, "Project ") {
		t.Errorf("name = %q, want a generated Project name", p.Name)
	}
}

func TestCreateProjectSetsCurrent(t *testing.T) {
	s := newTestStore(0)
	p := s.CreateProject(context.Background(), core.Design{ID: "d1", CreatedAt: core.Now()})

	current := s.Current()
	if current == nil || current.ID != p.ID {
		t.Errorf("current = %v, want the new project %s", current, p.ID)
	}
}

func TestGetProjectUnknownIDReturnsNil(t *testing.T) {
	s := newTestStore(0)
	if p := s.GetProject("no-such-id"); p != nil {
		t.Errorf("expected nil for an unknown id, got %v", p)
	}
}

func TestAddMockupsUnknownProjectIsANoop(t *testing.T) {
	s := newTestStore(0)
	p := s.CreateProject(context.Background(), core.Design{ID: "d1", CreatedAt: core.Now()})

	s.AddMockups(context.Background(), "evicted-or-bogus", []core.Mockup{{ID: "m1", CreatedAt: core.Now()}})

	got := s.GetProject(p.ID)
	if len(got.Mockups) != 0 {
		t.Errorf("mockups leaked onto an unrelated project: %v", got.Mockups)
	}
}

func TestAddMockupsAppendsAndStampsUpdatedAt(t *testing.T) {
	s := newTestStore(0)
	ctx := context.Background()
	p := s.CreateProject(ctx, core.Design{ID: "d1", CreatedAt: core.Now()})

	s.AddMockups(ctx, p.ID, []core.Mockup{
		{ID: "m1", DesignID: "d1", ProductType: "T-Shirt", Color: "Black", CreatedAt: core.Now()},
		{ID: "m2", DesignID: "d1", ProductType: "Mug", Color: "White", CreatedAt: core.Now()},
	})

	got := s.GetProject(p.ID)
	if len(got.Mockups) != 2 {
		t.Fatalf("mockups = %d, want 2", len(got.Mockups))
	}
	if got.UpdatedAt.Before(p.UpdatedAt.Time) {
		t.Error("UpdatedAt went backwards after a mutation")
	}
}

func TestSubscriberSeesEveryMutation(t *testing.T) {
	s := newTestStore(0)
	ctx := context.Background()

	var calls int
	var lastCount int
	s.Subscribe(func(projects []*core.Project) {
		calls++
		lastCount = len(projects)
	})

	p := s.CreateProject(ctx, core.Design{ID: "d1", CreatedAt: core.Now()})
	s.AddDesigns(ctx, p.ID, []core.Design{{ID: "d2", CreatedAt: core.Now()}})

	if calls != 2 {
		t.Errorf("subscriber ran %d times, want 2", calls)
	}
	if lastCount != 1 {
		t.Errorf("snapshot had %d projects, want 1", lastCount)
	}
}

func TestSubscriberSnapshotIsACopy(t *testing.T) {
	s := newTestStore(0)
	ctx := context.Background()

	var snapshot []*core.Project
	s.Subscribe(func(projects []*core.Project) {
		snapshot = projects
	})
	p := s.CreateProject(ctx, core.Design{ID: "d1", CreatedAt: core.Now()})

	snapshot[0].Name = "mutated by subscriber"
	if got := s.GetProject(p.ID); got.Name == "mutated by subscriber" {
		t.Error("subscriber snapshot aliases store state")
	}
}

func TestEvictionKeepsThreeMostRecent(t *testing.T) {
	// A tiny ceiling forces cleanup on every save once four projects exist.
	s := newTestStore(1)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		p := s.CreateProject(ctx, core.Design{ID: "d", CreatedAt: core.Now()})
		ids = append(ids, p.ID)
		// Timestamps carry millisecond precision; keep them distinct.
		time.Sleep(2 * time.Millisecond)
	}

	projects := s.Projects()
	if len(projects) != 3 {
		t.Fatalf("store holds %d projects, want 3 after eviction", len(projects))
	}
	for _, p := range projects {
		if p.ID == ids[0] || p.ID == ids[1] {
			t.Errorf("project %s should have been evicted", p.ID)
		}
	}
}
