package library

import (
	"testing"
	"time"

	"genmock-studio/core"
)

func item(id, name string, opts func(*core.LibraryItem)) *core.LibraryItem {
	it := &core.LibraryItem{
		ID:         id,
		Type:       core.ItemDesign,
		Name:       name,
		Tags:       []string{},
		Categories: []string{},
		CreatedAt:  core.Now(),
		UpdatedAt:  core.Now(),
	}
	if opts != nil {
		opts(it)
	}
	return it
}

func ids(items []*core.LibraryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFilterBySearchQueryMatchesNamePromptAndTags(t *testing.T) {
	items := []*core.LibraryItem{
		item("byName", "Wolf sunset", nil),
		item("byPrompt", "Untitled", func(it *core.LibraryItem) { it.Prompt = "a howling wolf" }),
		item("byTag", "Other", func(it *core.LibraryItem) { it.Tags = []string{"wolf-pack"} }),
		item("miss", "Cat portrait", nil),
	}
	f := core.DefaultFilters()
	f.SearchQuery = "WOLF"

	got := Filter(items, f, core.SortByDate, core.SortAsc)
	if len(got) != 3 {
		t.Fatalf("matched %d items, want 3: %v", len(got), ids(got))
	}
	for _, it := range got {
		if it.ID == "miss" {
			t.Error("search matched an unrelated item")
		}
	}
}

func TestFilterByTypeAndStyle(t *testing.T) {
	items := []*core.LibraryItem{
		item("d1", "a", func(it *core.LibraryItem) { it.Style = "Vintage" }),
		item("d2", "b", func(it *core.LibraryItem) { it.Style = "Modern" }),
		item("m1", "c", func(it *core.LibraryItem) { it.Type = core.ItemMockup }),
	}

	f := core.DefaultFilters()
	f.Types = []core.ItemType{core.ItemDesign}
	f.Styles = []string{"Vintage"}

	got := Filter(items, f, core.SortByDate, core.SortAsc)
	if len(got) != 1 || got[0].ID != "d1" {
		t.Errorf("got %v, want [d1]", ids(got))
	}
}

func TestStyleFilterExcludesStylelessItems(t *testing.T) {
	// Mockups carry no style, so any style filter excludes them.
	items := []*core.LibraryItem{
		item("m1", "mock", func(it *core.LibraryItem) { it.Type = core.ItemMockup }),
	}
	f := core.DefaultFilters()
	f.Styles = []string{"Vintage"}

	if got := Filter(items, f, core.SortByDate, core.SortAsc); len(got) != 0 {
		t.Errorf("styleless item passed a style filter: %v", ids(got))
	}
}

func TestFilterByFavoritesAndProject(t *testing.T) {
	items := []*core.LibraryItem{
		item("fav", "a", func(it *core.LibraryItem) { it.IsFavorite = true; it.ProjectID = "p1" }),
		item("plain", "b", func(it *core.LibraryItem) { it.ProjectID = "p1" }),
		item("other", "c", func(it *core.LibraryItem) { it.IsFavorite = true; it.ProjectID = "p2" }),
	}
	f := core.DefaultFilters()
	f.Favorites = true
	f.ProjectID = "p1"

	got := Filter(items, f, core.SortByDate, core.SortAsc)
	if len(got) != 1 || got[0].ID != "fav" {
		t.Errorf("got %v, want [fav]", ids(got))
	}
}

func TestFilterByDateRangeIsInclusive(t *testing.T) {
	start := core.NewDate(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	end := core.NewDate(time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))

	items := []*core.LibraryItem{
		item("onStart", "a", func(it *core.LibraryItem) { it.CreatedAt = start }),
		item("onEnd", "b", func(it *core.LibraryItem) { it.CreatedAt = end }),
		item("before", "c", func(it *core.LibraryItem) { it.CreatedAt = core.NewDate(start.Add(-time.Second)) }),
		item("after", "d", func(it *core.LibraryItem) { it.CreatedAt = core.NewDate(end.Add(time.Second)) }),
	}
	f := core.DefaultFilters()
	f.DateRange = &core.DateRange{Start: start, End: end}

	got := Filter(items, f, core.SortByDate, core.SortAsc)
	if len(got) != 2 {
		t.Fatalf("matched %d items, want 2: %v", len(got), ids(got))
	}
	if got[0].ID != "onStart" || got[1].ID != "onEnd" {
		t.Errorf("got %v, want [onStart onEnd]", ids(got))
	}
}

func TestTagFilterStateIsNotApplied(t *testing.T) {
	// Tags narrow nothing; the field rides along in filter state only.
	items := []*core.LibraryItem{
		item("tagged", "a", func(it *core.LibraryItem) { it.Tags = []string{"wolf"} }),
		item("untagged", "b", nil),
	}
	f := core.DefaultFilters()
	f.Tags = []string{"wolf"}

	if got := Filter(items, f, core.SortByDate, core.SortAsc); len(got) != 2 {
		t.Errorf("tag filter narrowed results: %v", ids(got))
	}
}

func TestSortByNameUsesCollation(t *testing.T) {
	items := []*core.LibraryItem{
		item("b", "banana", nil),
		item("a", "Apple", nil),
		item("c", "cherry", nil),
	}

	got := Filter(items, core.DefaultFilters(), core.SortByName, core.SortAsc)
	want := []string{"a", "b", "c"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestSortByViewsDesc(t *testing.T) {
	items := []*core.LibraryItem{
		item("low", "a", func(it *core.LibraryItem) { it.Views = 1 }),
		item("high", "b", func(it *core.LibraryItem) { it.Views = 9 }),
		item("mid", "c", func(it *core.LibraryItem) { it.Views = 5 }),
	}

	got := Filter(items, core.DefaultFilters(), core.SortByViews, core.SortDesc)
	want := []string{"high", "mid", "low"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := []*core.LibraryItem{
		item("x", "keep me", nil),
	}

	got := Filter(items, core.DefaultFilters(), core.SortByDate, core.SortDesc)
	got[0].Name = "mutated"
	if items[0].Name != "keep me" {
		t.Error("filter result aliases the input items")
	}
}
