package library

import (
	"sort"
	"strings"

	"genmock-studio/core"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter returns the items narrowed by f and ordered by sortBy/order. It is a
// pure function: the input slice and its items are never mutated, and the
// result holds deep copies. Filters apply in order: search, type, style,
// favorites, project, date range.
func Filter(items []*core.LibraryItem, f core.FilterState, sortBy core.SortKey, order core.SortOrder) []*core.LibraryItem {
	result := make([]*core.LibraryItem, 0, len(items))
	for _, item := range items {
		if matches(item, f) {
			result = append(result, item.Clone())
		}
	}
	sortItems(result, sortBy, order)
	return result
}

func matches(item *core.LibraryItem, f core.FilterState) bool {
	if f.SearchQuery != "" {
		query := strings.ToLower(f.SearchQuery)
		hit := strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Prompt), query)
		for _, tag := range item.Tags {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(tag), query)
		}
		if !hit {
			return false
		}
	}

	if len(f.Types) > 0 && !containsType(f.Types, item.Type) {
		return false
	}

	if len(f.Styles) > 0 {
		if item.Style == "" || !containsString(f.Styles, item.Style) {
			return false
		}
	}

	if f.Favorites && !item.IsFavorite {
		return false
	}

	if f.ProjectID != "" && item.ProjectID != f.ProjectID {
		return false
	}

	if f.DateRange != nil {
		created := item.CreatedAt.Time
		if created.Before(f.DateRange.Start.Time) || created.After(f.DateRange.End.Time) {
			return false
		}
	}

	return true
}

func sortItems(items []*core.LibraryItem, sortBy core.SortKey, order core.SortOrder) {
	var byName *collate.Collator
	if sortBy == core.SortByName {
		byName = collate.New(language.English)
	}

	sort.SliceStable(items, func(i, j int) bool {
		var cmp int
		switch sortBy {
		case core.SortByName:
			cmp = byName.CompareString(items[i].Name, items[j].Name)
		case core.SortByViews:
			cmp = items[i].Views - items[j].Views
		case core.SortByDownloads:
			cmp = items[i].Downloads - items[j].Downloads
		default: // date
			di, dj := items[i].CreatedAt.UnixMilli(), items[j].CreatedAt.UnixMilli()
			switch {
			case di < dj:
				cmp = -1
			case di > dj:
				cmp = 1
			}
		}
		if order == core.SortAsc {
			return cmp < 0
		}
		return cmp > 0
	})
}

func containsType(types []core.ItemType, t core.ItemType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
