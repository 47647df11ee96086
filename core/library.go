package core

type ItemType string

const (
	ItemDesign ItemType = "design"
	ItemMockup ItemType = "mockup"
)

type SortKey string

const (
	SortByDate      SortKey = "date"
	SortByName      SortKey = "name"
	SortByViews     SortKey = "views"
	SortByDownloads SortKey = "downloads"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

type (
	Dimensions struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}

	// LibraryItem is the mutable catalog projection of a design or mockup.
	// The originating design/mockup never changes; everything layered on top
	// (tags, favorite, counters) belongs to the library alone.
	LibraryItem struct {
		ID        string   `json:"id"`
		Type      ItemType `json:"type"`
		Name      string   `json:"name"`
		URL       string   `json:"url"`
		Thumbnail string   `json:"thumbnail,omitempty"`

		ProjectID  string   `json:"projectId,omitempty"`
		Style      string   `json:"style,omitempty"`
		Prompt     string   `json:"prompt,omitempty"`
		Tags       []string `json:"tags"`
		Categories []string `json:"categories"`
		IsFavorite bool     `json:"isFavorite"`

		Views     int `json:"views"`
		Downloads int `json:"downloads"`
		Uses      int `json:"uses"`

		CreatedAt    Date  `json:"createdAt"`
		UpdatedAt    Date  `json:"updatedAt"`
		LastViewedAt *Date `json:"lastViewedAt,omitempty"`

		ShareID      string `json:"shareId,omitempty"`
		ShareEnabled bool   `json:"shareEnabled"`

		FileSize   int64      `json:"fileSize"`
		Dimensions Dimensions `json:"dimensions"`
	}

	// Collection is a user-curated grouping of item ids. Membership is
	// many-to-many; an item can belong to any number of collections.
	Collection struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		ItemIDs     []string `json:"itemIds"`
		CoverImage  string   `json:"coverImage"`
		CreatedAt   Date     `json:"createdAt"`
	}

	DateRange struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}

	// FilterState is transient view state. It narrows FilteredItems but never
	// touches the underlying items.
	FilterState struct {
		Types       []ItemType `json:"type"`
		Styles      []string   `json:"styles"`
		DateRange   *DateRange `json:"dateRange"`
		Tags        []string   `json:"tags"`
		Favorites   bool       `json:"favorites"`
		ProjectID   string     `json:"projectId,omitempty"`
		SearchQuery string     `json:"searchQuery"`
	}

	// FilterPatch is a partial FilterState; nil fields leave the current
	// value untouched.
	FilterPatch struct {
		Types       *[]ItemType `json:"type,omitempty"`
		Styles      *[]string   `json:"styles,omitempty"`
		DateRange   *DateRange  `json:"dateRange,omitempty"`
		Tags        *[]string   `json:"tags,omitempty"`
		Favorites   *bool       `json:"favorites,omitempty"`
		ProjectID   *string     `json:"projectId,omitempty"`
		SearchQuery *string     `json:"searchQuery,omitempty"`
	}
)

// DefaultFilters is the empty filter state: nothing narrowed.
func DefaultFilters() FilterState {
	return FilterState{
		Types:  []ItemType{},
		Styles: []string{},
		Tags:   []string{},
	}
}

// Clone returns a deep copy of the item.
func (it *LibraryItem) Clone() *LibraryItem {
	cp := *it
	cp.Tags = append([]string(nil), it.Tags...)
	cp.Categories = append([]string(nil), it.Categories...)
	if it.LastViewedAt != nil {
		lv := *it.LastViewedAt
		cp.LastViewedAt = &lv
	}
	return &cp
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	cp := *c
	cp.ItemIDs = append([]string(nil), c.ItemIDs...)
	return &cp
}
