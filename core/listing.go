package core

type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusPublished ListingStatus = "published"
	ListingStatusScheduled ListingStatus = "scheduled"
)

type (
	// Listing is a marketplace-ready publication record. It references images
	// by URL copy, not by id, so it survives deletion of the library item it
	// was created from.
	Listing struct {
		ID          string          `json:"id"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Tags        []string        `json:"tags"`
		Price       float64         `json:"price"`
		Platform    IntegrationType `json:"platform"`
		Status      ListingStatus   `json:"status"`
		DesignURL   string          `json:"designUrl"`
		MockupURL   string          `json:"mockupUrl,omitempty"`
		CreatedAt   Date            `json:"createdAt"`
		PublishedAt *Date           `json:"publishedAt,omitempty"`
		Views       int             `json:"views"`
		Favorites   int             `json:"favorites"`
		Sales       int             `json:"sales"`
	}

	// ListingDraft is the caller-supplied part of a listing. The marketplace
	// store fills in id, timestamps and counters; it does not validate
	// platform-specific constraints.
	ListingDraft struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Tags        []string        `json:"tags"`
		Price       float64         `json:"price"`
		Platform    IntegrationType `json:"platform"`
		Status      ListingStatus   `json:"status"`
		DesignURL   string          `json:"designUrl"`
		MockupURL   string          `json:"mockupUrl,omitempty"`
	}

	// ListingPatch is a partial listing update; nil fields are left alone.
	ListingPatch struct {
		Title       *string          `json:"title,omitempty"`
		Description *string          `json:"description,omitempty"`
		Tags        *[]string        `json:"tags,omitempty"`
		Price       *float64         `json:"price,omitempty"`
		Platform    *IntegrationType `json:"platform,omitempty"`
		Status      *ListingStatus   `json:"status,omitempty"`
		DesignURL   *string          `json:"designUrl,omitempty"`
		MockupURL   *string          `json:"mockupUrl,omitempty"`
	}
)

// Clone returns a deep copy of the listing.
func (l *Listing) Clone() *Listing {
	cp := *l
	cp.Tags = append([]string(nil), l.Tags...)
	if l.PublishedAt != nil {
		p := *l.PublishedAt
		cp.PublishedAt = &p
	}
	return &cp
}
