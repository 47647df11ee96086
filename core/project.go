package core

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
)

type (
	// Design is a single generated image artifact. Immutable after creation;
	// owned by exactly one project.
	Design struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		URL       string `json:"url"`
		Style     string `json:"style"`
		CreatedAt Date   `json:"createdAt"`
	}

	// Mockup places a design onto a product photo. DesignID is a lookup-only
	// reference; the design may live on in the library independently.
	Mockup struct {
		ID          string `json:"id"`
		DesignID    string `json:"designId"`
		ProductType string `json:"productType"`
		Color       string `json:"color"`
		URL         string `json:"url"`
		CreatedAt   Date   `json:"createdAt"`
	}

	// ProjectListing is the lightweight listing record a project tracks for
	// its own lineage. The marketplace store owns the full Listing.
	ProjectListing struct {
		ID        string  `json:"id"`
		Platform  string  `json:"platform"`
		Title     string  `json:"title"`
		Price     float64 `json:"price"`
		Status    string  `json:"status"` // "draft" | "active" | "sold"
		CreatedAt Date    `json:"createdAt"`
	}

	// Project groups one creative lineage. It only ever grows: designs,
	// mockups and listings are appended, never removed or rewritten.
	Project struct {
		ID        string           `json:"id"`
		Name      string           `json:"name"`
		Designs   []Design         `json:"designs"`
		Mockups   []Mockup         `json:"mockups"`
		Listings  []ProjectListing `json:"listings"`
		Status    ProjectStatus    `json:"status"`
		CreatedAt Date             `json:"createdAt"`
		UpdatedAt Date             `json:"updatedAt"`
	}
)

// Clone returns a deep copy, so snapshots handed to subscribers cannot alias
// the store's own collection.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Designs = append([]Design(nil), p.Designs...)
	cp.Mockups = append([]Mockup(nil), p.Mockups...)
	cp.Listings = append([]ProjectListing(nil), p.Listings...)
	return &cp
}
