package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"genmock-studio/core"
	"genmock-studio/marketplace"
	"genmock-studio/persist"
	"genmock-studio/stores/memory"

	"github.com/go-chi/chi/v5"
)

func newRouter() (*chi.Mux, *marketplace.Store) {
	store := marketplace.NewStore(persist.NewManager(memory.NewKV()))

	r := chi.NewRouter()
	r.Get("/", HandleList(store))
	r.Post("/", HandleCreate(store))
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", HandleGet(store))
		r.Put("/", HandleUpdate(store))
		r.Delete("/", HandleDelete(store))
		r.Post("/publish", HandlePublish(store))
	})
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetListing(t *testing.T) {
	r, _ := newRouter()

	rec := doJSON(t, r, http.MethodPost, "/", core.ListingDraft{
		Title:    "Wolf Tee",
		Price:    19.99,
		Platform: core.IntegrationEtsy,
		Status:   core.ListingStatusDraft,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created core.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("bad response: %v", err)
	}

	rec = doJSON(t, r, http.MethodGet, "/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
}

func TestGetUnknownListingIs404(t *testing.T) {
	r, _ := newRouter()
	rec := doJSON(t, r, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPublishEndpoint(t *testing.T) {
	r, store := newRouter()
	l := store.AddListing(context.Background(), core.ListingDraft{
		Title: "Tee", Platform: core.IntegrationEtsy, Status: core.ListingStatusDraft,
	})

	rec := doJSON(t, r, http.MethodPost, "/"+l.ID+"/publish", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var published core.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &published); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if published.Status != core.ListingStatusPublished || published.PublishedAt == nil {
		t.Errorf("publish response wrong: %+v", published)
	}
}

func TestUpdateUnknownListingIs404(t *testing.T) {
	r, _ := newRouter()
	title := "x"
	rec := doJSON(t, r, http.MethodPut, "/nope", core.ListingPatch{Title: &title})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteListingEndpoint(t *testing.T) {
	r, store := newRouter()
	l := store.AddListing(context.Background(), core.ListingDraft{Title: "Tee"})

	rec := doJSON(t, r, http.MethodDelete, "/"+l.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if store.GetListing(l.ID) != nil {
		t.Error("listing survived the delete endpoint")
	}
}
