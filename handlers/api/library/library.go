// Package library exposes the catalog: filtered listing, item CRUD, bulk
// operations, selection, filters, sort preferences, collections and counters.
package library

import (
	"net/http"

	"genmock-studio/core"
	libstore "genmock-studio/library"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HandleListItems returns the filtered, sorted view of the catalog.
func HandleListItems(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := store.FilteredItems()
		if items == nil {
			items = []*core.LibraryItem{}
		}
		render.JSON(w, r, items)
	}
}

// HandleGetItem returns a single item by id.
func HandleGetItem(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := store.GetItem(chi.URLParam(r, "id"))
		if item == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Item not found"})
			return
		}
		render.JSON(w, r, item)
	}
}

// HandleCreateItem adds an item directly, independent of project sync.
func HandleCreateItem(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item core.LibraryItem
		if err := render.DecodeJSON(r.Body, &item); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		if item.Name == "" || item.URL == "" || item.Type == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "name, url and type are required"})
			return
		}
		created := store.AddItem(r.Context(), item)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}

// HandleUpdateItem applies a metadata patch to an item.
func HandleUpdateItem(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var patch libstore.ItemPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		store.UpdateItem(r.Context(), id, patch)
		item := store.GetItem(id)
		if item == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Item not found"})
			return
		}
		render.JSON(w, r, item)
	}
}

// HandleDeleteItem removes an item; its id also leaves the selection.
func HandleDeleteItem(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.DeleteItem(r.Context(), chi.URLParam(r, "id"))
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}

type bulkIDsRequest struct {
	IDs []string `json:"ids"`
}

type bulkTagRequest struct {
	IDs  []string `json:"ids"`
	Tags []string `json:"tags"`
}

type bulkMoveRequest struct {
	IDs       []string `json:"ids"`
	ProjectID string   `json:"projectId"`
}

func HandleBulkDelete(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkIDsRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		store.BulkDelete(r.Context(), req.IDs)
		render.JSON(w, r, map[string]int{"deleted": len(req.IDs)})
	}
}

func HandleBulkTag(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkTagRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		store.BulkTag(r.Context(), req.IDs, req.Tags)
		render.JSON(w, r, map[string]int{"tagged": len(req.IDs)})
	}
}

func HandleBulkMove(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkMoveRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		store.BulkMove(r.Context(), req.IDs, req.ProjectID)
		render.JSON(w, r, map[string]int{"moved": len(req.IDs)})
	}
}

// HandleGetSelection returns the selected ids.
func HandleGetSelection(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := store.SelectedIDs()
		if ids == nil {
			ids = []string{}
		}
		render.JSON(w, r, ids)
	}
}

// HandleToggleSelection flips one id in or out of the selection.
func HandleToggleSelection(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.ToggleSelection(chi.URLParam(r, "id"))
		render.JSON(w, r, store.SelectedIDs())
	}
}

// HandleSelectAll selects exactly the currently filtered items.
func HandleSelectAll(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.SelectAll()
		render.JSON(w, r, store.SelectedIDs())
	}
}

func HandleClearSelection(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.ClearSelection()
		render.JSON(w, r, []string{})
	}
}

// HandleGetFilters returns the current filter state.
func HandleGetFilters(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, store.Filters())
	}
}

// HandleSetFilters shallow-merges a filter patch.
func HandleSetFilters(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch core.FilterPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		store.SetFilters(r.Context(), patch)
		render.JSON(w, r, store.Filters())
	}
}

func HandleClearFilters(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.ClearFilters(r.Context())
		render.JSON(w, r, store.Filters())
	}
}

type prefsRequest struct {
	View      *core.ViewMode  `json:"view,omitempty"`
	SortBy    *core.SortKey   `json:"sortBy,omitempty"`
	SortOrder *core.SortOrder `json:"sortOrder,omitempty"`
}

// HandleSetPrefs updates view and sort preferences.
func HandleSetPrefs(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req prefsRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		if req.View != nil {
			store.SetView(r.Context(), *req.View)
		}
		if req.SortBy != nil {
			store.SetSortBy(r.Context(), *req.SortBy)
		}
		if req.SortOrder != nil {
			store.SetSortOrder(r.Context(), *req.SortOrder)
		}
		render.JSON(w, r, store.Preferences())
	}
}

// HandleListCollections returns all collections.
func HandleListCollections(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collections := store.Collections()
		if collections == nil {
			collections = []*core.Collection{}
		}
		render.JSON(w, r, collections)
	}
}

type createCollectionRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ItemIDs     []string `json:"itemIds"`
}

func HandleCreateCollection(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCollectionRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		if req.Name == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "name is required"})
			return
		}
		c := store.CreateCollection(r.Context(), req.Name, req.Description, req.ItemIDs)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, c)
	}
}

func HandleDeleteCollection(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.DeleteCollection(r.Context(), chi.URLParam(r, "id"))
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}

func HandleAddToCollection(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkIDsRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}
		store.AddToCollection(r.Context(), chi.URLParam(r, "id"), req.IDs)
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}

// HandleIncrementViews bumps an item's view counter.
func HandleIncrementViews(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.IncrementViews(r.Context(), chi.URLParam(r, "id"))
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}

// HandleIncrementDownloads bumps an item's download counter.
func HandleIncrementDownloads(store *libstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.IncrementDownloads(r.Context(), chi.URLParam(r, "id"))
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
