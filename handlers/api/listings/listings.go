package listings

import (
	"net/http"

	"genmock-studio/core"
	"genmock-studio/marketplace"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func HandleList(store *marketplace.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, store.Listings())
	}
}

func HandleGet(store *marketplace.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		listing := store.GetListing(id)
		if listing == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "listing not found"})
			return
		}
		render.JSON(w, r, listing)
	}
}

func HandleCreate(store *marketplace.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft core.ListingDraft
		if err := render.DecodeJSON(r.Body, &draft); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid request body"})
			return
		}
		listing := store.AddListing(r.Context(), draft)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, listing)
	}
}

func HandleUpdate(store *marketplace.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if store.GetListing(id) == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "listing not found"})
			return
		}
		var patch core.ListingPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid request body"})
			return
		}
		store.UpdateListing(r.Context(), id, patch)
		render.JSON(w, r, store.GetListing(id))
	}
}

func HandleDelete(store *marketplace.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		store.DeleteListing(r.Context(), id)
		render.Status(r, http.StatusNoContent)
		render.NoContent(w, r)
	}
}

func HandlePublish(store *marketplace.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if store.GetListing(id) == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "listing not found"})
			return
		}
		store.PublishListing(r.Context(), id)
		render.JSON(w, r, store.GetListing(id))
	}
}
