package projects

import (
	"net/http"

	"genmock-studio/core"
	"genmock-studio/project"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HandleList returns all projects.
func HandleList(store *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects := store.Projects()
		if projects == nil {
			projects = []*core.Project{}
		}
		render.JSON(w, r, projects)
	}
}

// HandleGet returns one project. A missing id means evicted or never
// existed, which is a 404, not a server error.
func HandleGet(store *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p := store.GetProject(id)
		if p == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Project not found"})
			return
		}
		render.JSON(w, r, p)
	}
}

// HandleGetCurrent returns the active project pointer, or null.
func HandleGetCurrent(store *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, store.Current())
	}
}

type setCurrentRequest struct {
	ID string `json:"id"`
}

// HandleSetCurrent points the active-project pointer at a project, or clears
// it when id is empty.
func HandleSetCurrent(store *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setCurrentRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON in request body"})
			return
		}

		if req.ID == "" {
			store.SetCurrent(nil)
			render.JSON(w, r, nil)
			return
		}

		p := store.GetProject(req.ID)
		if p == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Project not found"})
			return
		}
		store.SetCurrent(p)
		render.JSON(w, r, p)
	}
}
