package integrations

import (
	"net/http"

	"genmock-studio/core"
	intstore "genmock-studio/integrations"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

var knownTypes = map[core.IntegrationType]bool{
	core.IntegrationEtsy:      true,
	core.IntegrationShopify:   true,
	core.IntegrationPrintful:  true,
	core.IntegrationRedbubble: true,
	core.IntegrationAmazon:    true,
	core.IntegrationStripe:    true,
}

func HandleList(store *intstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, store.Integrations())
	}
}

func HandleConnect(store *intstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Type core.IntegrationType `json:"type"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid request body"})
			return
		}
		if !knownTypes[req.Type] {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "unknown integration type"})
			return
		}
		conn := store.Connect(r.Context(), req.Type)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, conn)
	}
}

func HandleDisconnect(store *intstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		store.Disconnect(r.Context(), id)
		render.Status(r, http.StatusNoContent)
		render.NoContent(w, r)
	}
}
