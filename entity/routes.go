package entity

import (
	"net/http"

	"github.com/drblury/swiftmove/responder"
	"github.com/drblury/swiftmove/store"
)

// Register mounts the four routes of every entity on mux:
//
//	GET    /api/<path>
//	POST   /api/<path>
//	PUT    /api/<path>/{id}
//	DELETE /api/<path>/{id}
//
// All handlers share gateway and resp. A nil resp falls back to the default
// responder.
func Register(mux *http.ServeMux, gateway store.Gateway, resp *responder.Responder, entities ...Entity) []*Handler {
	handlers := make([]*Handler, 0, len(entities))
	for _, e := range entities {
		h := NewHandler(e, gateway, WithResponder(resp))
		mux.HandleFunc("GET "+e.CollectionPath(), h.List)
		mux.HandleFunc("POST "+e.CollectionPath(), h.Create)
		mux.HandleFunc("PUT "+e.ItemPath(), h.Update)
		mux.HandleFunc("DELETE "+e.ItemPath(), h.Delete)
		handlers = append(handlers, h)
	}
	return handlers
}
