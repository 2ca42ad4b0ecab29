package entity

import (
	"net/http"
	"strconv"

	"github.com/drblury/swiftmove/responder"
	"github.com/drblury/swiftmove/store"
)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// Handler serves List, Create, Update and Delete for one Entity. Each
// operation issues exactly one statement through the gateway.
type Handler struct {
	*responder.Responder
	entity  Entity
	gateway store.Gateway
}

// NewHandler constructs the handler group for e.
func NewHandler(e Entity, gateway store.Gateway, opts ...HandlerOption) *Handler {
	if gateway == nil {
		panic("entity: gateway cannot be nil")
	}
	h := &Handler{
		Responder: responder.NewResponder(),
		entity:    e,
		gateway:   gateway,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// WithResponder replaces the responder used for bodies and error reporting.
func WithResponder(r *responder.Responder) HandlerOption {
	return func(h *Handler) {
		if r != nil {
			h.Responder = r
		}
	}
}

// Entity returns the entity this handler serves.
func (h *Handler) Entity() Entity {
	return h.entity
}

// List returns every row of the table as a JSON array.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.gateway.Query(r.Context(), h.entity.listStatement())
	if err != nil {
		h.HandleErrors(w, r, err, "failed to list "+h.entity.Path)
		return
	}
	if rows == nil {
		rows = []store.Row{}
	}
	h.RespondWithJSON(w, r, http.StatusOK, rows)
}

// Create inserts the declared fields from the body and echoes them back with
// the assigned id.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	args, supplied, ok := h.readFields(w, r)
	if !ok {
		return
	}

	id, err := h.gateway.Insert(r.Context(), h.entity.insertStatement(), args...)
	if err != nil {
		h.HandleErrors(w, r, err, "failed to create "+h.entity.Name)
		return
	}

	supplied["id"] = id
	h.RespondWithJSON(w, r, http.StatusCreated, supplied)
}

// Update overwrites every declared field of the row. Fields missing from the
// body are set to NULL.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	args, _, ok := h.readFields(w, r)
	if !ok {
		return
	}

	affected, err := h.gateway.Exec(r.Context(), h.entity.updateStatement(), append(args, id)...)
	if err != nil {
		h.HandleErrors(w, r, err, "failed to update "+h.entity.Name)
		return
	}
	if affected == 0 {
		h.RespondWithMessage(w, r, http.StatusNotFound, h.entity.NotFoundMessage())
		return
	}
	h.RespondWithMessage(w, r, http.StatusOK, h.entity.UpdatedMessage())
}

// Delete removes the row.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	affected, err := h.gateway.Exec(r.Context(), h.entity.deleteStatement(), id)
	if err != nil {
		h.HandleErrors(w, r, err, "failed to delete "+h.entity.Name)
		return
	}
	if affected == 0 {
		h.RespondWithMessage(w, r, http.StatusNotFound, h.entity.NotFoundMessage())
		return
	}
	h.RespondWithMessage(w, r, http.StatusOK, h.entity.DeletedMessage())
}

// pathID parses {id}. A value that is not an integer cannot match any row, so
// it is answered like a missing one.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.RespondWithMessage(w, r, http.StatusNotFound, h.entity.NotFoundMessage())
		return 0, false
	}
	return id, true
}

func (h *Handler) readFields(w http.ResponseWriter, r *http.Request) ([]any, map[string]any, bool) {
	var body Body
	if !h.ReadRequestBody(w, r, &body) {
		return nil, nil, false
	}
	if body == nil {
		h.HandleBadRequestError(w, r, errNotObject, "failed to parse request body")
		return nil, nil, false
	}

	args, supplied, err := h.entity.bind(body)
	if err != nil {
		h.HandleBadRequestError(w, r, err, "failed to bind request body")
		return nil, nil, false
	}
	return args, supplied, true
}
