package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CallerFunc reports the id of the signed-in caller, if any.
type CallerFunc func(r *http.Request) (id string, ok bool)

type Handler struct {
	service Service
	caller  CallerFunc
}

// NewHandler creates the user handler. A user record is only ever served to
// the user it describes; caller resolves who is asking.
func NewHandler(service Service, caller CallerFunc) *Handler {
	return &Handler{service: service, caller: caller}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/users/{id}", h.getUser)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	callerID, ok := "", false
	if h.caller != nil {
		callerID, ok = h.caller(r)
	}
	if !ok || callerID == "" {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	// Other users' records are indistinguishable from missing ones.
	if callerID != id {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
