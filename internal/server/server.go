package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"

	"github.com/Makepad-fr/shopster/internal/logging"
	"github.com/Makepad-fr/shopster/internal/model"
)

// Options tune the HTTP layer.
type Options struct {
	// AccessLog, when set, receives one JSON line per request.
	AccessLog io.Writer
}

type handlers struct {
	store Store
	log   *logging.Logger
}

// New builds the router for the item collection service.
func New(store Store, logger *logging.Logger, opt Options) http.Handler {
	h := &handlers{store: store, log: logger.WithComponent("server")}

	r := chi.NewRouter()
	if opt.AccessLog != nil {
		accessLog := httplog.NewLogger("shopster", httplog.Options{
			Writer:   opt.AccessLog,
			JSON:     true,
			LogLevel: slog.LevelInfo,
		})
		r.Use(httplog.RequestLogger(accessLog))
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
	return r
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.internal(w, "list items", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid JSON"})
		return
	}
	it, err := h.store.Create(r.Context(), d)
	if err != nil {
		h.internal(w, "create item", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var ch model.Changes
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid JSON"})
		return
	}
	it, err := h.store.Update(r.Context(), id, ch)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, invalidID)
		return
	}
	if err != nil {
		h.internal(w, "update item", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, invalidID)
		return
	}
	if err != nil {
		h.internal(w, "delete item", err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

type errorBody struct {
	Message string `json:"message"`
}

var invalidID = errorBody{Message: "Invalid ID"}

// parseID accepts positive integers only and answers 404 otherwise.
func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, invalidID)
		return 0, false
	}
	return id, true
}

func (h *handlers) internal(w http.ResponseWriter, op string, err error) {
	h.log.Error(op+" failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
