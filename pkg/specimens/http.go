package specimens

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/phage-catalogue/platform/pkg/common/logger"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/specimens", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/specimens/{id:[0-9]+}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/specimens/{id:[0-9]+}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/specimens/bacteria", h.handleCreate(KindBacterium)).Methods(http.MethodPost)
	r.HandleFunc("/specimens/bacteria/{id:[0-9]+}", h.handleUpdate(KindBacterium)).Methods(http.MethodPut)
	r.HandleFunc("/specimens/phages", h.handleCreate(KindPhage)).Methods(http.MethodPost)
	r.HandleFunc("/specimens/phages/{id:[0-9]+}", h.handleUpdate(KindPhage)).Methods(http.MethodPut)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), Kind(q.Get("type")), parseInt(q.Get("page"), 1), parseInt(q.Get("page_size"), defaultPageSize))
	if err != nil {
		h.writeError(w, err, "failed to list specimens")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	specimen, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to get specimen")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"specimen": specimen})
}

func (h *Handler) handleCreate(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		specimen, err := h.service.Create(r.Context(), kind, req)
		if err != nil {
			h.writeError(w, err, "failed to create specimen")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"specimen": specimen})
	}
}

func (h *Handler) handleUpdate(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var req SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		specimen, err := h.service.Update(r.Context(), kind, id, req)
		if err != nil {
			h.writeError(w, err, "failed to update specimen")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"specimen": specimen})
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "failed to delete specimen")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, msg string) {
	switch {
	case IsValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "specimen not found", http.StatusNotFound)
	case errors.Is(err, ErrWrongKind):
		http.Error(w, "specimen is of another type", http.StatusConflict)
	default:
		logger.Log.WithError(err).Error(msg)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		http.Error(w, "invalid specimen id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
