package uploads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/phage-catalogue/platform/pkg/common/logger"
)

const multipartMemory = 8 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/uploads", h.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/uploads", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/uploads/{id:[0-9]+}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/uploads/{id:[0-9]+}/revalidate", h.handleRevalidate).Methods(http.MethodPost)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("sample_file")
	if err != nil {
		http.Error(w, "sample_file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	upload, err := h.service.Upload(r.Context(), header.Filename, file)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]interface{}{"upload": upload, "errors": upload.ErrorList()})
	case errors.Is(err, ErrUnreadable):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"upload": upload, "errors": upload.ErrorList()})
	default:
		logger.Log.WithError(err).Error("failed to process upload")
		http.Error(w, "failed to process upload", http.StatusInternalServerError)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), parseInt(q.Get("page"), 1), parseInt(q.Get("page_size"), defaultPageSize))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list uploads")
		http.Error(w, "failed to list uploads", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	upload, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, err, "failed to get upload")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"upload": upload, "errors": upload.ErrorList()})
}

func (h *Handler) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	messages, err := h.service.Revalidate(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUnreadable) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeLookupError(w, err, "failed to revalidate upload")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"upload_id": id,
		"valid":     len(messages) == 0,
		"errors":    messages,
	})
}

func writeLookupError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "upload not found", http.StatusNotFound)
		return
	}
	logger.Log.WithError(err).Error(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		http.Error(w, "invalid upload id", http.StatusBadRequest)
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
