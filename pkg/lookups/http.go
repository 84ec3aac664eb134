package lookups

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/phage-catalogue/platform/pkg/common/logger"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/lookups/{kind}", h.handleChoices).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleChoices(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	names, err := h.service.Choices(r.Context(), kind)
	if err != nil {
		logger.Log.WithError(err).WithField("kind", kind).Error("failed to list lookup choices")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"kind": kind, "items": names})
}
