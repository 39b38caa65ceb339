package handlers

import (
	"net/http"

	"github.com/reflectcare/reflection-platform/internal/reflection"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

type reinforceRequest struct {
	RecordID string `json:"recordId"`
	Rating   int    `json:"rating"`
}

// ReinforceHandler records a user rating against a synthesized record.
type ReinforceHandler struct {
	store  reflection.RatingStore
	logger *logging.Logger
}

func NewReinforceHandler(store reflection.RatingStore, logger *logging.Logger) *ReinforceHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReinforceHandler{store: store, logger: logger.Component("reinforce_handler")}
}

func (h *ReinforceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req reinforceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.store.SaveRating(r.Context(), req.RecordID, req.Rating); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
