package handlers

import (
	"net/http"

	"github.com/reflectcare/reflection-platform/internal/reflection"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

type selfPlayRequest struct {
	Year       string `json:"year"`
	Title      string `json:"title"`
	Context    string `json:"context"`
	Iterations int    `json:"iterations"`
}

// SelfPlayHandler runs sequential refinement rounds over a draft
// reflection.
type SelfPlayHandler struct {
	refiner *reflection.SelfPlayRefiner
	logger  *logging.Logger
}

func NewSelfPlayHandler(refiner *reflection.SelfPlayRefiner, logger *logging.Logger) *SelfPlayHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SelfPlayHandler{refiner: refiner, logger: logger.Component("selfplay_handler")}
}

func (h *SelfPlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req selfPlayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.refiner.Refine(r.Context(), reflection.SelfPlayRequest{
		Year:       req.Year,
		Title:      req.Title,
		Context:    req.Context,
		Iterations: req.Iterations,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
