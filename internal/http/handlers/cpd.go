package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/reflectcare/reflection-platform/internal/reflection"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

type cpdRequest struct {
	Year    string      `json:"year"`
	Title   string      `json:"title"`
	Summary string      `json:"summary"`
	Hours   json.Number `json:"hours"`
	Date    string      `json:"date"`
}

// CPDHandler categorizes a CPD activity.
type CPDHandler struct {
	tagger *reflection.CPDTagger
	logger *logging.Logger
}

func NewCPDHandler(tagger *reflection.CPDTagger, logger *logging.Logger) *CPDHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CPDHandler{tagger: tagger, logger: logger.Component("cpd_handler")}
}

func (h *CPDHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req cpdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	tags, err := h.tagger.Tag(r.Context(), reflection.CPDActivity{
		Year:    req.Year,
		Title:   req.Title,
		Summary: req.Summary,
		Hours:   req.Hours.String(),
		Date:    req.Date,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
