package handlers

import (
	"net/http"

	"github.com/reflectcare/reflection-platform/internal/reflection"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

type learningLoopRequest struct {
	ClinicalText string `json:"clinical_text"`
}

type learningLoopResponse struct {
	LearningLoop     *reflection.LearningLoop `json:"learning_loop"`
	FrameworkVersion string                   `json:"framework_version"`
}

// LearningLoopHandler generates a Learning Loop reflection from a
// clinical narrative.
type LearningLoopHandler struct {
	generator *reflection.LearningLoopGenerator
	logger    *logging.Logger
}

func NewLearningLoopHandler(generator *reflection.LearningLoopGenerator, logger *logging.Logger) *LearningLoopHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &LearningLoopHandler{generator: generator, logger: logger.Component("learning_loop_handler")}
}

func (h *LearningLoopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req learningLoopRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	loop, err := h.generator.Generate(r.Context(), req.ClinicalText)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, learningLoopResponse{
		LearningLoop:     loop,
		FrameworkVersion: "1.1",
	})
}
