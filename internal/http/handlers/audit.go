package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/reflectcare/reflection-platform/internal/compliance"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

const (
	defaultAuditPageSize = 100
	maxAuditPageSize     = 500
)

type auditEventsResponse struct {
	Events []compliance.AuditEvent `json:"events"`
	Count  int                     `json:"count"`
}

// AuditEventsHandler lists recorded compliance events for
// information-governance review.
type AuditEventsHandler struct {
	audit  *compliance.AuditService
	logger *logging.Logger
}

func NewAuditEventsHandler(audit *compliance.AuditService, logger *logging.Logger) *AuditEventsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuditEventsHandler{
		audit:  audit,
		logger: logger.Component("audit_events_handler"),
	}
}

func (h *AuditEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	events, err := h.audit.QueryEvents(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, pipeline.Wrap(pipeline.KindInternal, err, "audit query failed"))
		return
	}
	if events == nil {
		events = []compliance.AuditEvent{}
	}

	writeJSON(w, http.StatusOK, auditEventsResponse{Events: events, Count: len(events)})
}

func parseAuditFilter(r *http.Request) (compliance.AuditFilter, error) {
	filter := compliance.AuditFilter{Limit: defaultAuditPageSize}
	q := r.URL.Query()

	if t := q.Get("type"); t != "" {
		filter.EventType = compliance.AuditEventType(t)
	}
	if since := q.Get("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return filter, pipeline.E(pipeline.KindEmptyInput, "since must be an RFC 3339 timestamp")
		}
		filter.Since = parsed
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return filter, pipeline.E(pipeline.KindEmptyInput, "limit must be a positive integer")
		}
		if n > maxAuditPageSize {
			n = maxAuditPageSize
		}
		filter.Limit = n
	}
	return filter, nil
}
