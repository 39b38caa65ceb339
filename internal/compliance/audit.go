// Package compliance records audit events for information-governance
// review. Detection is advisory; the audit trail is what governance
// teams inspect, so events never store the flagged text itself.
package compliance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEventType identifies a compliance event class.
type AuditEventType string

const (
	// EventPHIDetected is logged when patient-identifiable information
	// is flagged in submitted material.
	EventPHIDetected AuditEventType = "compliance.phi_detected"
	// EventExportRequested is logged when a portfolio export is requested.
	EventExportRequested AuditEventType = "compliance.export_requested"
)

// AuditEvent is an immutable audit record.
type AuditEvent struct {
	ID        string          `json:"id"`
	EventType AuditEventType  `json:"event_type"`
	RequestID string          `json:"request_id,omitempty"`
	Source    string          `json:"source,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditDetails contains event-specific details.
type AuditDetails struct {
	PHITypes     []string `json:"phi_types,omitempty"`
	WarningCount int      `json:"warning_count,omitempty"`
	Advisory     bool     `json:"advisory,omitempty"`
	ExportFormat string   `json:"export_format,omitempty"`
}

// AuditService writes audit events. A nil service is a no-op so the
// pipeline runs unchanged when no database is configured.
type AuditService struct {
	db *sql.DB
}

func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{db: db}
}

// LogEvent records an audit event.
func (s *AuditService) LogEvent(ctx context.Context, event AuditEvent) error {
	if s == nil || s.db == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO compliance_audit_events (
			id, event_type, request_id, source, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		nullString(event.RequestID),
		nullString(event.Source),
		event.Details,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("compliance: failed to log audit event: %w", err)
	}
	return nil
}

// LogPHIDetected records that PHI categories were flagged. Only the
// category names are stored, never the matched text.
func (s *AuditService) LogPHIDetected(ctx context.Context, requestID, source string, phiTypes []string) error {
	details := AuditDetails{
		PHITypes:     phiTypes,
		WarningCount: len(phiTypes),
		Advisory:     true,
	}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType: EventPHIDetected,
		RequestID: requestID,
		Source:    source,
		Details:   detailsJSON,
	})
}

// LogExportRequested records a portfolio export request.
func (s *AuditService) LogExportRequested(ctx context.Context, requestID, format string) error {
	details := AuditDetails{ExportFormat: format}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType: EventExportRequested,
		RequestID: requestID,
		Details:   detailsJSON,
	})
}

// QueryEvents retrieves audit events, newest first.
func (s *AuditService) QueryEvents(ctx context.Context, filter AuditFilter) ([]AuditEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	query := `
		SELECT id, event_type, request_id, source, details, created_at
		FROM compliance_audit_events
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, filter.EventType)
		argIdx++
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, filter.Since)
		argIdx++
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		var requestID, source sql.NullString
		if err := rows.Scan(&e.ID, &e.EventType, &requestID, &source, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("compliance: failed to scan audit event: %w", err)
		}
		e.RequestID = requestID.String
		e.Source = source.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// AuditFilter narrows a QueryEvents call.
type AuditFilter struct {
	EventType AuditEventType
	Since     time.Time
	Limit     int
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
