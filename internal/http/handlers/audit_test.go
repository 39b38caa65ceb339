package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectcare/reflection-platform/internal/compliance"
)

func newAuditHandler(t *testing.T) (*AuditEventsHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuditEventsHandler(compliance.NewAuditService(db), nil), mock
}

func TestAuditEventsList(t *testing.T) {
	h, mock := newAuditHandler(t)

	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "event_type", "request_id", "source", "details", "created_at"}).
		AddRow("evt-1", string(compliance.EventPHIDetected), "req-1", "photo", []byte(`{"phi_types":["NAME"]}`), created)
	mock.ExpectQuery("SELECT id, event_type, request_id, source, details, created_at").
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/compliance/audit?type=compliance.phi_detected&limit=10", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body auditEventsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Events, 1)
	assert.Equal(t, compliance.EventPHIDetected, body.Events[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditEventsEmptyResult(t *testing.T) {
	h, mock := newAuditHandler(t)

	mock.ExpectQuery("SELECT id, event_type, request_id, source, details, created_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "request_id", "source", "details", "created_at"}))

	req := httptest.NewRequest(http.MethodGet, "/api/compliance/audit", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"events":[],"count":0}`, rr.Body.String())
}

func TestAuditEventsBadFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"malformed since", "?since=yesterday"},
		{"non-numeric limit", "?limit=many"},
		{"zero limit", "?limit=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newAuditHandler(t)
			req := httptest.NewRequest(http.MethodGet, "/api/compliance/audit"+tt.query, nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
