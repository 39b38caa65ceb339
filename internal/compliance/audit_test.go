package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogPHIDetected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	mock.ExpectExec("INSERT INTO compliance_audit_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.LogPHIDetected(context.Background(), "req-123", "document", []string{"NHS_NUMBER", "NAME"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_LogExportRequested(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	mock.ExpectExec("INSERT INTO compliance_audit_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.LogExportRequested(context.Background(), "req-456", "pdf")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_NilServiceIsNoop(t *testing.T) {
	var service *AuditService

	assert.NoError(t, service.LogPHIDetected(context.Background(), "req", "photo", []string{"EMAIL"}))
	events, err := service.QueryEvents(context.Background(), AuditFilter{})
	assert.NoError(t, err)
	assert.Nil(t, events)
}

func TestAuditService_QueryEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "event_type", "request_id", "source", "details", "created_at"}).
		AddRow("evt-1", string(EventPHIDetected), "req-1", "photo", []byte(`{"phi_types":["NAME"]}`), created)

	mock.ExpectQuery("SELECT id, event_type, request_id, source, details, created_at").
		WillReturnRows(rows)

	events, err := service.QueryEvents(context.Background(), AuditFilter{EventType: EventPHIDetected, Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventPHIDetected, events[0].EventType)
	assert.Equal(t, "photo", events[0].Source)
}
