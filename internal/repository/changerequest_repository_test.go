package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

func newChangeRequestRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestChangeRequestRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newChangeRequestRepoMock(t)
	defer cleanup()

	repo := NewChangeRequestRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO change_requests")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO change_request_items")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attachments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	request := &models.ChangeRequest{
		VendorID:    "100450",
		RequesterID: "user-1",
		RequestType: models.RequestTypeBankData,
		Items: []models.ChangeRequestItem{
			{TableName: "LFBK", FieldName: "BANKN", OldValue: "*******8888", NewValue: "123456789", IsSensitive: true},
		},
		Attachments: []models.Attachment{
			{FileName: "bank_confirmation.pdf", MimeType: "application/pdf", Category: models.AttachmentBankLetter},
		},
	}
	require.NoError(t, repo.Create(context.Background(), request))
	require.NotEmpty(t, request.ID)
	require.Equal(t, models.ChangeRequestStatusNew, request.Status)
	require.Equal(t, request.ID, request.Items[0].RequestID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeRequestRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newChangeRequestRepoMock(t)
	defer cleanup()

	repo := NewChangeRequestRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "vendor_id", "requester_id", "request_type", "status", "decided_by", "comment", "created_at", "updated_at"}).
		AddRow("cr-1", "100450", "user-1", "BANK_DATA", "IN_REVIEW", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, vendor_id, requester_id")).
		WithArgs("cr-1").
		WillReturnRows(rows)
	itemRows := sqlmock.NewRows([]string{"id", "request_id", "table_name", "field_name", "old_value", "new_value", "sub_key1", "is_sensitive"}).
		AddRow("item-1", "cr-1", "LFBK", "BANKN", "*******8888", "123456789", nil, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM change_request_items")).
		WithArgs("cr-1").
		WillReturnRows(itemRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attachments")).
		WithArgs("cr-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "file_name", "mime_type", "category", "uploaded_at"}))

	found, err := repo.GetByID(context.Background(), "cr-1")
	require.NoError(t, err)
	require.Equal(t, "cr-1", found.ID)
	require.Len(t, found.Items, 1)
	require.True(t, found.Items[0].IsSensitive)
	require.Empty(t, found.Attachments)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeRequestRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newChangeRequestRepoMock(t)
	defer cleanup()

	repo := NewChangeRequestRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "vendor_id", "requester_id", "request_type", "status", "decided_by", "comment", "created_at", "updated_at"}).
		AddRow("cr-2", "100450", "user-1", "ADDRESS", "NEW", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM change_requests")).
		WithArgs("NEW", "IN_REVIEW", "100450").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM change_request_items")).
		WithArgs("cr-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "table_name", "field_name", "old_value", "new_value", "sub_key1", "is_sensitive"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM attachments")).
		WithArgs("cr-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "file_name", "mime_type", "category", "uploaded_at"}))

	list, err := repo.List(context.Background(), models.ChangeRequestFilter{
		Status:   models.WorklistStatuses,
		VendorID: "100450",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "cr-2", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeRequestRepositoryUpdateDecision(t *testing.T) {
	db, mock, cleanup := newChangeRequestRepoMock(t)
	defer cleanup()

	repo := NewChangeRequestRepository(db)
	now := time.Now().UTC()
	comment := "verified against bank letter"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE change_requests")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.UpdateDecision(context.Background(), UpdateDecisionParams{
		ID:        "cr-1",
		Status:    models.ChangeRequestStatusApproved,
		DecidedBy: "approver-1",
		Comment:   &comment,
		DecidedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	// Second decision on an already decided request matches no rows.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE change_requests")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateDecision(context.Background(), UpdateDecisionParams{
		ID:        "cr-1",
		Status:    models.ChangeRequestStatusRejected,
		DecidedBy: "approver-2",
		DecidedAt: now,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
}
