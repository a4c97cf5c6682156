package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

type auditSinkStub struct {
	logs []*models.AuditLog
	err  error
}

func (s *auditSinkStub) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, log)
	return nil
}

func runAuditRequest(sink *auditSinkStub, logger *zap.Logger, status int) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/export", Audit(sink, logger, "EXPORT_DOWNLOAD", "change-history"), func(c *gin.Context) {
		c.Status(status)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
}

func TestAuditRecordsSuccessfulRequest(t *testing.T) {
	sink := &auditSinkStub{}
	runAuditRequest(sink, nil, http.StatusOK)

	require.Len(t, sink.logs, 1)
	require.Equal(t, "EXPORT_DOWNLOAD", sink.logs[0].Action)
	require.Equal(t, "change-history", sink.logs[0].Resource)
}

func TestAuditSkipsFailedRequest(t *testing.T) {
	sink := &auditSinkStub{}
	runAuditRequest(sink, nil, http.StatusForbidden)

	require.Empty(t, sink.logs)
}

func TestAuditWarnsOnSinkFailure(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	sink := &auditSinkStub{err: errors.New("sink down")}

	runAuditRequest(sink, zap.New(core), http.StatusOK)

	require.Equal(t, 1, recorded.FilterMessage("failed to persist audit log").Len())
}
