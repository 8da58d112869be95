package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"clinic-archive/internal/model"
	"clinic-archive/pkg/apierror"
)

type auditRepository interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

const (
	AuditActionArchive      = "archive.create"
	AuditActionAutoArchive  = "archive.auto"
	AuditActionDeleteEntry  = "archive.delete_entry"
	AuditActionPurge        = "archive.purge"
	AuditActionSaveSettings = "archive.settings_save"

	AuditStatusSuccess = "success"
	AuditStatusFailed  = "failed"
)

type AuditService struct {
	repo   auditRepository
	logger *slog.Logger
}

func NewAuditService(repo auditRepository) *AuditService {
	return &AuditService{repo: repo, logger: slog.Default().With("component", "audit")}
}

// Log records an action. Audit failures are logged and never fail the caller.
func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, status string, resource string, before any, after any, errText string) {
	if s == nil || s.repo == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     status,
		Resource:   resource,
		Before:     before,
		After:      after,
		Error:      errText,
	}

	if err := s.repo.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit entry", "action", action, "resource", resource, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	if err := validateOptionalAuditTime(query.From); err != nil {
		return nil, model.Meta{}, apierror.New("BAD_REQUEST", "invalid 'from' datetime format", query.From, http.StatusBadRequest)
	}
	if err := validateOptionalAuditTime(query.To); err != nil {
		return nil, model.Meta{}, apierror.New("BAD_REQUEST", "invalid 'to' datetime format", query.To, http.StatusBadRequest)
	}

	return s.repo.Query(ctx, query)
}

func validateOptionalAuditTime(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	_, err := time.Parse(time.RFC3339Nano, trimmed)
	return err
}
