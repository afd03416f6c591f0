package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/export"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/storage"
)

type exportWithdrawalSource interface {
	FindByID(ctx context.Context, id int64) (*models.WithdrawalRecord, error)
}

type exportStudentSource interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type fileStorage interface {
	Save(relPath string, data []byte) (string, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
	CleanupOlderThan(now time.Time, ttl time.Duration) ([]string, error)
}

type sheetRenderer interface {
	RenderSheet(sheet export.Sheet) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string        `json:"-"`
	Token        string        `json:"token"`
	URL          string        `json:"url"`
	Format       export.Format `json:"format"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

// ExportService renders clearance sheets and persists them for signed download.
type ExportService struct {
	withdrawals exportWithdrawalSource
	students    exportStudentSource
	storage     fileStorage
	renderers   map[export.Format]sheetRenderer
	signer      *storage.SignedURLSigner
	metrics     *MetricsService
	audit       *AuditService
	logger      *zap.Logger
	cfg         ExportConfig
	now         Clock
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(withdrawals exportWithdrawalSource, students exportStudentSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, metrics *MetricsService, audit *AuditService, logger *zap.Logger, csv, pdf sheetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		withdrawals: withdrawals,
		students:    students,
		storage:     store,
		renderers:   map[export.Format]sheetRenderer{export.FormatCSV: csv, export.FormatPDF: pdf},
		signer:      signer,
		metrics:     metrics,
		audit:       audit,
		logger:      logger,
		cfg:         cfg,
		now:         systemClock,
	}
}

// WithClock overrides the time source.
func (s *ExportService) WithClock(now Clock) *ExportService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithdrawalClearance renders the clearance sheet for a case and stores it.
func (s *ExportService) WithdrawalClearance(ctx context.Context, id int64, format export.Format, actor *int64) (*ExportResult, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	record, err := s.withdrawals.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "withdrawal")
	}
	student, err := s.students.FindByID(ctx, record.StudentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}

	now := s.now()
	payload, err := renderer.RenderSheet(ClearanceSheet(record, student, now))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render clearance sheet")
	}

	filename := fmt.Sprintf("withdrawals/%s_%s%s", sanitizeFilename(record.WithdrawalNumber), now.Format("20060102_150405"), format.Extension())
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(strconv.FormatInt(record.ID, 10), relPath)
	if err != nil {
		if delErr := s.storage.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to remove unsigned export", zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, appErrors.Internal(err, "failed to sign export")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.metrics.RecordExport(string(format))
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionExport,
		Resource:   withdrawalResource,
		ResourceID: record.ID,
		New:        map[string]interface{}{"format": format, "path": relPath},
	})
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// Download resolves a signed token to the stored file.
func (s *ExportService) Download(token string) (*os.File, string, export.Format, error) {
	ref, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(ref.Path), "."))
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	file, err := s.storage.Open(ref.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "export expired")
		}
		return nil, "", "", appErrors.Internal(err, "failed to open export")
	}
	return file, filepath.Base(ref.Path), format, nil
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(s.now(), ttl)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (s *ExportService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Cleanup(0)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("removed expired exports", zap.Int("count", len(removed)))
			}
		}
	}
}

// ClearanceSheet lays out a withdrawal as one section per checklist category plus a summary.
func ClearanceSheet(record *models.WithdrawalRecord, student *models.Student, now time.Time) export.Sheet {
	list := record.Checklist()
	completion := list.Completion()

	sections := make([]export.Section, 0, 6)
	for _, group := range list.ByCategory() {
		rows := make([]map[string]string, 0, len(group.Items))
		for _, item := range group.Items {
			status := "Outstanding"
			if item.IsDone() {
				status = "Cleared"
			}
			rows = append(rows, map[string]string{"Item": item.Label, "Status": status})
		}
		sections = append(sections, export.Section{
			Heading: group.Name,
			Note:    fmt.Sprintf("%d of %d cleared", group.Completion.Completed, group.Completion.Total),
			Data:    export.Dataset{Headers: []string{"Item", "Status"}, Rows: rows},
		})
	}

	summary := []map[string]string{
		{"Field": "Withdrawal Number", "Value": record.WithdrawalNumber},
		{"Field": "Student", "Value": fmt.Sprintf("%s (%s)", student.DisplayName(), student.StudentNumber)},
		{"Field": "Grade", "Value": student.GradeLevel},
		{"Field": "Reason", "Value": record.Reason.Label()},
		{"Field": "Status", "Value": record.Status.Label()},
		{"Field": "Withdrawal Date", "Value": record.WithdrawalDate.Format("2006-01-02")},
		{"Field": "Cleared", "Value": fmt.Sprintf("%d/%d (%.0f%%)", completion.Completed, completion.Total, completion.Percentage())},
	}
	if record.DestinationSchool != nil && *record.DestinationSchool != "" {
		summary = append(summary, map[string]string{"Field": "Destination School", "Value": *record.DestinationSchool})
	}
	sections = append(sections, export.Section{
		Heading: "Summary",
		Data:    export.Dataset{Headers: []string{"Field", "Value"}, Rows: summary},
	})

	return export.Sheet{
		Title:    "Withdrawal Clearance " + record.WithdrawalNumber,
		Subtitle: "Generated " + now.Format("2006-01-02 15:04 MST"),
		Sections: sections,
	}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
