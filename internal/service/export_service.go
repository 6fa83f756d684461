package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/export"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/storage"
)

type milestoneLister interface {
	GetAll(ctx context.Context) []models.Milestone
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	ExpiresAt    time.Time
}

// Download is a stored export ready to stream.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

var completedWorkHeaders = []string{"ID", "Title", "Description", "Due Date", "Status", "Reviewer", "Feedback", "Reviewed At"}

// ExportService renders completed milestones and persists the files behind signed tokens.
type ExportService struct {
	milestones milestoneLister
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	cfg        ExportConfig
	now        func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(milestones milestoneLister, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		milestones: milestones,
		storage:    files,
		csv:        csv,
		pdf:        pdf,
		signer:     signer,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// CompletedWorkDataset builds the export rows: every Completed milestone, one row each.
func CompletedWorkDataset(list []models.Milestone) export.Dataset {
	rows := make([]map[string]string, 0, len(list))
	for _, m := range list {
		if m.Status != models.MilestoneCompleted {
			continue
		}
		reviewedAt := ""
		if m.ReviewedAt != nil {
			reviewedAt = m.ReviewedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, map[string]string{
			"ID":          fmt.Sprintf("%d", m.ID),
			"Title":       m.Title,
			"Description": m.Description,
			"Due Date":    m.DueDate,
			"Status":      string(m.Status),
			"Reviewer":    m.Reviewer,
			"Feedback":    m.Feedback,
			"Reviewed At": reviewedAt,
		})
	}
	return export.Dataset{Headers: completedWorkHeaders, Rows: rows}
}

// Generate renders the job's export, stores it and signs a download token.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, errors.New("job nil")
	}
	dataset := CompletedWorkDataset(s.milestones.GetAll(ctx))

	var (
		payload []byte
		err     error
	)
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Completed Work")
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := path.Join(string(job.Kind), fmt.Sprintf("%s_%s.%s", job.ID, s.now().UTC().Format("20060102_150405"), job.Format))
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt:    expiresAt,
	}, nil
}

// Open validates a download token and reads the file it grants.
func (s *ExportService) Open(token string) (*Download, error) {
	grant, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, err
	}
	body, err := s.storage.Read(grant.Path)
	if err != nil {
		return nil, err
	}
	contentType := "text/csv"
	if strings.HasSuffix(grant.Path, ".pdf") {
		contentType = "application/pdf"
	}
	return &Download{Filename: path.Base(grant.Path), ContentType: contentType, Body: body}, nil
}

// Cleanup removes files older than ttl (the configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	removed, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		return removed, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}
