package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"vtuportal/internal/config"
	"vtuportal/internal/domain"
	"vtuportal/internal/export"
	"vtuportal/internal/extractor"
	"vtuportal/internal/grade"
	"vtuportal/internal/port"
	"vtuportal/internal/semester"
)

// exportPageSize bounds how many rows ExportRecords holds at once.
const exportPageSize = 500

// Persistence skip reasons.
const (
	reasonNotRequested  = "persistence not requested"
	reasonNoData        = "no subject rows recognised"
	reasonSGPAUndefined = "sgpa undefined"
	reasonNoSeatNumber  = "seat number not found in document"
	reasonNoStore       = "result store not configured"
)

// EvaluateInput is the DTO for one document evaluation.
// Document is the raw PDF; when empty, Text is used as the text layer directly.
type EvaluateInput struct {
	SemesterID string
	Document   []byte
	Text       string
	Persist    bool
}

// ResultService runs the result pipeline and serves persisted records.
type ResultService interface {
	Evaluate(ctx context.Context, input EvaluateInput) (*domain.Evaluation, error)
	Lookup(ctx context.Context, usn, semesterID string) (*domain.ResultRow, error)
	History(ctx context.Context, usn string) ([]domain.ResultRow, error)
	ListRecords(ctx context.Context, offset, limit int) ([]domain.ResultRow, int, error)
	ExportRecords(ctx context.Context, w io.Writer, format domain.ExportFormat) error
	Semesters() []*semester.Config
	ReadUpload(file multipart.File, header *multipart.FileHeader) ([]byte, error)
	Ping(ctx context.Context) error
}

type resultService struct {
	catalogue *semester.Catalogue
	extractor *extractor.Extractor
	text      port.TextExtractor
	repo      port.ResultRepository
	cfg       *config.Config
	log       *zap.Logger
}

// NewResultService creates a new ResultService implementation.
// repo may be nil, in which case every evaluation reports persistence as unavailable.
func NewResultService(
	catalogue *semester.Catalogue,
	text port.TextExtractor,
	repo port.ResultRepository,
	cfg *config.Config,
	logger *zap.Logger,
) ResultService {
	return &resultService{
		catalogue: catalogue,
		extractor: extractor.New(),
		text:      text,
		repo:      repo,
		cfg:       cfg,
		log:       logger.Named("resultService"),
	}
}

func (s *resultService) resolveSemester(id string) (*semester.Config, error) {
	if id == "" {
		id = s.cfg.Semester.Default
	}
	return s.catalogue.Get(id)
}

func (s *resultService) Evaluate(ctx context.Context, input EvaluateInput) (*domain.Evaluation, error) {
	sem, err := s.resolveSemester(input.SemesterID)
	if err != nil {
		return nil, err
	}
	log := s.log.With(zap.String("semester", sem.ID()))

	text := input.Text
	if len(input.Document) > 0 {
		text, err = s.text.ExtractText(ctx, input.Document)
		if err != nil {
			// Corrupt or image-only documents end up as no_data.
			log.Warn("text extraction failed", zap.Error(err))
			text = ""
		}
	}

	identity, records := s.extractor.Extract(text, sem)
	ev := &domain.Evaluation{
		SemesterID:  sem.ID(),
		Semester:    sem.Label(),
		Identity:    identity,
		Subjects:    []domain.EnrichedSubjectRecord{},
		Persistence: domain.PersistenceOutcome{Status: domain.PersistenceSkipped},
	}
	log = log.With(zap.String("usn", identity.ExternalID))

	if len(records) == 0 {
		ev.Status = domain.EvaluationNoData
		ev.Persistence.Reason = reasonNoData
		log.Info("no subject rows recognised")
		return ev, nil
	}

	enriched, err := grade.Enrich(records, sem)
	if err != nil {
		return nil, err
	}
	ev.Subjects = enriched

	sgpa, err := grade.SGPA(enriched)
	if errors.Is(err, domain.ErrSGPAUndefined) {
		ev.Status = domain.EvaluationSGPAUndefined
		ev.Persistence.Reason = reasonSGPAUndefined
		log.Info("sgpa undefined", zap.Int("subjects", len(enriched)))
		return ev, nil
	}
	if err != nil {
		return nil, err
	}

	rounded := sgpa.Rounded()
	ev.Status = domain.EvaluationComplete
	ev.SGPA = &sgpa
	ev.SGPARounded = &rounded

	switch {
	case !input.Persist:
		ev.Persistence.Reason = reasonNotRequested
	case !identity.HasExternalID():
		ev.Persistence.Reason = reasonNoSeatNumber
	default:
		ev.Persistence = s.persist(ctx, ev)
	}

	log.Info("evaluation complete",
		zap.String("sgpa", rounded.StringFixed(2)),
		zap.Int("subjects", len(enriched)),
		zap.String("persistence", string(ev.Persistence.Status)))
	return ev, nil
}

// persist never fails the evaluation; store errors become an unavailable outcome.
func (s *resultService) persist(ctx context.Context, ev *domain.Evaluation) domain.PersistenceOutcome {
	if s.repo == nil {
		return domain.PersistenceOutcome{Status: domain.PersistenceUnavailable, Reason: reasonNoStore}
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	row := &domain.ResultRow{
		Name:          ev.Identity.Name,
		ExternalID:    ev.Identity.ExternalID,
		SGPA:          *ev.SGPARounded,
		SemesterLabel: ev.Semester,
	}
	action, err := s.repo.Upsert(ctx, row)
	if err != nil {
		s.log.Warn("result store unavailable",
			zap.String("usn", row.ExternalID),
			zap.String("semester", row.SemesterLabel),
			zap.Error(err))
		return domain.PersistenceOutcome{Status: domain.PersistenceUnavailable, Reason: err.Error()}
	}
	return domain.PersistenceOutcome{Status: action.PersistenceStatus(), Row: row}
}

func (s *resultService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Store.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.Store.Timeout)
	}
	return context.WithCancel(ctx)
}

func (s *resultService) Lookup(ctx context.Context, usn, semesterID string) (*domain.ResultRow, error) {
	usn = strings.ToUpper(strings.TrimSpace(usn))
	if usn == "" {
		return nil, domain.ErrNotFound
	}
	if s.repo == nil {
		return nil, fmt.Errorf("resultService.Lookup: %s", reasonNoStore)
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	if semesterID == "" {
		return s.repo.FindByExternalID(ctx, usn)
	}
	sem, err := s.catalogue.Get(semesterID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByExternalIDAndSemester(ctx, usn, sem.Label())
}

// History returns every stored semester row for usn in store order.
func (s *resultService) History(ctx context.Context, usn string) ([]domain.ResultRow, error) {
	usn = strings.ToUpper(strings.TrimSpace(usn))
	if usn == "" {
		return nil, domain.ErrNotFound
	}
	if s.repo == nil {
		return nil, fmt.Errorf("resultService.History: %s", reasonNoStore)
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	rows, err := s.repo.ListByExternalID(ctx, usn)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return rows, nil
}

func (s *resultService) ListRecords(ctx context.Context, offset, limit int) ([]domain.ResultRow, int, error) {
	if s.repo == nil {
		return nil, 0, fmt.Errorf("resultService.ListRecords: %s", reasonNoStore)
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.repo.List(ctx, offset, limit)
}

// ExportRecords writes nothing to w until the first page has been read, so a
// store failure can still be reported to the caller as an error.
func (s *resultService) ExportRecords(ctx context.Context, w io.Writer, format domain.ExportFormat) error {
	if s.repo == nil {
		return fmt.Errorf("resultService.ExportRecords: %s", reasonNoStore)
	}
	format, err := export.ParseFormat(string(format))
	if err != nil {
		return err
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	rows, total, err := s.repo.List(ctx, 0, exportPageSize)
	if err != nil {
		return fmt.Errorf("resultService.ExportRecords: listing rows: %w", err)
	}
	rw, err := export.NewWriter(w, format)
	if err != nil {
		return err
	}
	if err := rw.WriteHeader(); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for offset := 0; ; {
		if err := rw.WriteRows(rows); err != nil {
			return fmt.Errorf("writing export rows: %w", err)
		}
		offset += len(rows)
		if len(rows) == 0 || offset >= total {
			break
		}
		rows, total, err = s.repo.List(ctx, offset, exportPageSize)
		if err != nil {
			return fmt.Errorf("listing rows at offset %d: %w", offset, err)
		}
	}
	return rw.Close()
}

func (s *resultService) Semesters() []*semester.Config {
	return s.catalogue.List()
}

// ReadUpload checks extension, size and sniffed content type, then returns the document bytes.
func (s *resultService) ReadUpload(file multipart.File, header *multipart.FileHeader) ([]byte, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if ext != domain.FileTypePDF {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.Upload.MaxBytes()
	if header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read one byte past the limit so an understated header.Size is still caught.
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	if http.DetectContentType(data) != domain.ContentTypePDF {
		return nil, domain.ErrUnsupportedFileType
	}
	return data, nil
}

func (s *resultService) Ping(ctx context.Context) error {
	if s.repo == nil {
		return fmt.Errorf("resultService.Ping: %s", reasonNoStore)
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.repo.Ping(ctx)
}
