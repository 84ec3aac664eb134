package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/phage-catalogue/platform/pkg/common/logger"
	"github.com/phage-catalogue/platform/pkg/lookups"
	"github.com/phage-catalogue/platform/pkg/observability/metrics"
	"github.com/phage-catalogue/platform/pkg/schema"
	"github.com/phage-catalogue/platform/pkg/specimens"
	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"gorm.io/gorm"
)

// ErrUnreadable marks an upload whose file could not be read as a
// spreadsheet.
var ErrUnreadable = errors.New("unreadable spreadsheet")

const EventUploadProcessed = "upload.processed"

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// EventPublisher announces processed uploads.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data map[string]interface{}) error
}

type Page struct {
	Items    []Upload `json:"items"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

type Service struct {
	db        *gorm.DB
	repo      *Repository
	files     *FileStore
	catalogue schema.Catalogue
	lookups   *lookups.Service
	events    EventPublisher
}

// NewService wires the upload flow. events may be nil.
func NewService(db *gorm.DB, catalogue schema.Catalogue, lookupService *lookups.Service, files *FileStore, events EventPublisher) *Service {
	return &Service{
		db:        db,
		repo:      NewRepository(db),
		files:     files,
		catalogue: catalogue,
		lookups:   lookupService,
		events:    events,
	}
}

// Upload stores the file, validates it and, when it is free of errors,
// reconciles every row in a single transaction. Validation problems are
// recorded on the returned upload, not returned as an error. A file that is
// not a spreadsheet yields the upload together with an error wrapping
// ErrUnreadable.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (*Upload, error) {
	rec := &Upload{Filename: filename, Status: StatusAwaitingProcessing}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating upload: %w", err)
	}
	log := logger.WithField("upload_id", rec.ID)

	path, err := s.files.Save(rec.ID, filename, r)
	if err != nil {
		if ferr := s.fail(ctx, rec, "Unable to store file", err); ferr != nil {
			return rec, ferr
		}
		return rec, err
	}
	rec.StoredPath = path

	source, err := spreadsheet.OpenFile(path)
	if err != nil {
		if ferr := s.fail(ctx, rec, "Unable to read spreadsheet", err); ferr != nil {
			return rec, ferr
		}
		return rec, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var (
		messages []string
		lk       *lookups.Service
		byKind   map[specimens.Kind]specimens.Summary
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lk = s.lookups.WithDB(tx)
		store := specimens.NewRepository(tx)

		messages, err = NewValidator(s.catalogue, store, lk).Validate(ctx, source)
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			byKind, err = s.reconcile(ctx, specimens.NewReconciler(store, lk), source.Rows())
			if err != nil {
				return err
			}
			var total specimens.Summary
			for _, summary := range byKind {
				total.Add(summary)
			}
			rec.Created = total.Created
			rec.Updated = total.Updated
		}
		rec.setErrors(messages)
		return NewRepository(tx).Save(ctx, rec)
	})
	if err != nil {
		rec.Created, rec.Updated = 0, 0
		if ferr := s.fail(ctx, rec, "Unable to save specimens", err); ferr != nil {
			return rec, ferr
		}
		return rec, err
	}

	lk.RecordCreated()
	for kind, summary := range byKind {
		metrics.ObserveReconciled(string(kind), "created", summary.Created)
		metrics.ObserveReconciled(string(kind), "updated", summary.Updated)
	}
	if !rec.IsError() {
		s.lookups.Invalidate(ctx)
	}
	s.finish(ctx, rec, len(messages))
	log.WithFields(map[string]interface{}{
		"status":  rec.Status,
		"errors":  len(messages),
		"created": rec.Created,
		"updated": rec.Updated,
	}).Info("upload validated")
	return rec, nil
}

// reconcile upserts complete bacterium rows, then complete phage rows.
func (s *Service) reconcile(ctx context.Context, rec *specimens.Reconciler, rows []spreadsheet.Row) (map[specimens.Kind]specimens.Summary, error) {
	byKind := make(map[specimens.Kind]specimens.Summary, len(specimens.Kinds))
	for _, kind := range specimens.Kinds {
		var set schema.Set
		switch kind {
		case specimens.KindBacterium:
			set = s.catalogue.BacteriumFull
		case specimens.KindPhage:
			set = s.catalogue.PhageFull
		}
		fields := Translate(Filter(rows, RowsWithAllFields(rows, set)), set)
		summary, err := rec.UpsertAll(ctx, kind, fields)
		if err != nil {
			return nil, fmt.Errorf("reconciling %s rows: %w", kind, err)
		}
		byKind[kind] = summary
	}
	return byKind, nil
}

// fail records cause on the upload as its only error message. The returned
// error is from saving the record.
func (s *Service) fail(ctx context.Context, rec *Upload, prefix string, cause error) error {
	rec.setErrors([]string{fmt.Sprintf("%s: %v", prefix, cause)})
	logger.WithField("upload_id", rec.ID).WithError(cause).Warn(prefix)
	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("recording failed upload: %w", err)
	}
	s.finish(ctx, rec, 1)
	return nil
}

func (s *Service) finish(ctx context.Context, rec *Upload, errorCount int) {
	metrics.ObserveUpload(rec.Status, errorCount)
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, EventUploadProcessed, map[string]interface{}{
		"upload_id": rec.ID,
		"filename":  rec.Filename,
		"status":    rec.Status,
		"errors":    errorCount,
		"created":   rec.Created,
		"updated":   rec.Updated,
	})
	if err != nil {
		logger.WithField("upload_id", rec.ID).WithError(err).Warn("failed to publish upload event")
	}
}

func (s *Service) Get(ctx context.Context, id uint) (*Upload, error) {
	return s.repo.Get(ctx, id)
}

// List returns page (1-based) of uploads, newest first.
func (s *Service) List(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	items, total, err := s.repo.List(ctx, (page-1)*size, size)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	if items == nil {
		items = []Upload{}
	}
	return &Page{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Revalidate checks a stored upload again against the current database. It
// writes nothing.
func (s *Service) Revalidate(ctx context.Context, id uint) ([]string, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.StoredPath == "" {
		return nil, fmt.Errorf("upload %d has no stored file: %w", id, ErrUnreadable)
	}
	source, err := spreadsheet.OpenFile(rec.StoredPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return s.Validate(ctx, source)
}

// Validate checks source without storing anything.
func (s *Service) Validate(ctx context.Context, source Source) ([]string, error) {
	return NewValidator(s.catalogue, specimens.NewRepository(s.db), s.lookups).Validate(ctx, source)
}
