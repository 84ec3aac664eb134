package specimens

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/phage-catalogue/platform/pkg/common/logger"
	"github.com/phage-catalogue/platform/pkg/lookups"
	"github.com/phage-catalogue/platform/pkg/observability/metrics"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Page is one slice of a specimen listing.
type Page struct {
	Items    []Specimen `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

type Service struct {
	db      *gorm.DB
	repo    *Repository
	lookups *lookups.Service
}

func NewService(db *gorm.DB, lookupService *lookups.Service) *Service {
	return &Service{db: db, repo: NewRepository(db), lookups: lookupService}
}

func (s *Service) Get(ctx context.Context, id uint) (*Specimen, error) {
	return s.repo.Get(ctx, id)
}

// List returns page (1-based) of specimens, optionally of one kind.
func (s *Service) List(ctx context.Context, kind Kind, page, size int) (*Page, error) {
	if kind != "" && !kind.Valid() {
		return nil, ValidationError{reason: fmt.Errorf("unknown specimen type %q", kind)}
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	items, total, err := s.repo.List(ctx, kind, (page-1)*size, size)
	if err != nil {
		return nil, fmt.Errorf("listing specimens: %w", err)
	}
	if items == nil {
		items = []Specimen{}
	}
	return &Page{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Create adds a new specimen of kind from req.
func (s *Service) Create(ctx context.Context, kind Kind, req SaveRequest) (*Specimen, error) {
	return s.save(ctx, kind, 0, req)
}

// Update overwrites specimen id, which must already be of kind.
func (s *Service) Update(ctx context.Context, kind Kind, id uint, req SaveRequest) (*Specimen, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.save(ctx, kind, id, req)
}

func (s *Service) save(ctx context.Context, kind Kind, id uint, req SaveRequest) (*Specimen, error) {
	if !kind.Valid() {
		return nil, ValidationError{reason: fmt.Errorf("unknown specimen type %q", kind)}
	}
	row := req.fields(kind)
	if err := validateFields(kind, row); err != nil {
		return nil, err
	}
	if id != 0 {
		row[FieldKey] = strconv.FormatUint(uint64(id), 10)
	}

	var (
		saved *Specimen
		lk    *lookups.Service
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lk = s.lookups.WithDB(tx)
		if err := requireSpecies(ctx, lk, kind, row); err != nil {
			return err
		}
		specimen, err := NewReconciler(NewRepository(tx), lk).Upsert(ctx, kind, row)
		if err != nil {
			return err
		}
		saved = specimen
		return nil
	})
	if err != nil {
		return nil, err
	}

	lk.RecordCreated()
	s.lookups.Invalidate(ctx)
	op := "updated"
	if id == 0 {
		op = "created"
	}
	metrics.ObserveReconciled(string(kind), op, 1)
	logger.Log.WithFields(map[string]interface{}{
		"specimen_id": saved.ID,
		"type":        kind,
		"operation":   op,
	}).Info("specimen saved")

	return s.repo.Get(ctx, saved.ID)
}

// requireSpecies rejects species or host names that are not registered yet.
// Other lookups are created on demand.
func requireSpecies(ctx context.Context, lk *lookups.Service, kind Kind, row Fields) error {
	field := FieldSpecies
	if kind == KindPhage {
		field = FieldHost
	}
	_, err := lk.Find(ctx, lookups.KindSpecies, row[field])
	if errors.Is(err, lookups.ErrNotFound) {
		return ValidationError{reason: fmt.Errorf("%s: species %q does not exist", field, row[field])}
	}
	return err
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.WithField("specimen_id", id).Info("specimen deleted")
	return nil
}
