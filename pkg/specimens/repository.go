package specimens

import (
	"context"
	"errors"

	"github.com/phage-catalogue/platform/pkg/lookups"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("specimen not found")
	ErrWrongKind = errors.New("specimen is of another kind")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates the specimen table and the lookups it references.
func (r *Repository) AutoMigrate() error {
	if err := lookups.NewRepository(r.db).AutoMigrate(); err != nil {
		return err
	}
	return r.db.AutoMigrate(&Specimen{})
}

// Get loads a specimen with every lookup relation.
func (r *Repository) Get(ctx context.Context, id uint) (*Specimen, error) {
	var s Specimen
	result := r.db.WithContext(ctx).Preload(clause.Associations).First(&s, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &s, nil
}

// Save inserts or updates s without touching the lookup rows it references.
func (r *Repository) Save(ctx context.Context, s *Specimen) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

// List pages through specimens by id. An empty kind lists both kinds.
func (r *Repository) List(ctx context.Context, kind Kind, offset, limit int) ([]Specimen, int64, error) {
	total, err := r.Count(ctx, kind)
	if err != nil {
		return nil, 0, err
	}

	var items []Specimen
	err = r.ofKind(ctx, kind).Preload(clause.Associations).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

// Each calls fn for every specimen in id order, loading them in batches.
func (r *Repository) Each(ctx context.Context, fn func(*Specimen) error) error {
	var batch []Specimen
	return r.db.WithContext(ctx).
		Preload(clause.Associations).
		Order("id").
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for i := range batch {
				if err := fn(&batch[i]); err != nil {
					return err
				}
			}
			return nil
		}).Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Specimen{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context, kind Kind) (int64, error) {
	var n int64
	err := r.ofKind(ctx, kind).Count(&n).Error
	return n, err
}

func (r *Repository) ofKind(ctx context.Context, kind Kind) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&Specimen{})
	if kind != "" {
		query = query.Where("type = ?", kind)
	}
	return query
}
