package lookups

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("lookup not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Lookup{})
}

// Find matches name exactly within kind.
func (r *Repository) Find(ctx context.Context, kind Kind, name string) (*Lookup, error) {
	var l Lookup
	result := r.db.WithContext(ctx).Where("kind = ? AND name = ?", kind, name).First(&l)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &l, nil
}

// GetOrCreate returns the existing lookup or inserts a new one. Concurrent
// callers racing on the same new name may both insert; the unique index turns
// the loser into an error.
func (r *Repository) GetOrCreate(ctx context.Context, kind Kind, name string) (*Lookup, bool, error) {
	existing, err := r.Find(ctx, kind, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	l := &Lookup{Kind: kind, Name: name, CreatedAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, false, err
	}
	return l, true, nil
}

// Names lists every name of kind in alphabetical order.
func (r *Repository) Names(ctx context.Context, kind Kind) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&Lookup{}).
		Where("kind = ?", kind).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}

func (r *Repository) Count(ctx context.Context, kind Kind) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Lookup{}).Where("kind = ?", kind).Count(&n).Error
	return n, err
}
