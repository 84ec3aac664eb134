package uploads

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("upload not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Upload{})
}

func (r *Repository) Create(ctx context.Context, u *Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) Save(ctx context.Context, u *Upload) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *Repository) Get(ctx context.Context, id uint) (*Upload, error) {
	var u Upload
	result := r.db.WithContext(ctx).First(&u, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &u, nil
}

// List returns uploads newest first.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]Upload, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Upload{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []Upload
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}
