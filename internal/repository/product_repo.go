package repository

import (
	"context"
	"errors"

	"luminapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, activeOnly bool) ([]model.Product, error)
	// Save persists the full product including variant stocks — used by the
	// inventory adjuster after recomputing the parent aggregate.
	Save(ctx context.Context, p *model.Product) error
	ListVariantParents(ctx context.Context) ([]model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Variants").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, activeOnly bool) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Preload("Variants").Order("name ASC")
	if activeOnly {
		q = q.Where("active = true")
	}
	var products []model.Product
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) Save(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

func (r *productRepo) ListVariantParents(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Variants").Where("has_variants = true").Find(&products).Error
	return products, err
}
