package repository

import (
	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Category   string
	Search     string
	Featured   bool
	ActiveOnly bool
	Page       int
	Limit      int
}

type ProductRepository interface {
	List(f ProductFilter) ([]model.Product, int64, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySlug(slug string, activeOnly bool) (*model.Product, error)
	SlugExists(slug string, excludeID uuid.UUID) (bool, error)
	Categories() ([]string, error)
	Create(product *model.Product) error
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error

	FindVariantByID(id uuid.UUID) (*model.ProductVariant, error)
	SKUExists(sku string, excludeID uuid.UUID) (bool, error)
	CreateVariant(v *model.ProductVariant) error
	UpdateVariant(v *model.ProductVariant) error
	LockVariants(tx *gorm.DB, ids []uuid.UUID) ([]model.ProductVariant, error)
	AdjustStock(tx *gorm.DB, variantID uuid.UUID, delta int) error
	CountLowStock() (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) List(f ProductFilter) ([]model.Product, int64, error) {
	q := r.db.Model(&model.Product{})
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Featured {
		q = q.Where("is_featured = ?", true)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("name ILIKE ? OR slug ILIKE ? OR description ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := q.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		if f.ActiveOnly {
			db = db.Where("is_active = ?", true)
		}
		return db.Order("weight_grams ASC")
	}).
		Order("updated_at DESC").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("weight_grams ASC")
	}).Preload("Variants.Lot").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySlug(slug string, activeOnly bool) (*model.Product, error) {
	q := r.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		if activeOnly {
			db = db.Where("is_active = ?", true)
		}
		return db.Order("weight_grams ASC")
	}).Preload("Variants.Lot").Where("slug = ?", slug)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var product model.Product
	if err := q.First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SlugExists also sees soft-deleted rows, which still hold the unique index.
func (r *productRepo) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Product{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *productRepo) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.Model(&model.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) FindVariantByID(id uuid.UUID) (*model.ProductVariant, error) {
	var v model.ProductVariant
	if err := r.db.Preload("Product").First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *productRepo) SKUExists(sku string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.ProductVariant{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *productRepo) CreateVariant(v *model.ProductVariant) error {
	return r.db.Create(v).Error
}

func (r *productRepo) UpdateVariant(v *model.ProductVariant) error {
	return r.db.Omit("Product", "Lot").Save(v).Error
}

// LockVariants loads the variants with row locks held until tx ends.
func (r *productRepo) LockVariants(tx *gorm.DB, ids []uuid.UUID) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := lockForUpdate(conn(r.db, tx)).
		Where("id IN ?", ids).
		Order("id").
		Find(&variants).Error
	return variants, err
}

func (r *productRepo) AdjustStock(tx *gorm.DB, variantID uuid.UUID, delta int) error {
	return conn(r.db, tx).Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock_qty", gorm.Expr("stock_qty + ?", delta)).Error
}

func (r *productRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductVariant{}).
		Where("is_active = ? AND stock_qty <= low_stock_qty", true).
		Count(&count).Error
	return count, err
}
