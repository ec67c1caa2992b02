package repository

import (
	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	FindAll() ([]model.DiscountCode, error)
	FindByID(id uuid.UUID) (*model.DiscountCode, error)
	FindByCode(tx *gorm.DB, code string, lock bool) (*model.DiscountCode, error)
	CountUserUsage(codeID, userID uuid.UUID) (int64, error)
	IncrementUsage(tx *gorm.DB, id uuid.UUID) error
	Create(d *model.DiscountCode) error
	Update(d *model.DiscountCode) error
}

type discountRepo struct {
	db *gorm.DB
}

func NewDiscountRepo(db *gorm.DB) DiscountRepository {
	return &discountRepo{db}
}

func (r *discountRepo) FindAll() ([]model.DiscountCode, error) {
	var codes []model.DiscountCode
	err := r.db.Order("created_at DESC").Find(&codes).Error
	return codes, err
}

func (r *discountRepo) FindByID(id uuid.UUID) (*model.DiscountCode, error) {
	var d model.DiscountCode
	if err := r.db.First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByCode matches case-insensitively; lock holds the row until tx ends.
func (r *discountRepo) FindByCode(tx *gorm.DB, code string, lock bool) (*model.DiscountCode, error) {
	q := conn(r.db, tx)
	if lock {
		q = lockForUpdate(q)
	}
	var d model.DiscountCode
	if err := q.Where("UPPER(code) = UPPER(?)", code).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// CountUserUsage counts the user's non-cancelled orders that used the code.
func (r *discountRepo) CountUserUsage(codeID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("discount_code_id = ? AND user_id = ? AND status <> ?", codeID, userID, model.OrderCancelled).
		Count(&count).Error
	return count, err
}

func (r *discountRepo) IncrementUsage(tx *gorm.DB, id uuid.UUID) error {
	return conn(r.db, tx).Model(&model.DiscountCode{}).
		Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}

func (r *discountRepo) Create(d *model.DiscountCode) error {
	return r.db.Create(d).Error
}

func (r *discountRepo) Update(d *model.DiscountCode) error {
	return r.db.Save(d).Error
}
