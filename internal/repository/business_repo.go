package repository

import (
	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	FindByUser(userID uuid.UUID) (*model.BusinessAccount, error)
	FindByID(id uuid.UUID) (*model.BusinessAccount, error)
	List(approved *bool) ([]model.BusinessAccount, error)
	Create(acc *model.BusinessAccount) error
	Update(acc *model.BusinessAccount) error
}

type businessRepo struct {
	db *gorm.DB
}

func NewBusinessRepo(db *gorm.DB) BusinessRepository {
	return &businessRepo{db}
}

func (r *businessRepo) FindByUser(userID uuid.UUID) (*model.BusinessAccount, error) {
	var acc model.BusinessAccount
	if err := r.db.First(&acc, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *businessRepo) FindByID(id uuid.UUID) (*model.BusinessAccount, error) {
	var acc model.BusinessAccount
	if err := r.db.Preload("User").First(&acc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *businessRepo) List(approved *bool) ([]model.BusinessAccount, error) {
	q := r.db.Preload("User")
	if approved != nil {
		q = q.Where("is_approved = ?", *approved)
	}
	var accounts []model.BusinessAccount
	err := q.Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

func (r *businessRepo) Create(acc *model.BusinessAccount) error {
	return r.db.Create(acc).Error
}

func (r *businessRepo) Update(acc *model.BusinessAccount) error {
	return r.db.Omit("User").Save(acc).Error
}
