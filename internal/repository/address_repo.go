package repository

import (
	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepository interface {
	ListByUser(userID uuid.UUID) ([]model.Address, error)
	FindForUser(id, userID uuid.UUID) (*model.Address, error)
	Create(tx *gorm.DB, addr *model.Address) error
	Update(tx *gorm.DB, addr *model.Address) error
	Delete(id, userID uuid.UUID) error
	ClearDefault(tx *gorm.DB, userID uuid.UUID, kind string, exceptID uuid.UUID) error
}

type addressRepo struct {
	db *gorm.DB
}

func NewAddressRepo(db *gorm.DB) AddressRepository {
	return &addressRepo{db}
}

func (r *addressRepo) ListByUser(userID uuid.UUID) ([]model.Address, error) {
	var addrs []model.Address
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addrs).Error
	return addrs, err
}

func (r *addressRepo) FindForUser(id, userID uuid.UUID) (*model.Address, error) {
	var addr model.Address
	if err := r.db.First(&addr, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *addressRepo) Create(tx *gorm.DB, addr *model.Address) error {
	return conn(r.db, tx).Create(addr).Error
}

func (r *addressRepo) Update(tx *gorm.DB, addr *model.Address) error {
	return conn(r.db, tx).Save(addr).Error
}

func (r *addressRepo) Delete(id, userID uuid.UUID) error {
	res := r.db.Delete(&model.Address{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearDefault unsets the default flag on the user's other addresses of the same kind.
func (r *addressRepo) ClearDefault(tx *gorm.DB, userID uuid.UUID, kind string, exceptID uuid.UUID) error {
	return conn(r.db, tx).Model(&model.Address{}).
		Where("user_id = ? AND type = ? AND id <> ? AND is_default = ?", userID, kind, exceptID, true).
		Update("is_default", false).Error
}
