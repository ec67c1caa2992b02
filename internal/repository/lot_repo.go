package repository

import (
	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LotRepository interface {
	FindAll() ([]model.Lot, error)
	FindByID(id uuid.UUID) (*model.Lot, error)
	BatchCodeExists(code string, excludeID uuid.UUID) (bool, error)
	Create(lot *model.Lot) error
	Update(lot *model.Lot) error
	Delete(id uuid.UUID) error
	SeedDefaults(lots []model.Lot) error
}

type lotRepo struct {
	db *gorm.DB
}

func NewLotRepo(db *gorm.DB) LotRepository {
	return &lotRepo{db}
}

func (r *lotRepo) FindAll() ([]model.Lot, error) {
	var lots []model.Lot
	err := r.db.Order("harvested_on DESC NULLS LAST, batch_code").Find(&lots).Error
	return lots, err
}

func (r *lotRepo) FindByID(id uuid.UUID) (*model.Lot, error) {
	var lot model.Lot
	if err := r.db.First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *lotRepo) BatchCodeExists(code string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Lot{}).
		Where("batch_code = ? AND id <> ?", code, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *lotRepo) Create(lot *model.Lot) error {
	return r.db.Create(lot).Error
}

func (r *lotRepo) Update(lot *model.Lot) error {
	return r.db.Save(lot).Error
}

// Delete detaches variants from the lot before removing it.
func (r *lotRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ProductVariant{}).Where("lot_id = ?", id).Update("lot_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Lot{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *lotRepo) SeedDefaults(lots []model.Lot) error {
	for i := range lots {
		if err := r.db.Where(model.Lot{BatchCode: lots[i].BatchCode}).FirstOrCreate(&lots[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
