package repository

import (
	"newhill-spices/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranslationRepository interface {
	FindAll() ([]model.TranslationKey, error)
	Upsert(t *model.TranslationKey) error
	Delete(key string) error
	SeedDefaults(keys []model.TranslationKey) error
}

type translationRepo struct {
	db *gorm.DB
}

func NewTranslationRepo(db *gorm.DB) TranslationRepository {
	return &translationRepo{db}
}

func (r *translationRepo) FindAll() ([]model.TranslationKey, error) {
	var keys []model.TranslationKey
	err := r.db.Order("key").Find(&keys).Error
	return keys, err
}

func (r *translationRepo) Upsert(t *model.TranslationKey) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"en", "hi", "ta", "kn", "ar", "updated_at"}),
	}).Create(t).Error
}

// Delete removes the key permanently so it can be recreated.
func (r *translationRepo) Delete(key string) error {
	res := r.db.Unscoped().Delete(&model.TranslationKey{}, "key = ?", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *translationRepo) SeedDefaults(keys []model.TranslationKey) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&keys).Error
}
