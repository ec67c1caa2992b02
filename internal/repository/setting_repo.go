package repository

import (
	"newhill-spices/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	FindAll() ([]model.SystemSetting, error)
	FindByKey(key string) (*model.SystemSetting, error)
	Upsert(s *model.SystemSetting) error
	SeedDefaults(settings []model.SystemSetting) error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) FindAll() ([]model.SystemSetting, error) {
	var settings []model.SystemSetting
	err := r.db.Order("key").Find(&settings).Error
	return settings, err
}

func (r *settingRepo) FindByKey(key string) (*model.SystemSetting, error) {
	var s model.SystemSetting
	if err := r.db.First(&s, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepo) Upsert(s *model.SystemSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at", "updated_by"}),
	}).Create(s).Error
}

// SeedDefaults only inserts keys that are missing so operator edits survive restarts.
func (r *settingRepo) SeedDefaults(settings []model.SystemSetting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&settings).Error
}
