package repository

import (
	"newhill-spices/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CurrencyRepository interface {
	FindAll() ([]model.CurrencyRate, error)
	FindByCode(code string) (*model.CurrencyRate, error)
	Upsert(code string, rateToINR decimal.Decimal) (*model.CurrencyRate, error)
}

type currencyRepo struct {
	db *gorm.DB
}

func NewCurrencyRepo(db *gorm.DB) CurrencyRepository {
	return &currencyRepo{db}
}

func (r *currencyRepo) FindAll() ([]model.CurrencyRate, error) {
	var rates []model.CurrencyRate
	err := r.db.Order("currency_code").Find(&rates).Error
	return rates, err
}

func (r *currencyRepo) FindByCode(code string) (*model.CurrencyRate, error) {
	var rate model.CurrencyRate
	if err := r.db.First(&rate, "currency_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *currencyRepo) Upsert(code string, rateToINR decimal.Decimal) (*model.CurrencyRate, error) {
	rate := model.CurrencyRate{CurrencyCode: code, RateToINR: rateToINR}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "currency_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate_to_inr", "updated_at"}),
	}).Create(&rate).Error
	if err != nil {
		return nil, err
	}
	return r.FindByCode(code)
}
