package model

import "github.com/shopspring/decimal"

// CurrencyRate stores how many INR one unit of the currency is worth.
type CurrencyRate struct {
	BaseModel
	CurrencyCode string          `gorm:"type:varchar(3);uniqueIndex;not null" json:"currency_code"`
	RateToINR    decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"rate_to_inr"`
}
