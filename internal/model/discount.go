package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type DiscountCode struct {
	BaseModel
	Code           string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Type           string           `gorm:"type:varchar(20);not null" json:"type"`
	Value          decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"value"`
	MinOrderINR    decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"min_order_inr"`
	MaxDiscountINR *decimal.Decimal `gorm:"type:decimal(12,2)" json:"max_discount_inr,omitempty"`
	UsageLimit     int              `gorm:"default:0" json:"usage_limit"` // 0 = unlimited
	UsedCount      int              `gorm:"default:0" json:"used_count"`
	UserLimit      int              `gorm:"default:0" json:"user_limit"`
	ValidFrom      *time.Time       `json:"valid_from,omitempty"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	IsActive       bool             `gorm:"default:true" json:"is_active"`
}

// InWindow reports whether now falls inside the validity window.
func (d *DiscountCode) InWindow(now time.Time) bool {
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && now.After(*d.ValidUntil) {
		return false
	}
	return true
}
