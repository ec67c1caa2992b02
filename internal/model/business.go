package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var BusinessTypes = []string{"retailer", "wholesaler", "restaurant", "distributor"}

type BusinessAccount struct {
	BaseModel
	UserID         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User           *User           `json:"user,omitempty"`
	CompanyName    string          `gorm:"type:varchar(255);not null" json:"company_name"`
	GSTIN          string          `gorm:"type:varchar(15)" json:"gstin"`
	BusinessType   string          `gorm:"type:varchar(20);not null" json:"business_type"`
	IsApproved     bool            `gorm:"default:false;index" json:"is_approved"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy     *uuid.UUID      `gorm:"type:uuid" json:"approved_by,omitempty"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"credit_limit"`
	RejectedReason string          `gorm:"type:text" json:"rejected_reason,omitempty"`
}
