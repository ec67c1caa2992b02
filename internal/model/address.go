package model

import "github.com/google/uuid"

const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"
)

type Address struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Company    string    `gorm:"type:varchar(255)" json:"company,omitempty"`
	Line1      string    `gorm:"type:varchar(255);not null" json:"line1"`
	Line2      string    `gorm:"type:varchar(255)" json:"line2,omitempty"`
	City       string    `gorm:"type:varchar(100);not null" json:"city"`
	State      string    `gorm:"type:varchar(100);not null" json:"state"`
	PostalCode string    `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country    string    `gorm:"type:varchar(2);not null" json:"country"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Type       string    `gorm:"type:varchar(10);not null;default:'shipping'" json:"type"`
	IsDefault  bool      `gorm:"default:false" json:"is_default"`
}

func (a *Address) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
