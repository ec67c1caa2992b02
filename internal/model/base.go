package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and standard Audit Trails
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // Soft Delete support

	CreatedBy string `gorm:"type:varchar(64)" json:"-"`
	UpdatedBy string `gorm:"type:varchar(64)" json:"-"`
}

// BeforeCreate keeps caller-assigned IDs and fills the rest.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// JSONB maps a free-form JSON object onto a jsonb column.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("JSONB: unsupported scan type")
	}
	return json.Unmarshal(raw, j)
}

// GormDataType tells AutoMigrate the column type.
func (JSONB) GormDataType() string {
	return "jsonb"
}

// All lists every persisted model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &User{},
		&Lot{}, &Product{}, &ProductVariant{},
		&Address{}, &Cart{}, &CartItem{}, &WishlistItem{},
		&DiscountCode{}, &Order{}, &OrderItem{}, &Payment{},
		&CurrencyRate{}, &BusinessAccount{}, &AuditLog{},
		&SystemSetting{}, &TranslationKey{},
	}
}
