package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionView   = "view"
)

// AuditLog is append-only, so it skips BaseModel's soft delete.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User       *User      `json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(20);not null;index" json:"action"`
	Resource   string     `gorm:"type:varchar(50);not null;index" json:"resource"`
	ResourceID string     `gorm:"type:varchar(64)" json:"resource_id,omitempty"`
	OldData    string     `gorm:"type:text" json:"old_data,omitempty"`
	NewData    string     `gorm:"type:text" json:"new_data,omitempty"`
	IPAddress  string     `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent  string     `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
