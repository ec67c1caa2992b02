package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a storefront customer or back-office operator.
type User struct {
	BaseModel
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"type:varchar(255)" json:"-"` // empty for OAuth-only accounts
	Name          string     `gorm:"type:varchar(255)" json:"name"`
	Phone         string     `gorm:"type:varchar(20)" json:"phone"`
	Image         string     `gorm:"type:text" json:"image"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	Roles         []Role     `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	TokenVersion  string     `gorm:"type:varchar(64);default:''" json:"-"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`

	PreferredLanguage string `gorm:"type:varchar(5);default:'en'" json:"preferred_language"`
	PreferredCurrency string `gorm:"type:varchar(3);default:'INR'" json:"preferred_currency"`
	NotifyEmail       bool   `gorm:"default:true" json:"notify_email"`
	NotifySMS         bool   `gorm:"default:false" json:"notify_sms"`
	NotifyPush        bool   `gorm:"default:true" json:"notify_push"`

	BusinessAccount *BusinessAccount `gorm:"foreignKey:UserID" json:"business_account,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

// PrivilegeCodes returns the distinct privilege codes granted through all roles.
func (u *User) PrivilegeCodes() []string {
	seen := map[string]bool{}
	codes := []string{}
	for _, r := range u.Roles {
		for _, p := range r.Privileges {
			if !seen[p.Code] {
				seen[p.Code] = true
				codes = append(codes, p.Code)
			}
		}
	}
	return codes
}

func (u *User) IsBusinessAccount() bool {
	return u.BusinessAccount != nil
}

func (u *User) BusinessApproved() bool {
	return u.BusinessAccount != nil && u.BusinessAccount.IsApproved
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone"`
	Image             string     `json:"image"`
	IsActive          bool       `json:"is_active"`
	Roles             []string   `json:"roles"`
	IsBusinessAccount bool       `json:"is_business_account"`
	BusinessApproved  bool       `json:"business_approved"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Phone:             u.Phone,
		Image:             u.Image,
		IsActive:          u.IsActive,
		Roles:             u.RoleNames(),
		IsBusinessAccount: u.IsBusinessAccount(),
		BusinessApproved:  u.BusinessApproved(),
		LastLoginAt:       u.LastLoginAt,
		CreatedAt:         u.CreatedAt,
	}
}

// Preferences is the account settings block shown on the account page.
type Preferences struct {
	Language      string               `json:"language"`
	Currency      string               `json:"currency"`
	Notifications NotificationSettings `json:"notifications"`
}

type NotificationSettings struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

func (u *User) Preferences() Preferences {
	return Preferences{
		Language: u.PreferredLanguage,
		Currency: u.PreferredCurrency,
		Notifications: NotificationSettings{
			Email: u.NotifyEmail,
			SMS:   u.NotifySMS,
			Push:  u.NotifyPush,
		},
	}
}
