package model

// Role groups privileges; users can hold several roles.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Name:        RoleAdmin,
		Description: "Full system access",
	},
	{
		Name:        RoleCustomer,
		Description: "Customer access",
	},
}
