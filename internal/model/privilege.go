package model

// Privilege represents a permission that can be granted through a role
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Privilege codes checked by route middleware.
const (
	PrivProductView    = "product:view"
	PrivProductCreate  = "product:create"
	PrivProductUpdate  = "product:update"
	PrivProductDelete  = "product:delete"
	PrivOrderView      = "order:view"
	PrivOrderCreate    = "order:create"
	PrivOrderUpdate    = "order:update"
	PrivOrderRefund    = "order:refund"
	PrivUserView       = "user:view"
	PrivUserUpdate     = "user:update"
	PrivB2BManage      = "b2b:manage"
	PrivSettingsUpdate = "settings:update"
	PrivDashboardView  = "dashboard:view"
	PrivAuditView      = "audit:view"
	PrivProfileUpdate  = "profile:update"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Catalog
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	// Orders
	{Code: PrivOrderView, Name: "View Orders"},
	{Code: PrivOrderCreate, Name: "Place Order"},
	{Code: PrivOrderUpdate, Name: "Update Order"},
	{Code: PrivOrderRefund, Name: "Refund Order"},
	// Users
	{Code: PrivUserView, Name: "View Customers"},
	{Code: PrivUserUpdate, Name: "Update Customers"},
	{Code: PrivB2BManage, Name: "Manage B2B Accounts"},
	// Back office
	{Code: PrivSettingsUpdate, Name: "Update Settings"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
	{Code: PrivAuditView, Name: "View Audit Log"},
	// Self service
	{Code: PrivProfileUpdate, Name: "Update Own Profile"},
}

// CustomerPrivileges is the subset granted to the customer role.
var CustomerPrivileges = []string{PrivProductView, PrivOrderCreate, PrivProfileUpdate}
