package repository

import (
	"time"

	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerFilter struct {
	Search string
	Page   int
	Limit  int
}

// CustomerRow is a user joined with their order totals.
type CustomerRow struct {
	model.User
	OrderCount int64           `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent_inr"`
}

type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(userID uuid.UUID, version string) error
	UpdateLastLogin(userID uuid.UUID, at time.Time) error
	AssignRoles(user *model.User, roles []model.Role) error
	ListCustomers(f CustomerFilter) ([]CustomerRow, int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) withAccess() *gorm.DB {
	return r.db.Preload("Roles.Privileges").Preload("BusinessAccount")
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.withAccess().Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.withAccess().First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Omit("Roles", "BusinessAccount").Save(user).Error
}

func (r *userRepo) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}

func (r *userRepo) UpdateLastLogin(userID uuid.UUID, at time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("last_login_at", at).Error
}

func (r *userRepo) AssignRoles(user *model.User, roles []model.Role) error {
	return r.db.Model(user).Association("Roles").Replace(roles)
}

func (r *userRepo) ListCustomers(f CustomerFilter) ([]CustomerRow, int64, error) {
	q := r.db.Model(&model.User{})
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := q.Preload("Roles").Preload("BusinessAccount").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	if len(users) == 0 {
		return []CustomerRow{}, total, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	var stats []struct {
		UserID     uuid.UUID
		OrderCount int64
		TotalSpent decimal.Decimal
	}
	err = r.db.Model(&model.Order{}).
		Select(`user_id, COUNT(*) AS order_count,
			COALESCE(SUM(CASE WHEN payment_status = 'paid' THEN total_inr ELSE 0 END), 0) AS total_spent`).
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&stats).Error
	if err != nil {
		return nil, 0, err
	}

	byUser := make(map[uuid.UUID]int, len(stats))
	for i, st := range stats {
		byUser[st.UserID] = i
	}
	rows := make([]CustomerRow, len(users))
	for i, u := range users {
		rows[i] = CustomerRow{User: u, TotalSpent: decimal.Zero}
		if j, ok := byUser[u.ID]; ok {
			rows[i].OrderCount = stats[j].OrderCount
			rows[i].TotalSpent = stats[j].TotalSpent
		}
	}
	return rows, total, nil
}
