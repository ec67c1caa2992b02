package repository

import (
	"time"

	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Status        string
	PaymentStatus string
	Search        string
	Page          int
	Limit         int
}

// SalesPoint is one day of the dashboard sales chart.
type SalesPoint struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// OrderStats backs the dashboard KPI cards.
type OrderStats struct {
	TotalOrders     int64
	PaidOrders      int64
	Revenue         decimal.Decimal
	ActiveCustomers int64
	PendingPayments int64
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uuid.UUID) (*model.Order, error)
	FindForUser(id, userID uuid.UUID) (*model.Order, error)
	ListByUser(userID uuid.UUID) ([]model.Order, error)
	List(f OrderFilter) ([]model.Order, int64, error)
	Lock(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	OrderNumberExists(number string) (bool, error)

	CreatePayment(tx *gorm.DB, p *model.Payment) error
	LatestPayment(orderID uuid.UUID) (*model.Payment, error)
	UpdatePayment(tx *gorm.DB, p *model.Payment) error

	Stats(since, activeSince time.Time) (*OrderStats, error)
	SalesSeries(since time.Time) ([]SalesPoint, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	})
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return conn(r.db, tx).Create(order).Error
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.withDetails(r.db).Preload("User").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindForUser(id, userID uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.withDetails(r.db).First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) ListByUser(userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) List(f OrderFilter) ([]model.Order, int64, error) {
	q := r.db.Model(&model.Order{})
	if f.Status != "" && f.Status != "all" {
		q = q.Where("orders.status = ?", f.Status)
	}
	if f.PaymentStatus != "" && f.PaymentStatus != "all" {
		q = q.Where("orders.payment_status = ?", f.PaymentStatus)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Joins("LEFT JOIN users ON users.id = orders.user_id").
			Where("orders.order_number ILIKE ? OR users.email ILIKE ? OR users.name ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := q.Preload("User").Preload("Items").
		Order("orders.created_at DESC").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) Lock(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := lockForUpdate(conn(r.db, tx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := conn(r.db, tx).Where("order_id = ?", id).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return conn(r.db, tx).Model(&model.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *orderRepo) OrderNumberExists(number string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Order{}).Where("order_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *orderRepo) CreatePayment(tx *gorm.DB, p *model.Payment) error {
	return conn(r.db, tx).Create(p).Error
}

func (r *orderRepo) LatestPayment(orderID uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *orderRepo) UpdatePayment(tx *gorm.DB, p *model.Payment) error {
	return conn(r.db, tx).Save(p).Error
}

func (r *orderRepo) Stats(since, activeSince time.Time) (*OrderStats, error) {
	var stats OrderStats
	err := r.db.Model(&model.Order{}).
		Select(`COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE payment_status = 'paid') AS paid_orders,
			COALESCE(SUM(total_inr) FILTER (WHERE payment_status = 'paid'), 0) AS revenue`).
		Where("created_at >= ?", since).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Order{}).
		Where("created_at >= ?", activeSince).
		Distinct("user_id").
		Count(&stats.ActiveCustomers).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Payment{}).
		Where("status IN ?", []model.PaymentStatus{model.PaymentCreated, model.PaymentAuthed}).
		Count(&stats.PendingPayments).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *orderRepo) SalesSeries(since time.Time) ([]SalesPoint, error) {
	var points []SalesPoint
	err := r.db.Model(&model.Order{}).
		Select(`TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS orders,
			COALESCE(SUM(total_inr) FILTER (WHERE payment_status = 'paid'), 0) AS revenue`).
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Scan(&points).Error
	return points, err
}
