package repository

import (
	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditFilter struct {
	UserID   *uuid.UUID
	Resource string
	Action   string
	Page     int
	Limit    int
}

type AuditRepository interface {
	Create(entry *model.AuditLog) error
	List(f AuditFilter) ([]model.AuditLog, int64, error)
	Latest(n int) ([]model.AuditLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) Create(entry *model.AuditLog) error {
	return r.db.Omit("User").Create(entry).Error
}

func (r *auditRepo) List(f AuditFilter) ([]model.AuditLog, int64, error) {
	q := r.db.Model(&model.AuditLog{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Resource != "" {
		q = q.Where("resource = ?", f.Resource)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.AuditLog
	err := q.Preload("User").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&logs).Error
	return logs, total, err
}

func (r *auditRepo) Latest(n int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.Preload("User").Order("created_at DESC").Limit(n).Find(&logs).Error
	return logs, err
}
