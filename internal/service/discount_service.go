package service

import (
	"fmt"
	"strings"
	"time"

	"newhill-spices/internal/currency"
	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/clock"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type ValidateDiscountRequest struct {
	Code        string          `json:"code" validate:"required,max=50"`
	SubtotalINR decimal.Decimal `json:"subtotal_inr" validate:"gte=0"`
}

type DiscountResult struct {
	DiscountID  uuid.UUID       `json:"discount_id"`
	Code        string          `json:"code"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	SubtotalINR decimal.Decimal `json:"subtotal_inr"`
	DiscountINR decimal.Decimal `json:"discount_inr"`
	TotalINR    decimal.Decimal `json:"total_inr"`
}

type DiscountRequest struct {
	Code           string           `json:"code" validate:"required,alphanum,max=50"`
	Type           string           `json:"type" validate:"required,oneof=percentage fixed"`
	Value          decimal.Decimal  `json:"value" validate:"gt=0"`
	MinOrderINR    decimal.Decimal  `json:"min_order_inr" validate:"gte=0"`
	MaxDiscountINR *decimal.Decimal `json:"max_discount_inr"`
	UsageLimit     int              `json:"usage_limit" validate:"gte=0"`
	UserLimit      int              `json:"user_limit" validate:"gte=0"`
	ValidFrom      *time.Time       `json:"valid_from"`
	ValidUntil     *time.Time       `json:"valid_until"`
	IsActive       *bool            `json:"is_active"`
}

func (r *DiscountRequest) validate() error {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	if err := validator.FirstError(r); err != nil {
		return err
	}
	if r.Type == model.DiscountPercentage && r.Value.GreaterThan(hundred) {
		return validator.New("value", "value must be at most 100")
	}
	if r.MaxDiscountINR != nil && r.MaxDiscountINR.IsNegative() {
		return validator.New("max_discount_inr", "max_discount_inr must be at least 0")
	}
	if r.ValidFrom != nil && r.ValidUntil != nil && !r.ValidUntil.After(*r.ValidFrom) {
		return validator.New("valid_until", "valid_until must be after valid_from")
	}
	return nil
}

func (r *DiscountRequest) apply(d *model.DiscountCode) {
	d.Code = r.Code
	d.Type = r.Type
	d.Value = r.Value
	d.MinOrderINR = r.MinOrderINR
	d.MaxDiscountINR = r.MaxDiscountINR
	d.UsageLimit = r.UsageLimit
	d.UserLimit = r.UserLimit
	d.ValidFrom = r.ValidFrom
	d.ValidUntil = r.ValidUntil
	if r.IsActive != nil {
		d.IsActive = *r.IsActive
	}
}

type DiscountService interface {
	Validate(userID uuid.UUID, req *ValidateDiscountRequest) (*DiscountResult, error)
	List() ([]model.DiscountCode, error)
	Create(req *DiscountRequest, meta RequestMeta) (*model.DiscountCode, error)
	Update(id uuid.UUID, req *DiscountRequest, meta RequestMeta) (*model.DiscountCode, error)
	Deactivate(id uuid.UUID, meta RequestMeta) error
}

type discountService struct {
	repo  repository.DiscountRepository
	audit AuditService
	clock clock.Clock
}

func NewDiscountService(repo repository.DiscountRepository, audit AuditService, c clock.Clock) DiscountService {
	return &discountService{repo: repo, audit: audit, clock: c}
}

// evaluateDiscount applies the code's rules to a subtotal and returns the rupee discount.
func evaluateDiscount(d *model.DiscountCode, subtotal decimal.Decimal, userUses int64, now time.Time) (decimal.Decimal, error) {
	if d == nil || !d.IsActive {
		return decimal.Zero, ErrInvalidDiscount
	}
	if !d.InWindow(now) {
		return decimal.Zero, ErrDiscountExpired
	}
	if subtotal.LessThan(d.MinOrderINR) {
		return decimal.Zero, invalid(fmt.Sprintf("Minimum order of %s required", currency.Format(d.MinOrderINR, currency.Base)))
	}
	if d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit {
		return decimal.Zero, ErrDiscountExhausted
	}
	if d.UserLimit > 0 && userUses >= int64(d.UserLimit) {
		return decimal.Zero, ErrDiscountUserLimit
	}

	var amount decimal.Decimal
	switch d.Type {
	case model.DiscountPercentage:
		amount = subtotal.Mul(d.Value).Div(hundred)
		if d.MaxDiscountINR != nil && d.MaxDiscountINR.IsPositive() && amount.GreaterThan(*d.MaxDiscountINR) {
			amount = *d.MaxDiscountINR
		}
	case model.DiscountFixed:
		amount = decimal.Min(d.Value, subtotal)
	default:
		return decimal.Zero, ErrInvalidDiscount
	}
	return amount.Round(2), nil
}

func (s *discountService) Validate(userID uuid.UUID, req *ValidateDiscountRequest) (*DiscountResult, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	d, err := s.repo.FindByCode(nil, req.Code, false)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidDiscount
		}
		return nil, err
	}
	uses, err := s.repo.CountUserUsage(d.ID, userID)
	if err != nil {
		return nil, err
	}
	amount, err := evaluateDiscount(d, req.SubtotalINR, uses, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &DiscountResult{
		DiscountID:  d.ID,
		Code:        d.Code,
		Type:        d.Type,
		Value:       d.Value,
		SubtotalINR: req.SubtotalINR,
		DiscountINR: amount,
		TotalINR:    req.SubtotalINR.Sub(amount),
	}, nil
}

func (s *discountService) List() ([]model.DiscountCode, error) {
	return s.repo.FindAll()
}

func (s *discountService) Create(req *DiscountRequest, meta RequestMeta) (*model.DiscountCode, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	d := &model.DiscountCode{IsActive: true}
	req.apply(d)
	if err := s.repo.Create(d); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDiscountCodeExists
		}
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionCreate, "discount", d.ID.String(), nil, d))
	return d, nil
}

func (s *discountService) find(id uuid.UUID) (*model.DiscountCode, error) {
	d, err := s.repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *discountService) Update(id uuid.UUID, req *DiscountRequest, meta RequestMeta) (*model.DiscountCode, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	d, err := s.find(id)
	if err != nil {
		return nil, err
	}
	before := *d
	req.apply(d)
	if err := s.repo.Update(d); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDiscountCodeExists
		}
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "discount", d.ID.String(), before, d))
	return d, nil
}

func (s *discountService) Deactivate(id uuid.UUID, meta RequestMeta) error {
	d, err := s.find(id)
	if err != nil {
		return err
	}
	if !d.IsActive {
		return nil
	}
	d.IsActive = false
	if err := s.repo.Update(d); err != nil {
		return err
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "discount", d.ID.String(), map[string]bool{"is_active": true}, map[string]bool{"is_active": false}))
	return nil
}
