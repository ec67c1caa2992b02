package service

import (
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/internal/ws"
	"newhill-spices/pkg/clock"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BusinessApplyRequest struct {
	CompanyName  string `json:"company_name" validate:"required,min=2,max=255"`
	GSTIN        string `json:"gstin" validate:"required,len=15,alphanum"`
	BusinessType string `json:"business_type" validate:"required,oneof=retailer wholesaler restaurant distributor"`
}

type ApproveBusinessRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" validate:"gte=0"`
}

type RejectBusinessRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type BusinessService interface {
	Apply(user *model.User, req *BusinessApplyRequest, meta RequestMeta) (*model.BusinessAccount, error)
	Status(userID uuid.UUID) (*model.BusinessAccount, error)
	List(approved *bool) ([]model.BusinessAccount, error)
	Approve(id uuid.UUID, req *ApproveBusinessRequest, meta RequestMeta) (*model.BusinessAccount, error)
	Reject(id uuid.UUID, req *RejectBusinessRequest, meta RequestMeta) (*model.BusinessAccount, error)
}

type businessService struct {
	repo     repository.BusinessRepository
	settings SettingService
	audit    AuditService
	notifier ws.Notifier
	clock    clock.Clock
}

func NewBusinessService(repo repository.BusinessRepository, settings SettingService, audit AuditService, notifier ws.Notifier, c clock.Clock) BusinessService {
	return &businessService{repo: repo, settings: settings, audit: audit, notifier: notifier, clock: c}
}

func (s *businessService) Apply(user *model.User, req *BusinessApplyRequest, meta RequestMeta) (*model.BusinessAccount, error) {
	if !s.settings.Enabled(SettingEnableB2B, true) {
		return nil, invalid("Business accounts are not available right now")
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.GSTIN = strings.ToUpper(strings.TrimSpace(req.GSTIN))
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUser(user.ID); err == nil {
		return nil, ErrBusinessExists
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	acc := &model.BusinessAccount{
		UserID:       user.ID,
		CompanyName:  req.CompanyName,
		GSTIN:        req.GSTIN,
		BusinessType: req.BusinessType,
	}
	if err := s.repo.Create(acc); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrBusinessExists
		}
		return nil, err
	}

	meta.UserID = &user.ID
	meta.UserName = user.Name
	s.audit.Record(meta.audit(model.ActionCreate, "business_account", acc.ID.String(), nil, req))
	return acc, nil
}

func (s *businessService) Status(userID uuid.UUID) (*model.BusinessAccount, error) {
	acc, err := s.repo.FindByUser(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return acc, nil
}

func (s *businessService) List(approved *bool) ([]model.BusinessAccount, error) {
	return s.repo.List(approved)
}

func (s *businessService) find(id uuid.UUID) (*model.BusinessAccount, error) {
	acc, err := s.repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return acc, nil
}

func (s *businessService) Approve(id uuid.UUID, req *ApproveBusinessRequest, meta RequestMeta) (*model.BusinessAccount, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	acc, err := s.find(id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	acc.IsApproved = true
	acc.ApprovedAt = &now
	acc.ApprovedBy = meta.UserID
	acc.CreditLimit = req.CreditLimit
	acc.RejectedReason = ""
	if err := s.repo.Update(acc); err != nil {
		return nil, err
	}

	s.audit.Record(meta.audit(model.ActionUpdate, "business_account", id.String(),
		map[string]bool{"is_approved": false},
		map[string]interface{}{"is_approved": true, "credit_limit": acc.CreditLimit}))
	s.notifier.SendToUsers([]uuid.UUID{acc.UserID}, map[string]interface{}{"type": "b2b_status", "approved": true})
	return acc, nil
}

func (s *businessService) Reject(id uuid.UUID, req *RejectBusinessRequest, meta RequestMeta) (*model.BusinessAccount, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	acc, err := s.find(id)
	if err != nil {
		return nil, err
	}
	wasApproved := acc.IsApproved
	acc.IsApproved = false
	acc.ApprovedAt = nil
	acc.ApprovedBy = nil
	acc.RejectedReason = req.Reason
	if err := s.repo.Update(acc); err != nil {
		return nil, err
	}

	s.audit.Record(meta.audit(model.ActionUpdate, "business_account", id.String(),
		map[string]bool{"is_approved": wasApproved},
		map[string]interface{}{"is_approved": false, "reason": req.Reason}))
	s.notifier.SendToUsers([]uuid.UUID{acc.UserID}, map[string]interface{}{
		"type":     "b2b_status",
		"approved": false,
		"reason":   req.Reason,
	})
	return acc, nil
}
