package service

import (
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CustomerListParams struct {
	Search string
	Page   int
	Limit  int
}

type CustomerView struct {
	model.UserResponse
	OrderCount    int64           `json:"order_count"`
	TotalSpentINR decimal.Decimal `json:"total_spent_inr"`
}

type CustomerPage struct {
	Customers  []CustomerView   `json:"customers"`
	Pagination model.Pagination `json:"pagination"`
}

type UpdateCustomerRequest struct {
	IsActive *bool    `json:"is_active"`
	Roles    []string `json:"roles" validate:"omitempty,dive,oneof=admin customer"`
}

type CustomerService interface {
	List(p CustomerListParams) (*CustomerPage, error)
	Get(id uuid.UUID) (*model.UserResponse, error)
	Update(id uuid.UUID, req *UpdateCustomerRequest, meta RequestMeta) (*model.UserResponse, error)
}

type customerService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	audit    AuditService
}

func NewCustomerService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, audit AuditService) CustomerService {
	return &customerService{userRepo: userRepo, roleRepo: roleRepo, audit: audit}
}

func (s *customerService) List(p CustomerListParams) (*CustomerPage, error) {
	page, limit := model.PageParams(p.Page, p.Limit, 20, 100)
	rows, total, err := s.userRepo.ListCustomers(repository.CustomerFilter{
		Search: strings.TrimSpace(p.Search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	views := make([]CustomerView, len(rows))
	for i := range rows {
		views[i] = CustomerView{
			UserResponse:  rows[i].User.ToResponse(),
			OrderCount:    rows[i].OrderCount,
			TotalSpentINR: rows[i].TotalSpent,
		}
	}
	return &CustomerPage{Customers: views, Pagination: model.NewPagination(page, limit, total)}, nil
}

func (s *customerService) Get(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	res := user.ToResponse()
	return &res, nil
}

// Update toggles the account and replaces its roles. Deactivating ends every session.
func (s *customerService) Update(id uuid.UUID, req *UpdateCustomerRequest, meta RequestMeta) (*model.UserResponse, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	self := meta.UserID != nil && *meta.UserID == id
	before := map[string]interface{}{"is_active": user.IsActive, "roles": user.RoleNames()}

	if req.IsActive != nil && *req.IsActive != user.IsActive {
		if self && !*req.IsActive {
			return nil, invalid("You cannot deactivate your own account")
		}
		fields := map[string]interface{}{"is_active": *req.IsActive}
		if !*req.IsActive {
			fields["token_version"] = uuid.NewString()
		}
		if err := s.userRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
		user.IsActive = *req.IsActive
	}

	if req.Roles != nil {
		if len(req.Roles) == 0 {
			return nil, validator.New("roles", "roles must not be empty")
		}
		if self && !lo.Contains(req.Roles, model.RoleAdmin) && user.HasRole(model.RoleAdmin) {
			return nil, invalid("You cannot remove your own admin role")
		}
		roles := make([]model.Role, 0, len(req.Roles))
		for _, name := range req.Roles {
			role, err := s.roleRepo.FindByName(name)
			if err != nil {
				return nil, err
			}
			roles = append(roles, *role)
		}
		if err := s.userRepo.AssignRoles(user, roles); err != nil {
			return nil, err
		}
		user.Roles = roles
	}

	s.audit.Record(meta.audit(model.ActionUpdate, "user", id.String(), before,
		map[string]interface{}{"is_active": user.IsActive, "roles": user.RoleNames()}))
	res := user.ToResponse()
	return &res, nil
}
