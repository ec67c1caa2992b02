package handler

import (
	"context"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/internal/service"
	"newhill-spices/internal/shipping"
	"newhill-spices/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// tokenAuth maps bearer tokens to users.
type tokenAuth map[string]*model.User

func (a tokenAuth) Authenticate(token string) (*model.User, *jwt.Claims, error) {
	user, ok := a[token]
	if !ok {
		return nil, nil, service.ErrSessionExpired
	}
	return user, &jwt.Claims{UserID: user.ID, Email: user.Email, Roles: user.RoleNames()}, nil
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Signup(req *service.SignupRequest, meta service.RequestMeta) (*model.User, error) {
	args := m.Called(req, meta)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAuthService) Login(req *service.LoginRequest, meta service.RequestMeta) (*service.Session, error) {
	args := m.Called(req, meta)
	s, _ := args.Get(0).(*service.Session)
	return s, args.Error(1)
}

func (m *mockAuthService) Logout(userID uuid.UUID, meta service.RequestMeta) error {
	return m.Called(userID, meta).Error(0)
}

func (m *mockAuthService) Authenticate(token string) (*model.User, *jwt.Claims, error) {
	args := m.Called(token)
	user, _ := args.Get(0).(*model.User)
	claims, _ := args.Get(1).(*jwt.Claims)
	return user, claims, args.Error(2)
}

func (m *mockAuthService) Session(token string) (*service.Session, error) {
	args := m.Called(token)
	s, _ := args.Get(0).(*service.Session)
	return s, args.Error(1)
}

func (m *mockAuthService) IssueSession(user *model.User) (*service.Session, error) {
	args := m.Called(user)
	s, _ := args.Get(0).(*service.Session)
	return s, args.Error(1)
}

func (m *mockAuthService) ResetPassword(email, newPassword string) error {
	return m.Called(email, newPassword).Error(0)
}

type mockDashboard struct{ mock.Mock }

func (m *mockDashboard) KPI() (*service.KPI, error) {
	args := m.Called()
	kpi, _ := args.Get(0).(*service.KPI)
	return kpi, args.Error(1)
}

func (m *mockDashboard) SalesSeries(days int) ([]repository.SalesPoint, error) {
	args := m.Called(days)
	points, _ := args.Get(0).([]repository.SalesPoint)
	return points, args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) List(f service.CatalogFilter, viewer *model.User) (*service.CatalogPage, error) {
	args := m.Called(f, viewer)
	page, _ := args.Get(0).(*service.CatalogPage)
	return page, args.Error(1)
}

func (m *mockCatalog) GetBySlug(slug, currencyCode string, viewer *model.User) (*service.ProductView, error) {
	args := m.Called(slug, currencyCode, viewer)
	p, _ := args.Get(0).(*service.ProductView)
	return p, args.Error(1)
}

func (m *mockCatalog) Categories() ([]string, error) {
	args := m.Called()
	cats, _ := args.Get(0).([]string)
	return cats, args.Error(1)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) ListForUser(userID uuid.UUID) ([]model.Order, error) {
	args := m.Called(userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *mockOrders) GetForUser(userID, id uuid.UUID) (*model.Order, error) {
	args := m.Called(userID, id)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrders) Tracking(ctx context.Context, userID, id uuid.UUID) (*shipping.Tracking, error) {
	args := m.Called(ctx, userID, id)
	t, _ := args.Get(0).(*shipping.Tracking)
	return t, args.Error(1)
}

func (m *mockOrders) List(p service.OrderListParams) (*service.OrderPage, error) {
	args := m.Called(p)
	page, _ := args.Get(0).(*service.OrderPage)
	return page, args.Error(1)
}

func (m *mockOrders) Get(id uuid.UUID) (*model.Order, error) {
	args := m.Called(id)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrders) UpdateStatus(id uuid.UUID, req *service.UpdateOrderStatusRequest, meta service.RequestMeta) (*model.Order, error) {
	args := m.Called(id, req, meta)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrders) Dispatch(ctx context.Context, id uuid.UUID, meta service.RequestMeta) (*model.Order, error) {
	args := m.Called(ctx, id, meta)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrders) Refund(ctx context.Context, id uuid.UUID, req *service.RefundRequest, meta service.RequestMeta) (*model.Order, error) {
	args := m.Called(ctx, id, req, meta)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}
