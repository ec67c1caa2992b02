package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newhill-spices/internal/model"
	"newhill-spices/internal/service"
	"newhill-spices/internal/shipping"
	"newhill-spices/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCookie = "newhill_session"

type testEnv struct {
	app       *fiber.App
	auth      *mockAuthService
	dashboard *mockDashboard
	catalog   *mockCatalog
	orders    *mockOrders
	admin     *model.User
	customer  *model.User
}

func privileges(codes ...string) []model.Privilege {
	out := make([]model.Privilege, len(codes))
	for i, code := range codes {
		out[i] = model.Privilege{ID: uint(i + 1), Code: code}
	}
	return out
}

func newTestEnv() *testEnv {
	env := &testEnv{
		auth:      &mockAuthService{},
		dashboard: &mockDashboard{},
		catalog:   &mockCatalog{},
		orders:    &mockOrders{},
		admin: &model.User{
			BaseModel: model.BaseModel{ID: uuid.New()}, Email: "admin@newhillspices.com", Name: "Admin", IsActive: true,
			Roles: []model.Role{{ID: 1, Name: model.RoleAdmin, Privileges: privileges(
				model.PrivDashboardView, model.PrivOrderView, model.PrivOrderUpdate, model.PrivOrderRefund)}},
		},
		customer: &model.User{
			BaseModel: model.BaseModel{ID: uuid.New()}, Email: "asha@example.com", Name: "Asha", IsActive: true,
			Roles: []model.Role{{ID: 2, Name: model.RoleCustomer, Privileges: privileges(model.CustomerPrivileges...)}},
		},
	}
	authn := tokenAuth{"tok-admin": env.admin, "tok-customer": env.customer}

	env.app = fiber.New()
	Register(env.app, Handlers{
		Auth:       NewAuthHandler(env.auth, nil, testCookie, false),
		User:       NewUserHandler(nil, nil),
		Address:    NewAddressHandler(nil),
		Store:      NewStoreHandler(env.catalog, nil, nil, nil, nil),
		Cart:       NewCartHandler(nil),
		Order:      NewOrderHandler(nil, env.orders, nil),
		Product:    NewProductHandler(nil, nil),
		Dashboard:  NewDashboardHandler(env.dashboard, nil),
		Business:   NewBusinessHandler(nil),
		Config:     NewConfigHandler(nil, nil, nil, nil),
		Role:       NewRoleHandler(nil, nil),
		Authn:      authn,
		CookieName: testCookie,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, url, token, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	env := newTestEnv()
	resp, body := env.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAdminGuards(t *testing.T) {
	env := newTestEnv()
	env.dashboard.On("KPI").Return(&service.KPI{TotalSales: 3, Revenue: decimal.NewFromInt(1500), ProfitMargin: 25}, nil)

	resp, body := env.do(t, http.MethodGet, "/api/admin/kpi", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Missing authorization token", body["error"])

	resp, body = env.do(t, http.MethodGet, "/api/admin/kpi", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Session expired", body["error"])

	resp, _ = env.do(t, http.MethodGet, "/api/admin/kpi", "tok-customer", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/admin/audit-logs", "tok-admin", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden: requires 'audit:view' privilege", body["error"])

	resp, body = env.do(t, http.MethodGet, "/api/admin/kpi", "tok-admin", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["totalSales"])
	assert.Equal(t, float64(25), body["profitMargin"])
	env.dashboard.AssertExpectations(t)
}

func TestSalesDaysDefault(t *testing.T) {
	env := newTestEnv()
	env.dashboard.On("SalesSeries", 30).Return(nil, nil)

	resp, body := env.do(t, http.MethodGet, "/api/admin/sales?days=-3", "tok-admin", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(30), body["period"])
	env.dashboard.AssertExpectations(t)
}

func TestErrorMapping(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.orders.On("Refund", mock.Anything, id, mock.Anything, mock.Anything).Return(nil, service.ErrGatewayDown)
	env.orders.On("UpdateStatus", id, mock.Anything, mock.Anything).Return(nil, validator.New("status", "status is required"))
	env.orders.On("Get", id).Return(nil, service.ErrOrderNotFound)
	env.orders.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	cases := []struct {
		name    string
		method  string
		url     string
		body    string
		status  int
		message string
	}{
		{"unavailable", http.MethodPost, "/api/admin/orders/" + id.String() + "/refund", "", http.StatusServiceUnavailable, service.ErrGatewayDown.Message},
		{"validation", http.MethodPatch, "/api/admin/orders/" + id.String() + "/status", `{}`, http.StatusBadRequest, "status is required"},
		{"not found", http.MethodGet, "/api/admin/orders/" + id.String(), "", http.StatusNotFound, "Order not found"},
		{"internal", http.MethodGet, "/api/admin/orders", "", http.StatusInternalServerError, "Internal server error"},
		{"bad id", http.MethodGet, "/api/admin/orders/not-a-uuid", "", http.StatusBadRequest, "Invalid order ID"},
		{"bad json", http.MethodPatch, "/api/admin/orders/" + id.String() + "/status", `{"status":`, http.StatusBadRequest, "Invalid JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, tc.method, tc.url, "tok-admin", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, body["error"])
		})
	}
}

func TestRefundPassesAmount(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.orders.On("Refund", mock.Anything, id, mock.MatchedBy(func(req *service.RefundRequest) bool {
		return req.Amount != nil && req.Amount.Equal(decimal.NewFromInt(250)) && req.Reason == "damaged"
	}), mock.MatchedBy(func(meta service.RequestMeta) bool {
		return meta.UserID != nil && *meta.UserID == env.admin.ID
	})).Return(&model.Order{OrderNumber: "NH-1", PaymentStatus: model.PaymentRefunded}, nil)

	resp, body := env.do(t, http.MethodPost, "/api/admin/orders/"+id.String()+"/refund", "tok-admin", `{"amount":"250","reason":"damaged"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "refunded", body["payment_status"])
	env.orders.AssertExpectations(t)
}

func TestCustomerOrders(t *testing.T) {
	env := newTestEnv()
	orderID := uuid.New()
	env.orders.On("Tracking", mock.Anything, env.customer.ID, orderID).
		Return(&shipping.Tracking{TrackingNumber: "GCC123", Status: "in_transit"}, nil)
	env.orders.On("ListForUser", env.customer.ID).Return([]model.Order{{OrderNumber: "NH-7"}}, nil)

	resp, body := env.do(t, http.MethodGet, "/api/orders/"+orderID.String()+"/tracking", "tok-customer", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_transit", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "tok-customer"})
	res, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var orders []model.Order
	require.NoError(t, json.NewDecoder(res.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "NH-7", orders[0].OrderNumber)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv()
	expires := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	env.auth.On("Login", &service.LoginRequest{Email: "asha@example.com", Password: "secret123"}, mock.Anything).
		Return(&service.Session{Token: "signed-token", ExpiresAt: expires, Roles: []string{"customer"}}, nil)
	env.auth.On("Login", &service.LoginRequest{Email: "asha@example.com", Password: "wrong"}, mock.Anything).
		Return(nil, service.ErrInvalidCredentials)

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"asha@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "signed-token", body["token"])
	cookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, cookie, testCookie+"=signed-token")
	assert.Contains(t, strings.ToLower(cookie), "httponly")

	resp, body = env.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"asha@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestSessionEndpoint(t *testing.T) {
	env := newTestEnv()
	env.auth.On("Session", "tok-customer").Return(&service.Session{Roles: []string{"customer"}}, nil)
	env.auth.On("Session", "stale").Return(nil, service.ErrSessionExpired)

	resp, body := env.do(t, http.MethodGet, "/api/auth/session", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)

	resp, body = env.do(t, http.MethodGet, "/api/auth/session", "stale", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)

	resp, body = env.do(t, http.MethodGet, "/api/auth/session", "tok-customer", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{"customer"}, body["roles"])
}

func TestLogout(t *testing.T) {
	env := newTestEnv()
	env.auth.On("Logout", env.customer.ID, mock.Anything).Return(nil)

	resp, _ := env.do(t, http.MethodPost, "/api/auth/logout", "tok-customer", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), testCookie+"=")

	resp, _ = env.do(t, http.MethodPost, "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	env.auth.AssertNumberOfCalls(t, "Logout", 1)
}

func TestStoreProductsViewer(t *testing.T) {
	env := newTestEnv()
	filter := service.CatalogFilter{Category: "whole", Featured: true, Page: 2, Limit: 12, Currency: "QAR"}
	page := &service.CatalogPage{Currency: "QAR", Products: []service.ProductView{{Name: "Malabar Black Pepper"}}}
	env.catalog.On("List", filter, (*model.User)(nil)).Return(page, nil).Once()
	env.catalog.On("List", filter, env.customer).Return(page, nil).Once()
	env.catalog.On("GetBySlug", "saffron", "", (*model.User)(nil)).Return(nil, service.ErrProductNotFound)

	url := "/api/products?category=whole&featured=true&page=2&currency=QAR"
	resp, body := env.do(t, http.MethodGet, url, "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "QAR", body["currency"])

	resp, _ = env.do(t, http.MethodGet, url, "tok-customer", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/products/saffron", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found", body["error"])
	env.catalog.AssertExpectations(t)
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app := fiber.New()
	Register(app, Handlers{
		Auth: &AuthHandler{}, User: &UserHandler{}, Address: &AddressHandler{}, Store: &StoreHandler{},
		Cart: &CartHandler{}, Order: &OrderHandler{}, Product: &ProductHandler{}, Dashboard: &DashboardHandler{},
		Business: &BusinessHandler{}, Config: &ConfigHandler{}, Role: &RoleHandler{},
		WS:    NewWSHandler(nil, tokenAuth{}),
		Authn: tokenAuth{}, CookieName: testCookie,
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token=x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
