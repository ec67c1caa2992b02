package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type fakeTx struct{ calls int }

func (f *fakeTx) Transaction(fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

type sent struct {
	users   []uuid.UUID
	payload interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	admins []interface{}
	users  []sent
}

func (n *fakeNotifier) BroadcastAdmins(payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.admins = append(n.admins, payload)
}

func (n *fakeNotifier) SendToUsers(ids []uuid.UUID, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, sent{users: ids, payload: payload})
}

type fakeAudit struct {
	entries []AuditEntry
}

func (a *fakeAudit) Record(e AuditEntry)                      { a.entries = append(a.entries, e) }
func (a *fakeAudit) List(AuditListParams) (*AuditPage, error) { return &AuditPage{}, nil }
func (a *fakeAudit) ActivityFeed() ([]ActivityItem, error)    { return nil, nil }

func (a *fakeAudit) has(resource, action string) bool {
	for _, e := range a.entries {
		if e.Resource == resource && e.Action == action {
			return true
		}
	}
	return false
}

// users and roles

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (r *fakeUserRepo) put(u *model.User) *model.User {
	ensureID(&u.ID)
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if _, err := r.FindByEmail(user.Email); err == nil {
		return gorm.ErrDuplicatedKey
	}
	ensureID(&user.ID)
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "image":
			u.Image = v.(string)
		case "is_active":
			u.IsActive = v.(bool)
		case "token_version":
			u.TokenVersion = v.(string)
		case "preferred_language":
			u.PreferredLanguage = v.(string)
		case "preferred_currency":
			u.PreferredCurrency = v.(string)
		case "notify_email":
			u.NotifyEmail = v.(bool)
		case "notify_sms":
			u.NotifySMS = v.(bool)
		case "notify_push":
			u.NotifyPush = v.(bool)
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(id uuid.UUID, hashed string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hashed
	return nil
}

func (r *fakeUserRepo) UpdateTokenVersion(id uuid.UUID, version string) error {
	return r.UpdateFields(id, map[string]interface{}{"token_version": version})
}

func (r *fakeUserRepo) UpdateLastLogin(id uuid.UUID, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *fakeUserRepo) AssignRoles(user *model.User, roles []model.Role) error {
	u, ok := r.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Roles = roles
	return nil
}

func (r *fakeUserRepo) ListCustomers(f repository.CustomerFilter) ([]repository.CustomerRow, int64, error) {
	var rows []repository.CustomerRow
	for _, u := range r.users {
		if f.Search == "" || strings.Contains(strings.ToLower(u.Name+u.Email), strings.ToLower(f.Search)) {
			rows = append(rows, repository.CustomerRow{User: *u, TotalSpent: decimal.Zero})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Email < rows[j].Email })
	return rows, int64(len(rows)), nil
}

type fakeRoleRepo struct {
	roles map[string]*model.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[string]*model.Role{
		model.RoleAdmin: {ID: 1, Name: model.RoleAdmin, Privileges: []model.Privilege{
			{ID: 1, Code: model.PrivDashboardView}, {ID: 2, Code: model.PrivOrderUpdate},
		}},
		model.RoleCustomer: {ID: 2, Name: model.RoleCustomer, Privileges: []model.Privilege{
			{ID: 3, Code: model.PrivOrderCreate},
		}},
	}}
}

func (r *fakeRoleRepo) FindAll() ([]model.Role, error) {
	return []model.Role{*r.roles[model.RoleAdmin], *r.roles[model.RoleCustomer]}, nil
}

func (r *fakeRoleRepo) FindByName(name string) (*model.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *role
	return &c, nil
}

func (r *fakeRoleRepo) ReplacePrivileges(role *model.Role, privileges []model.Privilege) error {
	r.roles[role.Name].Privileges = privileges
	return nil
}

func (r *fakeRoleRepo) SeedDefaults() error { return nil }

// catalog

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
	variants map[uuid.UUID]*model.ProductVariant
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*model.Product{}, variants: map[uuid.UUID]*model.ProductVariant{}}
}

// add stores a product and its variants, linking each variant back to the product.
func (r *fakeProductRepo) add(p *model.Product) *model.Product {
	ensureID(&p.ID)
	r.products[p.ID] = p
	for i := range p.Variants {
		v := &p.Variants[i]
		ensureID(&v.ID)
		v.ProductID = p.ID
		v.Product = p
		r.variants[v.ID] = v
	}
	return p
}

func (r *fakeProductRepo) List(f repository.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Category != "" && f.Category != "all" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySlug(slug string, activeOnly bool) (*model.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug && (!activeOnly || p.IsActive) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	for _, p := range r.products {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) Categories() ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeProductRepo) Create(p *model.Product) error {
	r.add(p)
	return nil
}

func (r *fakeProductRepo) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "slug":
			p.Slug = v.(string)
		case "is_active":
			p.IsActive = v.(bool)
		case "is_featured":
			p.IsFeatured = v.(bool)
		}
	}
	return nil
}

func (r *fakeProductRepo) Delete(id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) FindVariantByID(id uuid.UUID) (*model.ProductVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeProductRepo) SKUExists(sku string, excludeID uuid.UUID) (bool, error) {
	for _, v := range r.variants {
		if v.SKU == sku && v.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) CreateVariant(v *model.ProductVariant) error {
	ensureID(&v.ID)
	v.Product = r.products[v.ProductID]
	r.variants[v.ID] = v
	return nil
}

func (r *fakeProductRepo) UpdateVariant(v *model.ProductVariant) error {
	r.variants[v.ID] = v
	return nil
}

func (r *fakeProductRepo) LockVariants(_ *gorm.DB, ids []uuid.UUID) ([]model.ProductVariant, error) {
	var out []model.ProductVariant
	for _, id := range ids {
		if v, ok := r.variants[id]; ok {
			c := *v
			c.Product = nil
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AdjustStock(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.variants[id].StockQty += delta
	return nil
}

func (r *fakeProductRepo) CountLowStock() (int64, error) {
	var n int64
	for _, v := range r.variants {
		if v.IsActive && v.IsLowStock() {
			n++
		}
	}
	return n, nil
}

// cart

type fakeCartRepo struct {
	products *fakeProductRepo
	carts    map[uuid.UUID]*model.Cart
	wishlist []model.WishlistItem
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{products: products, carts: map[uuid.UUID]*model.Cart{}}
}

func (r *fakeCartRepo) GetOrCreate(userID uuid.UUID) (*model.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		cart = &model.Cart{UserID: userID}
		cart.ID = uuid.New()
		r.carts[userID] = cart
	}
	out := &model.Cart{BaseModel: cart.BaseModel, UserID: userID}
	for _, it := range cart.Items {
		it.Variant = r.products.variants[it.VariantID]
		out.Items = append(out.Items, it)
	}
	return out, nil
}

func (r *fakeCartRepo) cartByID(id uuid.UUID) *model.Cart {
	for _, c := range r.carts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (r *fakeCartRepo) FindItem(cartID, itemID uuid.UUID) (*model.CartItem, error) {
	if c := r.cartByID(cartID); c != nil {
		for _, it := range c.Items {
			if it.ID == itemID {
				it.Variant = r.products.variants[it.VariantID]
				return &it, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCartRepo) AddItem(cartID, variantID uuid.UUID, qty int) (*model.CartItem, error) {
	c := r.cartByID(cartID)
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			c.Items[i].Quantity += qty
			return &c.Items[i], nil
		}
	}
	item := model.CartItem{CartID: cartID, VariantID: variantID, Quantity: qty}
	item.ID = uuid.New()
	c.Items = append(c.Items, item)
	return &item, nil
}

func (r *fakeCartRepo) SetQuantity(itemID uuid.UUID, qty int) error {
	for _, c := range r.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items[i].Quantity = qty
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeCartRepo) RemoveItem(cartID, itemID uuid.UUID) error {
	c := r.cartByID(cartID)
	if c == nil {
		return gorm.ErrRecordNotFound
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeCartRepo) Clear(_ *gorm.DB, cartID uuid.UUID) error {
	if c := r.cartByID(cartID); c != nil {
		c.Items = nil
	}
	return nil
}

func (r *fakeCartRepo) ListWishlist(userID uuid.UUID) ([]model.WishlistItem, error) {
	var out []model.WishlistItem
	for _, w := range r.wishlist {
		if w.UserID == userID {
			w.Product = r.products.products[w.ProductID]
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) AddWishlist(userID, productID uuid.UUID) error {
	for _, w := range r.wishlist {
		if w.UserID == userID && w.ProductID == productID {
			return nil
		}
	}
	r.wishlist = append(r.wishlist, model.WishlistItem{ID: uuid.New(), UserID: userID, ProductID: productID})
	return nil
}

func (r *fakeCartRepo) RemoveWishlist(userID, productID uuid.UUID) error {
	for i, w := range r.wishlist {
		if w.UserID == userID && w.ProductID == productID {
			r.wishlist = append(r.wishlist[:i], r.wishlist[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// addresses

type fakeAddressRepo struct {
	addresses []*model.Address
}

func (r *fakeAddressRepo) ListByUser(userID uuid.UUID) ([]model.Address, error) {
	var out []model.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsDefault && !out[j].IsDefault })
	return out, nil
}

func (r *fakeAddressRepo) FindForUser(id, userID uuid.UUID) (*model.Address, error) {
	for _, a := range r.addresses {
		if a.ID == id && a.UserID == userID {
			c := *a
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAddressRepo) Create(_ *gorm.DB, a *model.Address) error {
	ensureID(&a.ID)
	c := *a
	r.addresses = append(r.addresses, &c)
	return nil
}

func (r *fakeAddressRepo) Update(_ *gorm.DB, a *model.Address) error {
	for i, existing := range r.addresses {
		if existing.ID == a.ID {
			c := *a
			r.addresses[i] = &c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeAddressRepo) Delete(id, userID uuid.UUID) error {
	for i, a := range r.addresses {
		if a.ID == id && a.UserID == userID {
			r.addresses = append(r.addresses[:i], r.addresses[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeAddressRepo) ClearDefault(_ *gorm.DB, userID uuid.UUID, kind string, exceptID uuid.UUID) error {
	for _, a := range r.addresses {
		if a.UserID == userID && a.Type == kind && a.ID != exceptID {
			a.IsDefault = false
		}
	}
	return nil
}

// discounts

type fakeDiscountRepo struct {
	codes     map[uuid.UUID]*model.DiscountCode
	userUsage int64
}

func newFakeDiscountRepo(codes ...*model.DiscountCode) *fakeDiscountRepo {
	r := &fakeDiscountRepo{codes: map[uuid.UUID]*model.DiscountCode{}}
	for _, c := range codes {
		ensureID(&c.ID)
		r.codes[c.ID] = c
	}
	return r
}

func (r *fakeDiscountRepo) FindAll() ([]model.DiscountCode, error) {
	var out []model.DiscountCode
	for _, c := range r.codes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeDiscountRepo) FindByID(id uuid.UUID) (*model.DiscountCode, error) {
	c, ok := r.codes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeDiscountRepo) FindByCode(_ *gorm.DB, code string, _ bool) (*model.DiscountCode, error) {
	for _, c := range r.codes {
		if strings.EqualFold(c.Code, code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDiscountRepo) CountUserUsage(uuid.UUID, uuid.UUID) (int64, error) {
	return r.userUsage, nil
}

func (r *fakeDiscountRepo) IncrementUsage(_ *gorm.DB, id uuid.UUID) error {
	r.codes[id].UsedCount++
	return nil
}

func (r *fakeDiscountRepo) Create(d *model.DiscountCode) error {
	if _, err := r.FindByCode(nil, d.Code, false); err == nil {
		return gorm.ErrDuplicatedKey
	}
	ensureID(&d.ID)
	cp := *d
	r.codes[d.ID] = &cp
	return nil
}

func (r *fakeDiscountRepo) Update(d *model.DiscountCode) error {
	cp := *d
	r.codes[d.ID] = &cp
	return nil
}

// orders

type fakeOrderRepo struct {
	orders   map[uuid.UUID]*model.Order
	payments []*model.Payment
	stats    repository.OrderStats
	series   []repository.SalesPoint
	// onLock runs against the stored row when Lock is called, standing in for a
	// concurrent writer that committed first.
	onLock   func(o *model.Order)
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*model.Order{}}
}

func (r *fakeOrderRepo) withPayments(o *model.Order) *model.Order {
	c := *o
	c.Payments = nil
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].OrderID == o.ID {
			c.Payments = append(c.Payments, *r.payments[i])
		}
	}
	return &c
}

func (r *fakeOrderRepo) Create(_ *gorm.DB, o *model.Order) error {
	ensureID(&o.ID)
	for i := range o.Items {
		ensureID(&o.Items[i].ID)
		o.Items[i].OrderID = o.ID
	}
	c := *o
	r.orders[o.ID] = &c
	return nil
}

func (r *fakeOrderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withPayments(o), nil
}

func (r *fakeOrderRepo) FindForUser(id, userID uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withPayments(o), nil
}

func (r *fakeOrderRepo) ListByUser(userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(f repository.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) Lock(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if r.onLock != nil {
		r.onLock(o)
	}
	c := *o
	return &c, nil
}

func (r *fakeOrderRepo) UpdateFields(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			o.Status = v.(model.OrderStatus)
		case "payment_status":
			o.PaymentStatus = v.(model.PaymentStatus)
		case "tracking_number":
			o.TrackingNumber = v.(string)
		case "courier":
			o.Courier = v.(string)
		case "shipping_provider":
			o.ShippingProvider = v.(string)
		case "estimated_delivery":
			o.EstimatedDelivery = v.(*time.Time)
		}
	}
	return nil
}

func (r *fakeOrderRepo) OrderNumberExists(number string) (bool, error) {
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) CreatePayment(_ *gorm.DB, p *model.Payment) error {
	ensureID(&p.ID)
	c := *p
	r.payments = append(r.payments, &c)
	return nil
}

func (r *fakeOrderRepo) LatestPayment(orderID uuid.UUID) (*model.Payment, error) {
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].OrderID == orderID {
			c := *r.payments[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) UpdatePayment(_ *gorm.DB, p *model.Payment) error {
	for i := range r.payments {
		if r.payments[i].ID == p.ID {
			c := *p
			r.payments[i] = &c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) Stats(time.Time, time.Time) (*repository.OrderStats, error) {
	s := r.stats
	return &s, nil
}

func (r *fakeOrderRepo) SalesSeries(time.Time) ([]repository.SalesPoint, error) {
	return r.series, nil
}

// settings and currencies

type fakeSettingRepo struct {
	settings map[string]*model.SystemSetting
}

func newFakeSettingRepo(settings ...model.SystemSetting) *fakeSettingRepo {
	r := &fakeSettingRepo{settings: map[string]*model.SystemSetting{}}
	for i := range settings {
		s := settings[i]
		r.settings[s.Key] = &s
	}
	return r
}

func (r *fakeSettingRepo) FindAll() ([]model.SystemSetting, error) {
	var out []model.SystemSetting
	for _, s := range r.settings {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *fakeSettingRepo) FindByKey(key string) (*model.SystemSetting, error) {
	s, ok := r.settings[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *s
	return &c, nil
}

func (r *fakeSettingRepo) Upsert(s *model.SystemSetting) error {
	c := *s
	r.settings[s.Key] = &c
	return nil
}

func (r *fakeSettingRepo) SeedDefaults([]model.SystemSetting) error { return nil }

type fakeCurrencyRepo struct {
	rates map[string]decimal.Decimal
}

func newFakeCurrencyRepo(rates map[string]string) *fakeCurrencyRepo {
	r := &fakeCurrencyRepo{rates: map[string]decimal.Decimal{}}
	for code, v := range rates {
		r.rates[code] = decimal.RequireFromString(v)
	}
	return r
}

func (r *fakeCurrencyRepo) FindAll() ([]model.CurrencyRate, error) {
	var out []model.CurrencyRate
	for code, rate := range r.rates {
		out = append(out, model.CurrencyRate{CurrencyCode: code, RateToINR: rate})
	}
	return out, nil
}

func (r *fakeCurrencyRepo) FindByCode(code string) (*model.CurrencyRate, error) {
	rate, ok := r.rates[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.CurrencyRate{CurrencyCode: code, RateToINR: rate}, nil
}

func (r *fakeCurrencyRepo) Upsert(code string, rate decimal.Decimal) (*model.CurrencyRate, error) {
	r.rates[code] = rate
	return r.FindByCode(code)
}

type fakeBusinessRepo struct {
	accounts map[uuid.UUID]*model.BusinessAccount
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{accounts: map[uuid.UUID]*model.BusinessAccount{}}
}

func (r *fakeBusinessRepo) FindByUser(userID uuid.UUID) (*model.BusinessAccount, error) {
	for _, a := range r.accounts {
		if a.UserID == userID {
			c := *a
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBusinessRepo) FindByID(id uuid.UUID) (*model.BusinessAccount, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *a
	return &c, nil
}

func (r *fakeBusinessRepo) List(approved *bool) ([]model.BusinessAccount, error) {
	var out []model.BusinessAccount
	for _, a := range r.accounts {
		if approved == nil || a.IsApproved == *approved {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeBusinessRepo) Create(a *model.BusinessAccount) error {
	ensureID(&a.ID)
	c := *a
	r.accounts[a.ID] = &c
	return nil
}

func (r *fakeBusinessRepo) Update(a *model.BusinessAccount) error {
	c := *a
	r.accounts[a.ID] = &c
	return nil
}

type fakeTranslationRepo struct {
	keys map[string]model.TranslationKey
}

func (r *fakeTranslationRepo) FindAll() ([]model.TranslationKey, error) {
	var out []model.TranslationKey
	for _, k := range r.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *fakeTranslationRepo) Upsert(t *model.TranslationKey) error {
	r.keys[t.Key] = *t
	return nil
}

func (r *fakeTranslationRepo) Delete(key string) error {
	if _, ok := r.keys[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.keys, key)
	return nil
}

func (r *fakeTranslationRepo) SeedDefaults([]model.TranslationKey) error { return nil }
