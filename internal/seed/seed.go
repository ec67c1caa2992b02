package seed

import (
	"fmt"
	"log"

	"newhill-spices/internal/currency"
	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/clock"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const systemActor = "system"

// Admin is the back-office account created on first boot.
type Admin struct {
	Email    string
	Password string
}

type Seeder struct {
	privileges   repository.PrivilegeRepository
	roles        repository.RoleRepository
	users        repository.UserRepository
	businesses   repository.BusinessRepository
	lots         repository.LotRepository
	products     repository.ProductRepository
	currencies   repository.CurrencyRepository
	discounts    repository.DiscountRepository
	settings     repository.SettingRepository
	translations repository.TranslationRepository
	clock        clock.Clock
}

func New(db *gorm.DB, c clock.Clock) *Seeder {
	return &Seeder{
		privileges:   repository.NewPrivilegeRepo(db),
		roles:        repository.NewRoleRepo(db),
		users:        repository.NewUserRepo(db),
		businesses:   repository.NewBusinessRepo(db),
		lots:         repository.NewLotRepo(db),
		products:     repository.NewProductRepo(db),
		currencies:   repository.NewCurrencyRepo(db),
		discounts:    repository.NewDiscountRepo(db),
		settings:     repository.NewSettingRepo(db),
		translations: repository.NewTranslationRepo(db),
		clock:        c,
	}
}

// Access seeds privileges, roles and the admin account. Every boot runs it.
func (s *Seeder) Access(admin Admin) error {
	if err := s.privileges.SeedDefaults(); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := s.roles.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := s.grantRolePrivileges(); err != nil {
		return err
	}
	return s.ensureAdmin(admin)
}

// Catalog seeds sample lots, products, rates, discount codes, settings and
// translations. Existing rows are left untouched.
func (s *Seeder) Catalog() error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"settings", func() error { return s.settings.SeedDefaults(Settings()) }},
		{"translations", func() error { return s.translations.SeedDefaults(Translations()) }},
		{"currency rates", s.seedRates},
		{"products", s.seedProducts},
		{"discount codes", s.seedDiscounts},
		{"business account", s.seedBusiness},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	log.Println("🌱 Sample catalog ready")
	return nil
}

// Run seeds access control and sample data.
func (s *Seeder) Run(admin Admin) error {
	if err := s.Access(admin); err != nil {
		return err
	}
	return s.Catalog()
}

func (s *Seeder) grantRolePrivileges() error {
	all, err := s.privileges.FindAll()
	if err != nil {
		return fmt.Errorf("load privileges: %w", err)
	}
	grants := map[string][]model.Privilege{
		model.RoleAdmin: all,
		model.RoleCustomer: lo.Filter(all, func(p model.Privilege, _ int) bool {
			return lo.Contains(model.CustomerPrivileges, p.Code)
		}),
	}
	for name, privs := range grants {
		role, err := s.roles.FindByName(name)
		if err != nil {
			return fmt.Errorf("load role %s: %w", name, err)
		}
		if err := s.roles.ReplacePrivileges(role, privs); err != nil {
			return fmt.Errorf("grant %s privileges: %w", name, err)
		}
	}
	return nil
}

func (s *Seeder) ensureAdmin(admin Admin) error {
	if admin.Email == "" {
		return nil
	}
	if _, err := s.users.FindByEmail(admin.Email); err == nil {
		return nil
	} else if !repository.IsNotFound(err) {
		return fmt.Errorf("look up admin: %w", err)
	}

	role, err := s.roles.FindByName(model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}
	now := s.clock.Now()
	user := &model.User{
		Email:             admin.Email,
		Name:              "Super Admin",
		IsActive:          true,
		EmailVerified:     &now,
		PreferredLanguage: "en",
		PreferredCurrency: "INR",
		NotifyEmail:       true,
		NotifyPush:        true,
	}
	user.CreatedBy = systemActor
	user.UpdatedBy = systemActor
	if err := user.SetPassword(admin.Password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.users.Create(user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if err := s.users.AssignRoles(user, []model.Role{*role}); err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}
	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

func (s *Seeder) seedRates() error {
	for _, code := range currency.Codes() {
		rate, ok := currency.MockRates[code]
		if !ok {
			continue
		}
		if _, err := s.currencies.FindByCode(code); err == nil {
			continue
		} else if !repository.IsNotFound(err) {
			return err
		}
		if _, err := s.currencies.Upsert(code, rate); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedProducts() error {
	lots := Lots()
	for i := range lots {
		lots[i].CreatedBy = systemActor
		lots[i].UpdatedBy = systemActor
	}
	if err := s.lots.SeedDefaults(lots); err != nil {
		return err
	}
	created := 0
	for _, p := range Products(lots) {
		if _, err := s.products.FindBySlug(p.Slug, false); err == nil {
			continue
		} else if !repository.IsNotFound(err) {
			return err
		}
		p.CreatedBy = systemActor
		p.UpdatedBy = systemActor
		if err := s.products.Create(&p); err != nil {
			return fmt.Errorf("%s: %w", p.Slug, err)
		}
		created++
	}
	if created > 0 {
		log.Printf("📦 Created %d sample products", created)
	}
	return nil
}

func (s *Seeder) seedDiscounts() error {
	for _, d := range DiscountCodes(s.clock.Now()) {
		if _, err := s.discounts.FindByCode(nil, d.Code, false); err == nil {
			continue
		} else if !repository.IsNotFound(err) {
			return err
		}
		d.CreatedBy = systemActor
		d.UpdatedBy = systemActor
		if err := s.discounts.Create(&d); err != nil {
			return fmt.Errorf("%s: %w", d.Code, err)
		}
	}
	return nil
}

// seedBusiness creates an approved wholesale buyer for trying B2B pricing.
func (s *Seeder) seedBusiness() error {
	const email = "business@example.com"
	user, err := s.users.FindByEmail(email)
	if repository.IsNotFound(err) {
		now := s.clock.Now()
		user = &model.User{
			Email:             email,
			Name:              "Spice Traders LLC",
			IsActive:          true,
			EmailVerified:     &now,
			PreferredLanguage: "en",
			PreferredCurrency: "INR",
			NotifyEmail:       true,
		}
		user.CreatedBy = systemActor
		user.UpdatedBy = systemActor
		if err = s.users.Create(user); err != nil {
			return err
		}
		role, err := s.roles.FindByName(model.RoleCustomer)
		if err != nil {
			return err
		}
		if err := s.users.AssignRoles(user, []model.Role{*role}); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if _, err := s.businesses.FindByUser(user.ID); err == nil {
		return nil
	} else if !repository.IsNotFound(err) {
		return err
	}
	approvedAt := s.clock.Now()
	acc := &model.BusinessAccount{
		UserID:       user.ID,
		CompanyName:  "Spice Traders LLC",
		GSTIN:        "29ABCDE1234F1Z5",
		BusinessType: "retailer",
		IsApproved:   true,
		ApprovedAt:   &approvedAt,
		CreditLimit:  decimal.NewFromInt(100000),
	}
	acc.CreatedBy = systemActor
	acc.UpdatedBy = systemActor
	return s.businesses.Create(acc)
}
