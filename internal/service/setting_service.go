package service

import (
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/validator"

	"github.com/shopspring/decimal"
)

const (
	SettingMultiLang         = "multiLang"
	SettingMultiCurrency     = "multiCurrency"
	SettingEnableB2B         = "enableB2B"
	SettingGuestCheckout     = "allowGuestCheckout"
	SettingNewsletter        = "enableNewsletter"
	SettingSubscriptions     = "enableSubscriptions"
	SettingGCCShipping       = "enableGCCShipping"
	SettingFreeShippingINR   = "freeShippingThresholdINR"
	settingEnabledField      = "enabled"
	SettingFreeShippingField = "amount"
)

type SettingRequest struct {
	Value       model.JSONB `json:"value" validate:"required"`
	Description string      `json:"description" validate:"max=1000"`
}

type SettingService interface {
	All() ([]model.SystemSetting, error)
	Get(key string) (*model.SystemSetting, error)
	Upsert(key string, req *SettingRequest, meta RequestMeta) (*model.SystemSetting, error)
	Flags() (map[string]bool, error)
	Enabled(key string, def bool) bool
	DecimalValue(key, field string, def decimal.Decimal) decimal.Decimal
}

type settingService struct {
	repo  repository.SettingRepository
	audit AuditService
}

func NewSettingService(repo repository.SettingRepository, audit AuditService) SettingService {
	return &settingService{repo: repo, audit: audit}
}

func (s *settingService) All() ([]model.SystemSetting, error) {
	return s.repo.FindAll()
}

func (s *settingService) Get(key string) (*model.SystemSetting, error) {
	setting, err := s.repo.FindByKey(key)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return setting, nil
}

func (s *settingService) Upsert(key string, req *SettingRequest, meta RequestMeta) (*model.SystemSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, validator.New("key", "key is required")
	}
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	var before interface{}
	if old, err := s.repo.FindByKey(key); err == nil {
		before = old.Value
	}
	setting := &model.SystemSetting{Key: key, Value: req.Value, Description: req.Description}
	if meta.UserID != nil {
		setting.UpdatedBy = meta.UserID.String()
	}
	if err := s.repo.Upsert(setting); err != nil {
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "setting", key, before, req.Value))
	return s.Get(key)
}

// Flags exposes every setting that carries an "enabled" boolean.
func (s *settingService) Flags() (map[string]bool, error) {
	settings, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	flags := make(map[string]bool, len(settings))
	for _, st := range settings {
		if on, ok := st.Value[settingEnabledField].(bool); ok {
			flags[st.Key] = on
		}
	}
	return flags, nil
}

func (s *settingService) Enabled(key string, def bool) bool {
	st, err := s.repo.FindByKey(key)
	if err != nil {
		return def
	}
	on, ok := st.Value[settingEnabledField].(bool)
	if !ok {
		return def
	}
	return on
}

func (s *settingService) DecimalValue(key, field string, def decimal.Decimal) decimal.Decimal {
	st, err := s.repo.FindByKey(key)
	if err != nil {
		return def
	}
	switch v := st.Value[field].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return def
}
