package service

import (
	"fmt"
	"strings"
	"time"

	"newhill-spices/internal/currency"
	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"

	"github.com/shopspring/decimal"
)

// Price is an INR amount rendered in a display currency.
type Price struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}

type RateView struct {
	Code      string          `json:"code"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	RateToINR decimal.Decimal `json:"rate_to_inr"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type SetRateRequest struct {
	Rate decimal.Decimal `json:"rate" validate:"gt=0"`
}

type CurrencyService interface {
	RateToINR(code string) (decimal.Decimal, error)
	ConvertPrice(priceINR decimal.Decimal, target string) (decimal.Decimal, error)
	Quote(priceINR decimal.Decimal, target string) (*Price, error)
	ListRates() ([]RateView, error)
	SetRate(code string, rate decimal.Decimal, meta RequestMeta) (*model.CurrencyRate, error)
	RefreshRates(meta RequestMeta) ([]model.CurrencyRate, error)
}

type currencyService struct {
	repo  repository.CurrencyRepository
	audit AuditService
}

func NewCurrencyService(repo repository.CurrencyRepository, audit AuditService) CurrencyService {
	return &currencyService{repo: repo, audit: audit}
}

func rateNotFound(code string) error {
	return notFound(fmt.Sprintf("Currency rate not found for %s", code))
}

// RateToINR returns how many rupees one unit of code buys.
func (s *currencyService) RateToINR(code string) (decimal.Decimal, error) {
	code = strings.ToUpper(code)
	if code == currency.Base {
		return decimal.NewFromInt(1), nil
	}
	if !currency.IsSupported(code) {
		return decimal.Zero, invalid(fmt.Sprintf("Unsupported currency %s", code))
	}
	rate, err := s.repo.FindByCode(code)
	if err != nil {
		if repository.IsNotFound(err) {
			return decimal.Zero, rateNotFound(code)
		}
		return decimal.Zero, err
	}
	return rate.RateToINR, nil
}

func (s *currencyService) ConvertPrice(priceINR decimal.Decimal, target string) (decimal.Decimal, error) {
	target = strings.ToUpper(target)
	rate, err := s.RateToINR(target)
	if err != nil {
		return decimal.Zero, err
	}
	return currency.Convert(priceINR, rate, target)
}

func (s *currencyService) Quote(priceINR decimal.Decimal, target string) (*Price, error) {
	target = strings.ToUpper(target)
	amount, err := s.ConvertPrice(priceINR, target)
	if err != nil {
		return nil, err
	}
	return &Price{Amount: amount, Currency: target, Formatted: currency.Format(amount, target)}, nil
}

// ListRates reports every supported currency; INR is always 1.
func (s *currencyService) ListRates() ([]RateView, error) {
	stored, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]model.CurrencyRate, len(stored))
	for _, r := range stored {
		byCode[r.CurrencyCode] = r
	}

	views := make([]RateView, 0, len(currency.Supported))
	for _, info := range currency.Supported {
		v := RateView{Code: info.Code, Symbol: info.Symbol, Name: info.Name}
		if info.Code == currency.Base {
			v.RateToINR = decimal.NewFromInt(1)
		} else if r, ok := byCode[info.Code]; ok {
			updated := r.UpdatedAt
			v.RateToINR = r.RateToINR
			v.UpdatedAt = &updated
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *currencyService) SetRate(code string, rate decimal.Decimal, meta RequestMeta) (*model.CurrencyRate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == currency.Base {
		return nil, invalid("The INR rate is fixed at 1")
	}
	if !currency.IsSupported(code) {
		return nil, invalid(fmt.Sprintf("Unsupported currency %s", code))
	}
	if !rate.IsPositive() {
		return nil, invalid(currency.ErrInvalidRate.Error())
	}

	var before interface{}
	if old, err := s.repo.FindByCode(code); err == nil {
		before = map[string]string{"rate_to_inr": old.RateToINR.String()}
	}
	saved, err := s.repo.Upsert(code, rate)
	if err != nil {
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "currency", code, before, map[string]string{
		"rate_to_inr": saved.RateToINR.String(),
	}))
	return saved, nil
}

// RefreshRates writes the reference rates. There is no live FX feed.
func (s *currencyService) RefreshRates(meta RequestMeta) ([]model.CurrencyRate, error) {
	saved := make([]model.CurrencyRate, 0, len(currency.MockRates))
	for _, code := range currency.Codes() {
		rate, ok := currency.MockRates[code]
		if !ok {
			continue
		}
		r, err := s.repo.Upsert(code, rate)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *r)
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "currency", "refresh", nil, map[string]int{"updated": len(saved)}))
	return saved, nil
}
