package service

import (
	"log"
	"strings"

	"newhill-spices/internal/currency"
	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// pricer renders INR amounts in one display currency for one viewer.
type pricer struct {
	code      string
	rate      decimal.Decimal
	wholesale bool
}

// newPricer picks the requested currency, then the viewer's preference, then INR.
// A missing stored rate falls back to INR rather than failing the page.
func newPricer(rates CurrencyService, requested string, viewer *model.User) pricer {
	p := pricer{code: currency.Base, rate: decimal.NewFromInt(1)}
	if viewer != nil {
		p.wholesale = viewer.BusinessApproved()
	}

	code := strings.ToUpper(strings.TrimSpace(requested))
	if !currency.IsSupported(code) && viewer != nil {
		code = strings.ToUpper(viewer.PreferredCurrency)
	}
	if !currency.IsSupported(code) || code == currency.Base {
		return p
	}
	rate, err := rates.RateToINR(code)
	if err != nil {
		log.Printf("⚠️  Display currency %s unavailable, showing INR: %v", code, err)
		return p
	}
	p.code = code
	p.rate = rate
	return p
}

func (p pricer) price(inr decimal.Decimal) Price {
	amount, err := currency.Convert(inr, p.rate, p.code)
	if err != nil {
		return Price{Amount: inr, Currency: currency.Base, Formatted: currency.Format(inr, currency.Base)}
	}
	return Price{Amount: amount, Currency: p.code, Formatted: currency.Format(amount, p.code)}
}

type VariantView struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	WeightGrams  int             `json:"weight_grams"`
	Packaging    string          `json:"packaging"`
	PriceINR     decimal.Decimal `json:"price_inr"`
	MRPINR       decimal.Decimal `json:"mrp_inr"`
	Wholesale    bool            `json:"wholesale"`
	InStock      bool            `json:"in_stock"`
	StockQty     int             `json:"stock_qty"`
	DisplayPrice Price           `json:"display_price"`
}

type ProductView struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	ShortDesc   string        `json:"short_desc"`
	Origin      string        `json:"origin"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
	Images      []string      `json:"images"`
	IsFeatured  bool          `json:"is_featured"`
	SEOTitle    string        `json:"seo_title"`
	SEODesc     string        `json:"seo_desc"`
	Variants    []VariantView `json:"variants"`
	FromPrice   *Price        `json:"from_price,omitempty"`
}

type CatalogFilter struct {
	Category string
	Search   string
	Featured bool
	Page     int
	Limit    int
	Currency string
}

type CatalogPage struct {
	Products   []ProductView    `json:"products"`
	Currency   string           `json:"currency"`
	Pagination model.Pagination `json:"pagination"`
}

type CatalogService interface {
	List(f CatalogFilter, viewer *model.User) (*CatalogPage, error)
	GetBySlug(slug, currencyCode string, viewer *model.User) (*ProductView, error)
	Categories() ([]string, error)
}

type catalogService struct {
	products repository.ProductRepository
	rates    CurrencyService
}

func NewCatalogService(products repository.ProductRepository, rates CurrencyService) CatalogService {
	return &catalogService{products: products, rates: rates}
}

func (s *catalogService) List(f CatalogFilter, viewer *model.User) (*CatalogPage, error) {
	page, limit := model.PageParams(f.Page, f.Limit, 12, 100)
	products, total, err := s.products.List(repository.ProductFilter{
		Category:   f.Category,
		Search:     strings.TrimSpace(f.Search),
		Featured:   f.Featured,
		ActiveOnly: true,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	p := newPricer(s.rates, f.Currency, viewer)
	views := make([]ProductView, 0, len(products))
	for i := range products {
		v := productView(&products[i], p)
		if len(v.Variants) > 0 {
			views = append(views, v)
		}
	}
	return &CatalogPage{
		Products:   views,
		Currency:   p.code,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

func (s *catalogService) GetBySlug(slug, currencyCode string, viewer *model.User) (*ProductView, error) {
	product, err := s.products.FindBySlug(slug, true)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	v := productView(product, newPricer(s.rates, currencyCode, viewer))
	return &v, nil
}

func (s *catalogService) Categories() ([]string, error) {
	return s.products.Categories()
}

func productView(p *model.Product, pr pricer) ProductView {
	active := lo.Filter(p.Variants, func(v model.ProductVariant, _ int) bool { return v.IsActive })
	variants := lo.Map(active, func(v model.ProductVariant, _ int) VariantView {
		return variantView(&v, pr)
	})

	view := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ShortDesc:   p.ShortDesc,
		Origin:      p.Origin,
		Category:    p.Category,
		Tags:        nonNil(p.Tags),
		Images:      nonNil(p.Images),
		IsFeatured:  p.IsFeatured,
		SEOTitle:    p.SEOTitle,
		SEODesc:     p.SEODesc,
		Variants:    variants,
	}
	if len(variants) > 0 {
		cheapest := lo.MinBy(variants, func(a, b VariantView) bool { return a.PriceINR.LessThan(b.PriceINR) })
		view.FromPrice = &cheapest.DisplayPrice
	}
	return view
}

func variantView(v *model.ProductVariant, pr pricer) VariantView {
	unit := v.PriceFor(pr.wholesale)
	return VariantView{
		ID:           v.ID,
		SKU:          v.SKU,
		Name:         v.Name,
		WeightGrams:  v.WeightGrams,
		Packaging:    v.Packaging,
		PriceINR:     unit,
		MRPINR:       v.MRPINR,
		Wholesale:    !unit.Equal(v.PriceINR),
		InStock:      v.StockQty > 0,
		StockQty:     v.StockQty,
		DisplayPrice: pr.price(unit),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
