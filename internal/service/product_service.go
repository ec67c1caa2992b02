package service

import (
	"regexp"
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	defaultGSTRate = decimal.NewFromInt(18)
)

type VariantRequest struct {
	SKU               string           `json:"sku" validate:"required,max=50"`
	Name              string           `json:"name" validate:"required,max=255"`
	WeightGrams       int              `json:"weight_grams" validate:"gt=0"`
	PriceINR          decimal.Decimal  `json:"price_inr" validate:"gt=0"`
	MRPINR            decimal.Decimal  `json:"mrp_inr" validate:"gte=0"`
	WholesalePriceINR *decimal.Decimal `json:"wholesale_price_inr" validate:"omitempty,gt=0"`
	Packaging         string           `json:"packaging" validate:"max=50"`
	StockQty          int              `json:"stock_qty" validate:"gte=0"`
	LowStockQty       *int             `json:"low_stock_qty" validate:"omitempty,gte=0"`
	IsActive          *bool            `json:"is_active"`
	LotID             *uuid.UUID       `json:"lot_id"`
}

func (r *VariantRequest) apply(v *model.ProductVariant) {
	v.SKU = strings.ToUpper(strings.TrimSpace(r.SKU))
	v.Name = r.Name
	v.WeightGrams = r.WeightGrams
	v.PriceINR = r.PriceINR
	v.MRPINR = r.MRPINR
	if v.MRPINR.IsZero() {
		v.MRPINR = r.PriceINR
	}
	v.WholesalePriceINR = r.WholesalePriceINR
	v.Packaging = lo.Ternary(r.Packaging == "", "pouch", r.Packaging)
	v.StockQty = r.StockQty
	if r.LowStockQty != nil {
		v.LowStockQty = *r.LowStockQty
	} else if v.LowStockQty == 0 {
		v.LowStockQty = 10
	}
	if r.IsActive != nil {
		v.IsActive = *r.IsActive
	}
	v.LotID = r.LotID
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Slug        string           `json:"slug" validate:"required,max=255"`
	Description string           `json:"description"`
	ShortDesc   string           `json:"short_desc" validate:"max=500"`
	Origin      string           `json:"origin" validate:"max=255"`
	Category    string           `json:"category" validate:"required,max=100"`
	Tags        []string         `json:"tags"`
	Images      []string         `json:"images"`
	HSNCode     string           `json:"hsn_code" validate:"max=20"`
	GSTRate     *decimal.Decimal `json:"gst_rate" validate:"omitempty,gte=0,lte=100"`
	IsActive    *bool            `json:"is_active"`
	IsFeatured  bool             `json:"is_featured"`
	SEOTitle    string           `json:"seo_title" validate:"max=255"`
	SEODesc     string           `json:"seo_desc" validate:"max=500"`
	Variants    []VariantRequest `json:"variants" validate:"omitempty,dive"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Slug        *string          `json:"slug" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	ShortDesc   *string          `json:"short_desc" validate:"omitempty,max=500"`
	Origin      *string          `json:"origin" validate:"omitempty,max=255"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Tags        *[]string        `json:"tags"`
	Images      *[]string        `json:"images"`
	HSNCode     *string          `json:"hsn_code" validate:"omitempty,max=20"`
	GSTRate     *decimal.Decimal `json:"gst_rate" validate:"omitempty,gte=0,lte=100"`
	IsActive    *bool            `json:"is_active"`
	IsFeatured  *bool            `json:"is_featured"`
	SEOTitle    *string          `json:"seo_title" validate:"omitempty,max=255"`
	SEODesc     *string          `json:"seo_desc" validate:"omitempty,max=500"`
}

type AdminProductFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

type ProductPage struct {
	Products   []model.Product  `json:"products"`
	Pagination model.Pagination `json:"pagination"`
}

type ProductService interface {
	List(f AdminProductFilter) (*ProductPage, error)
	Get(id uuid.UUID) (*model.Product, error)
	Create(req *CreateProductRequest, meta RequestMeta) (*model.Product, error)
	Patch(id uuid.UUID, req *PatchProductRequest, meta RequestMeta) (*model.Product, error)
	Delete(id uuid.UUID, meta RequestMeta) error
	CreateVariant(productID uuid.UUID, req *VariantRequest, meta RequestMeta) (*model.ProductVariant, error)
	UpdateVariant(id uuid.UUID, req *VariantRequest, meta RequestMeta) (*model.ProductVariant, error)
}

type productService struct {
	products repository.ProductRepository
	lots     repository.LotRepository
	audit    AuditService
}

func NewProductService(products repository.ProductRepository, lots repository.LotRepository, audit AuditService) ProductService {
	return &productService{products: products, lots: lots, audit: audit}
}

func (s *productService) List(f AdminProductFilter) (*ProductPage, error) {
	page, limit := model.PageParams(f.Page, f.Limit, 50, 200)
	products, total, err := s.products.List(repository.ProductFilter{
		Category: f.Category,
		Search:   strings.TrimSpace(f.Search),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: products, Pagination: model.NewPagination(page, limit, total)}, nil
}

func (s *productService) Get(id uuid.UUID) (*model.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) checkSlug(slug string, excludeID uuid.UUID) error {
	if !slugPattern.MatchString(slug) {
		return validator.New("slug", "slug must contain only lowercase letters, digits and hyphens")
	}
	exists, err := s.products.SlugExists(slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrSlugExists
	}
	return nil
}

func (s *productService) checkSKU(sku string, excludeID uuid.UUID) error {
	exists, err := s.products.SKUExists(strings.ToUpper(strings.TrimSpace(sku)), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrSKUExists
	}
	return nil
}

func (s *productService) checkLot(lotID *uuid.UUID) error {
	if lotID == nil {
		return nil
	}
	if _, err := s.lots.FindByID(*lotID); err != nil {
		if repository.IsNotFound(err) {
			return ErrLotNotFound
		}
		return err
	}
	return nil
}

func (s *productService) Create(req *CreateProductRequest, meta RequestMeta) (*model.Product, error) {
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	if err := s.checkSlug(req.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	skus := lo.Map(req.Variants, func(v VariantRequest, _ int) string { return strings.ToUpper(strings.TrimSpace(v.SKU)) })
	if len(lo.Uniq(skus)) != len(skus) {
		return nil, ErrSKUExists
	}
	for i := range req.Variants {
		if err := s.checkSKU(req.Variants[i].SKU, uuid.Nil); err != nil {
			return nil, err
		}
		if err := s.checkLot(req.Variants[i].LotID); err != nil {
			return nil, err
		}
	}

	product := &model.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ShortDesc:   req.ShortDesc,
		Origin:      req.Origin,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Tags:        pq.StringArray(nonNil(req.Tags)),
		Images:      pq.StringArray(nonNil(req.Images)),
		HSNCode:     req.HSNCode,
		GSTRate:     defaultGSTRate,
		IsActive:    true,
		IsFeatured:  req.IsFeatured,
		SEOTitle:    req.SEOTitle,
		SEODesc:     req.SEODesc,
	}
	if req.GSTRate != nil {
		product.GSTRate = *req.GSTRate
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	for i := range req.Variants {
		v := model.ProductVariant{IsActive: true}
		req.Variants[i].apply(&v)
		product.Variants = append(product.Variants, v)
	}
	if meta.UserID != nil {
		product.CreatedBy = meta.UserID.String()
	}

	if err := s.products.Create(product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionCreate, "product", product.ID.String(), nil, map[string]string{
		"name": product.Name,
		"slug": product.Slug,
	}))
	return product, nil
}

func (s *productService) Patch(id uuid.UUID, req *PatchProductRequest, meta RequestMeta) (*model.Product, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	before, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validator.New("name", "name is required")
		}
		fields["name"] = name
	}
	if req.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*req.Slug))
		if slug != before.Slug {
			if err := s.checkSlug(slug, id); err != nil {
				return nil, err
			}
		}
		fields["slug"] = slug
	}
	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		if category == "" {
			return nil, validator.New("category", "category is required")
		}
		fields["category"] = category
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ShortDesc != nil {
		fields["short_desc"] = *req.ShortDesc
	}
	if req.Origin != nil {
		fields["origin"] = *req.Origin
	}
	if req.Tags != nil {
		fields["tags"] = pq.StringArray(nonNil(*req.Tags))
	}
	if req.Images != nil {
		fields["images"] = pq.StringArray(nonNil(*req.Images))
	}
	if req.HSNCode != nil {
		fields["hsn_code"] = *req.HSNCode
	}
	if req.GSTRate != nil {
		fields["gst_rate"] = *req.GSTRate
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		fields["is_featured"] = *req.IsFeatured
	}
	if req.SEOTitle != nil {
		fields["seo_title"] = *req.SEOTitle
	}
	if req.SEODesc != nil {
		fields["seo_desc"] = *req.SEODesc
	}
	if len(fields) == 0 {
		return before, nil
	}
	if meta.UserID != nil {
		fields["updated_by"] = meta.UserID.String()
	}

	if err := s.products.UpdateFields(id, fields); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "product", id.String(), map[string]interface{}{
		"name":      before.Name,
		"slug":      before.Slug,
		"is_active": before.IsActive,
	}, fields))
	return s.Get(id)
}

func (s *productService) Delete(id uuid.UUID, meta RequestMeta) error {
	before, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(id); err != nil {
		if repository.IsNotFound(err) {
			return ErrProductNotFound
		}
		return err
	}
	s.audit.Record(meta.audit(model.ActionDelete, "product", id.String(), map[string]string{
		"name": before.Name,
		"slug": before.Slug,
	}, nil))
	return nil
}

func (s *productService) CreateVariant(productID uuid.UUID, req *VariantRequest, meta RequestMeta) (*model.ProductVariant, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(productID); err != nil {
		return nil, err
	}
	if err := s.checkSKU(req.SKU, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkLot(req.LotID); err != nil {
		return nil, err
	}

	v := &model.ProductVariant{ProductID: productID, IsActive: true}
	req.apply(v)
	if err := s.products.CreateVariant(v); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSKUExists
		}
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionCreate, "variant", v.ID.String(), nil, map[string]interface{}{
		"product_id": productID,
		"sku":        v.SKU,
		"price_inr":  v.PriceINR,
	}))
	return v, nil
}

func (s *productService) UpdateVariant(id uuid.UUID, req *VariantRequest, meta RequestMeta) (*model.ProductVariant, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	v, err := s.products.FindVariantByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.SKU), v.SKU) {
		if err := s.checkSKU(req.SKU, id); err != nil {
			return nil, err
		}
	}
	if err := s.checkLot(req.LotID); err != nil {
		return nil, err
	}

	before := map[string]interface{}{"sku": v.SKU, "price_inr": v.PriceINR, "stock_qty": v.StockQty}
	req.apply(v)
	if err := s.products.UpdateVariant(v); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSKUExists
		}
		return nil, err
	}
	s.audit.Record(meta.audit(model.ActionUpdate, "variant", id.String(), before, map[string]interface{}{
		"sku":       v.SKU,
		"price_inr": v.PriceINR,
		"stock_qty": v.StockQty,
	}))
	return v, nil
}
