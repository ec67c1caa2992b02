package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	ShortDesc   string          `gorm:"type:varchar(500)" json:"short_desc"`
	Origin      string          `gorm:"type:varchar(255)" json:"origin"`
	Category    string          `gorm:"type:varchar(100);index;not null" json:"category"`
	Tags        pq.StringArray  `gorm:"type:text[]" json:"tags"`
	HSNCode     string          `gorm:"type:varchar(20)" json:"hsn_code"`
	GSTRate     decimal.Decimal `gorm:"type:decimal(5,2);default:18" json:"gst_rate"`
	Images      pq.StringArray  `gorm:"type:text[]" json:"images"`
	IsActive    bool            `gorm:"default:true;index" json:"is_active"`
	IsFeatured  bool            `gorm:"default:false" json:"is_featured"`
	SEOTitle    string          `gorm:"type:varchar(255)" json:"seo_title"`
	SEODesc     string          `gorm:"type:varchar(500)" json:"seo_desc"`

	Variants []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants"`
}

// ProductVariant is a sellable pack size of a product.
type ProductVariant struct {
	BaseModel
	ProductID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	Product           *Product         `json:"product,omitempty"`
	SKU               string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name              string           `gorm:"type:varchar(255);not null" json:"name"`
	WeightGrams       int              `gorm:"not null" json:"weight_grams"`
	PriceINR          decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price_inr"`
	MRPINR            decimal.Decimal  `gorm:"type:decimal(12,2)" json:"mrp_inr"`
	WholesalePriceINR *decimal.Decimal `gorm:"type:decimal(12,2)" json:"wholesale_price_inr,omitempty"`
	Packaging         string           `gorm:"type:varchar(50);default:'pouch'" json:"packaging"`
	StockQty          int              `gorm:"default:0" json:"stock_qty"`
	LowStockQty       int              `gorm:"default:10" json:"low_stock_qty"`
	IsActive          bool             `gorm:"default:true" json:"is_active"`
	LotID             *uuid.UUID       `gorm:"type:uuid;index" json:"lot_id,omitempty"`
	Lot               *Lot             `json:"lot,omitempty"`
}

// PriceFor returns the unit price a buyer pays; approved wholesale buyers get the wholesale tier.
func (v *ProductVariant) PriceFor(wholesale bool) decimal.Decimal {
	if wholesale && v.WholesalePriceINR != nil && v.WholesalePriceINR.IsPositive() {
		return *v.WholesalePriceINR
	}
	return v.PriceINR
}

func (v *ProductVariant) IsLowStock() bool {
	return v.StockQty <= v.LowStockQty
}

// Lot is a harvested batch of raw spice tracked for traceability.
type Lot struct {
	BaseModel
	BatchCode    string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"batch_code"`
	OriginEstate string     `gorm:"type:varchar(255)" json:"origin_estate"`
	HarvestedOn  *time.Time `gorm:"type:date" json:"harvested_on,omitempty"`
	BestBefore   *time.Time `gorm:"type:date" json:"best_before,omitempty"`
	QCNotes      string     `gorm:"type:text" json:"qc_notes"`
	TotalQty     int        `gorm:"default:0" json:"total_qty"`
	AvailableQty int        `gorm:"default:0" json:"available_qty"`
}
