package seed

import (
	"time"

	"newhill-spices/internal/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// Lots are the harvest batches the sample products draw from.
func Lots() []model.Lot {
	return []model.Lot{
		{
			BatchCode: "LOT-CARD-001", OriginEstate: "Munnar Hills Estate",
			HarvestedOn: date(2024, 10, 15), BestBefore: date(2025, 10, 15),
			QCNotes: "Premium grade cardamom, excellent aroma", TotalQty: 1000, AvailableQty: 1000,
		},
		{
			BatchCode: "LOT-PEPPER-001", OriginEstate: "Wayanad Spice Garden",
			HarvestedOn: date(2024, 9, 20), BestBefore: date(2026, 9, 20),
			QCNotes: "High piperine content, bold flavor", TotalQty: 500, AvailableQty: 500,
		},
		{
			BatchCode: "LOT-CINN-001", OriginEstate: "Kerala Spice Co-op",
			HarvestedOn: date(2024, 11, 1), BestBefore: date(2027, 11, 1),
			QCNotes: "True Ceylon cinnamon, sweet and mild", TotalQty: 300, AvailableQty: 300,
		},
	}
}

type variantSeed struct {
	sku       string
	name      string
	grams     int
	price     int64
	mrp       int64
	packaging string
	stock     int
}

type productSeed struct {
	product  model.Product
	lotCode  string
	variants []variantSeed
}

func (p productSeed) build(lotIDs map[string]*model.Lot) model.Product {
	product := p.product
	product.IsActive = true
	product.GSTRate = decimal.NewFromInt(5)
	product.Variants = nil
	for _, v := range p.variants {
		variant := model.ProductVariant{
			SKU:         v.sku,
			Name:        v.name,
			WeightGrams: v.grams,
			PriceINR:    decimal.NewFromInt(v.price),
			MRPINR:      decimal.NewFromInt(v.mrp),
			Packaging:   v.packaging,
			StockQty:    v.stock,
			LowStockQty: 10,
			IsActive:    true,
		}
		if variant.Packaging == "" {
			variant.Packaging = "pouch"
		}
		// Wholesale tier sits 15% under retail.
		wholesale := variant.PriceINR.Mul(decimal.RequireFromString("0.85")).Round(2)
		variant.WholesalePriceINR = &wholesale
		if lot, ok := lotIDs[p.lotCode]; ok {
			id := lot.ID
			variant.LotID = &id
		}
		product.Variants = append(product.Variants, variant)
	}
	return product
}

func productSeeds() []productSeed {
	return []productSeed{
		{
			product: model.Product{
				Name: "Premium Green Cardamom", Slug: "premium-green-cardamom",
				Description: "Finest quality green cardamom pods from the hills of Munnar. Hand-picked for maximum aroma and flavor.",
				ShortDesc:   "Premium quality green cardamom pods", Origin: "Munnar Hills, Kerala", Category: "spices",
				Tags: pq.StringArray{"cardamom", "premium", "organic", "kerala"}, HSNCode: "09083100", IsFeatured: true,
				Images: pq.StringArray{"https://images.pexels.com/photos/4198943/pexels-photo-4198943.jpeg?auto=compress&cs=tinysrgb&w=800"},
			},
			lotCode: "LOT-CARD-001",
			variants: []variantSeed{
				{"CARD-50G", "50g Pouch", 50, 450, 500, "", 100},
				{"CARD-100G", "100g Pouch", 100, 850, 950, "", 75},
				{"CARD-250G", "250g Jar", 250, 2000, 2200, "jar", 50},
				{"CARD-500G", "500g Box", 500, 3800, 4200, "box", 25},
			},
		},
		{
			product: model.Product{
				Name: "Black Pepper Whole", Slug: "black-pepper-whole",
				Description: "Premium black pepper corns with high piperine content. Perfect for grinding fresh or using whole in cooking.",
				ShortDesc:   "Whole black pepper corns", Origin: "Wayanad, Kerala", Category: "spices",
				Tags: pq.StringArray{"black-pepper", "piperine", "whole", "kerala"}, HSNCode: "09041100", IsFeatured: true,
				Images: pq.StringArray{"https://images.pexels.com/photos/4198935/pexels-photo-4198935.jpeg?auto=compress&cs=tinysrgb&w=800"},
			},
			lotCode: "LOT-PEPPER-001",
			variants: []variantSeed{
				{"PEPPER-100G", "100g Pouch", 100, 180, 200, "", 150},
				{"PEPPER-250G", "250g Jar", 250, 420, 470, "jar", 100},
				{"PEPPER-500G", "500g Box", 500, 800, 900, "box", 60},
				{"PEPPER-1KG", "1kg Box", 1000, 1500, 1700, "box", 30},
			},
		},
		{
			product: model.Product{
				Name: "Ceylon Cinnamon Sticks", Slug: "ceylon-cinnamon-sticks",
				Description: "Authentic Ceylon cinnamon sticks with sweet, delicate flavor. Perfect for desserts and tea.",
				ShortDesc:   "True Ceylon cinnamon sticks", Origin: "Kerala Spice Gardens", Category: "spices",
				Tags: pq.StringArray{"cinnamon", "ceylon", "sticks", "sweet"}, HSNCode: "09061100", IsFeatured: true,
				Images: pq.StringArray{"https://images.pexels.com/photos/4198925/pexels-photo-4198925.jpeg?auto=compress&cs=tinysrgb&w=800"},
			},
			lotCode: "LOT-CINN-001",
			variants: []variantSeed{
				{"CINN-50G", "50g Pouch", 50, 120, 140, "", 120},
				{"CINN-100G", "100g Jar", 100, 220, 250, "jar", 80},
				{"CINN-250G", "250g Box", 250, 520, 580, "box", 40},
			},
		},
		{
			product: model.Product{
				Name: "Organic Turmeric Powder", Slug: "organic-turmeric-powder",
				Description: "Certified organic turmeric powder with high curcumin content. Freshly ground from Kerala turmeric.",
				ShortDesc:   "Organic turmeric powder", Origin: "Certified Organic Farms", Category: "spices",
				Tags: pq.StringArray{"turmeric", "organic", "curcumin", "powder"}, HSNCode: "09103000", IsFeatured: true,
				Images: pq.StringArray{"https://images.pexels.com/photos/4198937/pexels-photo-4198937.jpeg?auto=compress&cs=tinysrgb&w=800"},
			},
			variants: []variantSeed{
				{"TURM-100G", "100g Pouch", 100, 90, 110, "", 200},
				{"TURM-250G", "250g Jar", 250, 200, 240, "jar", 150},
				{"TURM-500G", "500g Box", 500, 380, 450, "box", 80},
				{"TURM-1KG", "1kg Box", 1000, 720, 850, "box", 50},
			},
		},
		{
			product: model.Product{
				Name: "Whole Cloves", Slug: "whole-cloves",
				Description: "Premium quality whole cloves with intense aroma and flavor. Perfect for both sweet and savory dishes.",
				ShortDesc:   "Premium whole cloves", Origin: "Kerala Hill Stations", Category: "spices",
				Tags: pq.StringArray{"cloves", "whole", "aromatic", "kerala"}, HSNCode: "09070000",
				Images: pq.StringArray{"https://images.pexels.com/photos/5946080/pexels-photo-5946080.jpeg?auto=compress&cs=tinysrgb&w=800"},
			},
			variants: []variantSeed{
				{"CLOVE-50G", "50g Pouch", 50, 280, 320, "", 80},
				{"CLOVE-100G", "100g Jar", 100, 520, 580, "jar", 60},
				{"CLOVE-250G", "250g Box", 250, 1200, 1350, "box", 30},
			},
		},
		{
			product: model.Product{
				Name: "Whole Nutmeg", Slug: "whole-nutmeg",
				Description: "Fresh whole nutmeg with rich, warm flavor. Grate fresh for maximum potency in your cooking.",
				ShortDesc:   "Premium whole nutmeg", Origin: "Kerala Spice Plantations", Category: "spices",
				Tags: pq.StringArray{"nutmeg", "whole", "fresh", "warm-spice"}, HSNCode: "09080100",
				Images: pq.StringArray{"https://images.pexels.com/photos/4198949/pexels-photo-4198949.jpeg?auto=compress&cs=tinysrgb&w=800"},
			},
			variants: []variantSeed{
				{"NUTMEG-25G", "25g Pouch", 25, 180, 210, "", 50},
				{"NUTMEG-50G", "50g Jar", 50, 340, 380, "jar", 40},
				{"NUTMEG-100G", "100g Box", 100, 650, 720, "box", 25},
			},
		},
	}
}

// Products builds the sample catalog, linking variants to the given lots by batch code.
func Products(lots []model.Lot) []model.Product {
	byCode := make(map[string]*model.Lot, len(lots))
	for i := range lots {
		byCode[lots[i].BatchCode] = &lots[i]
	}
	seeds := productSeeds()
	out := make([]model.Product, len(seeds))
	for i, s := range seeds {
		out[i] = s.build(byCode)
	}
	return out
}

// DiscountCodes are valid for a year from now.
func DiscountCodes(now time.Time) []model.DiscountCode {
	until := now.AddDate(1, 0, 0)
	welcomeCap := decimal.NewFromInt(200)
	return []model.DiscountCode{
		{
			Code: "WELCOME10", Type: model.DiscountPercentage, Value: decimal.NewFromInt(10),
			MinOrderINR: decimal.NewFromInt(500), MaxDiscountINR: &welcomeCap,
			UsageLimit: 1000, UserLimit: 1, ValidFrom: &now, ValidUntil: &until, IsActive: true,
		},
		{
			Code: "BULK500", Type: model.DiscountFixed, Value: decimal.NewFromInt(500),
			MinOrderINR: decimal.NewFromInt(5000),
			UsageLimit:  100, UserLimit: 3, ValidFrom: &now, ValidUntil: &until, IsActive: true,
		},
	}
}

func flag(key string, enabled bool, desc string) model.SystemSetting {
	return model.SystemSetting{Key: key, Value: model.JSONB{"enabled": enabled}, Description: desc}
}

func Settings() []model.SystemSetting {
	return []model.SystemSetting{
		flag("multiLang", true, "Show the language switcher"),
		flag("multiCurrency", true, "Show prices in the visitor's currency"),
		flag("enableB2B", true, "Accept wholesale account applications"),
		flag("allowGuestCheckout", false, "Allow checkout without an account"),
		flag("enableNewsletter", true, "Show the newsletter signup"),
		flag("enableSubscriptions", false, "Offer repeat-delivery subscriptions"),
		flag("enableGCCShipping", true, "Ship to Qatar, UAE, Saudi Arabia and Oman"),
		{Key: "freeShippingThresholdINR", Value: model.JSONB{"amount": 999}, Description: "Domestic orders at or above this subtotal ship free"},
	}
}

func Translations() []model.TranslationKey {
	return []model.TranslationKey{
		{Key: "nav.products", EN: "Products", HI: "उत्पादों", TA: "பொருட்கள்", KN: "ಉತ್ಪನ್ನಗಳು", AR: "منتجات"},
		{Key: "nav.about", EN: "About", HI: "के बारे में", TA: "பற்றி", KN: "ಬಗ್ಗೆ", AR: "حول"},
		{Key: "nav.contact", EN: "Contact", HI: "संपर्क करें", TA: "தொடர்பு", KN: "ಸಂಪರ್ಕಿಸಿ", AR: "اتصل"},
		{Key: "product.addToCart", EN: "Add to Cart", HI: "कार्ट में जोड़ें", TA: "வண்டியில் சேர்", KN: "ಕಾರ್ಟ್‌ಗೆ ಸೇರಿಸಿ", AR: "أضف إلى السلة"},
	}
}
