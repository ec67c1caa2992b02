package seed

import (
	"regexp"
	"testing"
	"time"

	"newhill-spices/internal/i18n"
	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func TestSampleCatalog(t *testing.T) {
	lots := Lots()
	for i := range lots {
		lots[i].ID = uuid.New()
	}
	products := Products(lots)
	require.Len(t, products, 6)

	skus := map[string]bool{}
	featured := 0
	for _, p := range products {
		assert.Regexp(t, slugRe, p.Slug)
		assert.True(t, p.IsActive, p.Slug)
		assert.Equal(t, "5", p.GSTRate.String(), p.Slug)
		assert.NotEmpty(t, p.HSNCode, p.Slug)
		assert.NotEmpty(t, p.Variants, p.Slug)
		if p.IsFeatured {
			featured++
		}
		for _, v := range p.Variants {
			assert.False(t, skus[v.SKU], "duplicate sku %s", v.SKU)
			skus[v.SKU] = true
			assert.True(t, v.PriceINR.IsPositive(), v.SKU)
			assert.True(t, v.MRPINR.GreaterThanOrEqual(v.PriceINR), v.SKU)
			require.NotNil(t, v.WholesalePriceINR, v.SKU)
			assert.True(t, v.WholesalePriceINR.LessThan(v.PriceINR), v.SKU)
			assert.Contains(t, []string{"pouch", "jar", "box"}, v.Packaging, v.SKU)
		}
	}
	assert.Equal(t, 4, featured)
	assert.Len(t, skus, 21)
}

func TestProductsLinkLotsByBatchCode(t *testing.T) {
	lots := Lots()
	for i := range lots {
		lots[i].ID = uuid.New()
	}
	byCode := map[string]uuid.UUID{}
	for _, l := range lots {
		byCode[l.BatchCode] = l.ID
	}

	for _, p := range Products(lots) {
		for _, v := range p.Variants {
			switch p.Slug {
			case "premium-green-cardamom":
				require.NotNil(t, v.LotID)
				assert.Equal(t, byCode["LOT-CARD-001"], *v.LotID)
			case "black-pepper-whole":
				require.NotNil(t, v.LotID)
				assert.Equal(t, byCode["LOT-PEPPER-001"], *v.LotID)
			case "ceylon-cinnamon-sticks":
				require.NotNil(t, v.LotID)
				assert.Equal(t, byCode["LOT-CINN-001"], *v.LotID)
			default:
				assert.Nil(t, v.LotID, v.SKU)
			}
		}
	}
}

func TestLotsAreConsistent(t *testing.T) {
	for _, l := range Lots() {
		assert.Equal(t, l.TotalQty, l.AvailableQty, l.BatchCode)
		require.NotNil(t, l.HarvestedOn)
		require.NotNil(t, l.BestBefore)
		assert.True(t, l.BestBefore.After(*l.HarvestedOn), l.BatchCode)
	}
}

func TestDiscountCodesValidForAYear(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	codes := DiscountCodes(now)
	require.Len(t, codes, 2)

	welcome := codes[0]
	assert.Equal(t, "WELCOME10", welcome.Code)
	assert.Equal(t, model.DiscountPercentage, welcome.Type)
	require.NotNil(t, welcome.MaxDiscountINR)
	assert.Equal(t, "200", welcome.MaxDiscountINR.String())
	assert.Equal(t, 1, welcome.UserLimit)

	bulk := codes[1]
	assert.Equal(t, model.DiscountFixed, bulk.Type)
	assert.Nil(t, bulk.MaxDiscountINR)
	assert.Equal(t, "5000", bulk.MinOrderINR.String())

	for _, d := range codes {
		assert.True(t, d.InWindow(now), d.Code)
		assert.True(t, d.InWindow(now.AddDate(0, 11, 0)), d.Code)
		assert.False(t, d.InWindow(now.AddDate(1, 0, 1)), d.Code)
	}
}

func TestSettingsAndTranslations(t *testing.T) {
	keys := map[string]model.JSONB{}
	for _, s := range Settings() {
		keys[s.Key] = s.Value
	}
	assert.Equal(t, true, keys["multiLang"]["enabled"])
	assert.Equal(t, false, keys["allowGuestCheckout"]["enabled"])
	assert.Equal(t, 999, keys["freeShippingThresholdINR"]["amount"])

	for _, tr := range Translations() {
		for _, lang := range i18n.Supported {
			assert.NotEmpty(t, tr.Text(lang), "%s/%s", tr.Key, lang)
		}
	}
}
