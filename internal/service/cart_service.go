package service

import (
	"fmt"
	"time"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const maxLineQuantity = 100

type CartLine struct {
	ID           uuid.UUID       `json:"id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	VariantName  string          `json:"variant_name"`
	SKU          string          `json:"sku"`
	Image        string          `json:"image,omitempty"`
	WeightGrams  int             `json:"weight_grams"`
	Quantity     int             `json:"quantity"`
	StockQty     int             `json:"stock_qty"`
	UnitPriceINR decimal.Decimal `json:"unit_price_inr"`
	LineTotalINR decimal.Decimal `json:"line_total_inr"`
	UnitPrice    Price           `json:"unit_price"`
	LineTotal    Price           `json:"line_total"`
}

type CartView struct {
	ID          uuid.UUID       `json:"id"`
	Items       []CartLine      `json:"items"`
	ItemCount   int             `json:"item_count"`
	WeightGrams int             `json:"weight_grams"`
	SubtotalINR decimal.Decimal `json:"subtotal_inr"`
	Subtotal    Price           `json:"subtotal"`
	Currency    string          `json:"currency"`
}

type AddCartItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0,lte=100"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=100"`
}

type WishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
}

type WishlistEntry struct {
	Product ProductView `json:"product"`
	AddedAt time.Time   `json:"added_at"`
}

type WishlistView struct {
	Items []WishlistEntry `json:"items"`
	Count int             `json:"count"`
}

type CartService interface {
	Get(user *model.User, currencyCode string) (*CartView, error)
	AddItem(user *model.User, req *AddCartItemRequest) (*CartView, error)
	UpdateItem(user *model.User, itemID uuid.UUID, req *UpdateCartItemRequest) (*CartView, error)
	RemoveItem(user *model.User, itemID uuid.UUID) (*CartView, error)
	Clear(user *model.User) error

	Wishlist(user *model.User, currencyCode string) (*WishlistView, error)
	AddToWishlist(user *model.User, req *WishlistRequest) error
	RemoveFromWishlist(user *model.User, productID uuid.UUID) error
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	rates    CurrencyService
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, rates CurrencyService) CartService {
	return &cartService{carts: carts, products: products, rates: rates}
}

func (s *cartService) Get(user *model.User, currencyCode string) (*CartView, error) {
	cart, err := s.carts.GetOrCreate(user.ID)
	if err != nil {
		return nil, err
	}
	return cartView(cart, newPricer(s.rates, currencyCode, user)), nil
}

func (s *cartService) AddItem(user *model.User, req *AddCartItemRequest) (*CartView, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	variant, err := s.products.FindVariantByID(req.VariantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if !variant.IsActive || variant.Product == nil || !variant.Product.IsActive {
		return nil, invalid("This product is no longer available")
	}

	cart, err := s.carts.GetOrCreate(user.ID)
	if err != nil {
		return nil, err
	}
	inCart := 0
	if line, ok := lo.Find(cart.Items, func(it model.CartItem) bool { return it.VariantID == variant.ID }); ok {
		inCart = line.Quantity
	}
	if err := checkStock(variant, inCart+req.Quantity); err != nil {
		return nil, err
	}

	if _, err := s.carts.AddItem(cart.ID, variant.ID, req.Quantity); err != nil {
		return nil, err
	}
	return s.Get(user, "")
}

// UpdateItem sets the line quantity; zero removes the line.
func (s *cartService) UpdateItem(user *model.User, itemID uuid.UUID, req *UpdateCartItemRequest) (*CartView, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	if req.Quantity == 0 {
		return s.RemoveItem(user, itemID)
	}

	cart, err := s.carts.GetOrCreate(user.ID)
	if err != nil {
		return nil, err
	}
	item, err := s.carts.FindItem(cart.ID, itemID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.Variant != nil {
		if err := checkStock(item.Variant, req.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.carts.SetQuantity(item.ID, req.Quantity); err != nil {
		return nil, err
	}
	return s.Get(user, "")
}

func (s *cartService) RemoveItem(user *model.User, itemID uuid.UUID) (*CartView, error) {
	cart, err := s.carts.GetOrCreate(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(cart.ID, itemID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return s.Get(user, "")
}

func (s *cartService) Clear(user *model.User) error {
	cart, err := s.carts.GetOrCreate(user.ID)
	if err != nil {
		return err
	}
	return s.carts.Clear(nil, cart.ID)
}

func (s *cartService) Wishlist(user *model.User, currencyCode string) (*WishlistView, error) {
	items, err := s.carts.ListWishlist(user.ID)
	if err != nil {
		return nil, err
	}
	p := newPricer(s.rates, currencyCode, user)
	entries := make([]WishlistEntry, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		entries = append(entries, WishlistEntry{Product: productView(it.Product, p), AddedAt: it.CreatedAt})
	}
	return &WishlistView{Items: entries, Count: len(entries)}, nil
}

func (s *cartService) AddToWishlist(user *model.User, req *WishlistRequest) error {
	if err := validator.FirstError(req); err != nil {
		return err
	}
	product, err := s.products.FindByID(req.ProductID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrProductNotFound
		}
		return err
	}
	if !product.IsActive {
		return ErrProductNotFound
	}
	return s.carts.AddWishlist(user.ID, product.ID)
}

func (s *cartService) RemoveFromWishlist(user *model.User, productID uuid.UUID) error {
	if err := s.carts.RemoveWishlist(user.ID, productID); err != nil {
		if repository.IsNotFound(err) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

func checkStock(v *model.ProductVariant, qty int) error {
	if v.StockQty <= 0 {
		return invalid("This item is out of stock")
	}
	if qty > v.StockQty {
		return invalid(fmt.Sprintf("Only %d left in stock", v.StockQty))
	}
	if qty > maxLineQuantity {
		return invalid(fmt.Sprintf("You can add at most %d of an item", maxLineQuantity))
	}
	return nil
}

// cartView prices each line. Lines whose variant was removed are left out.
func cartView(cart *model.Cart, p pricer) *CartView {
	view := &CartView{ID: cart.ID, Items: []CartLine{}, Currency: p.code, SubtotalINR: decimal.Zero}
	for _, it := range cart.Items {
		v := it.Variant
		if v == nil || v.Product == nil {
			continue
		}
		unit := v.PriceFor(p.wholesale)
		total := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		line := CartLine{
			ID:           it.ID,
			VariantID:    v.ID,
			ProductID:    v.ProductID,
			ProductName:  v.Product.Name,
			ProductSlug:  v.Product.Slug,
			VariantName:  v.Name,
			SKU:          v.SKU,
			WeightGrams:  v.WeightGrams,
			Quantity:     it.Quantity,
			StockQty:     v.StockQty,
			UnitPriceINR: unit,
			LineTotalINR: total,
			UnitPrice:    p.price(unit),
			LineTotal:    p.price(total),
		}
		if len(v.Product.Images) > 0 {
			line.Image = v.Product.Images[0]
		}
		view.Items = append(view.Items, line)
		view.ItemCount += it.Quantity
		view.WeightGrams += v.WeightGrams * it.Quantity
		view.SubtotalINR = view.SubtotalINR.Add(total)
	}
	view.Subtotal = p.price(view.SubtotalINR)
	return view
}
