package repository

import (
	"newhill-spices/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	GetOrCreate(userID uuid.UUID) (*model.Cart, error)
	FindItem(cartID, itemID uuid.UUID) (*model.CartItem, error)
	AddItem(cartID, variantID uuid.UUID, qty int) (*model.CartItem, error)
	SetQuantity(itemID uuid.UUID, qty int) error
	RemoveItem(cartID, itemID uuid.UUID) error
	Clear(tx *gorm.DB, cartID uuid.UUID) error

	ListWishlist(userID uuid.UUID) ([]model.WishlistItem, error)
	AddWishlist(userID, productID uuid.UUID) error
	RemoveWishlist(userID, productID uuid.UUID) error
}

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) CartRepository {
	return &cartRepo{db}
}

// GetOrCreate returns the user's cart with items, variants and products loaded.
func (r *cartRepo) GetOrCreate(userID uuid.UUID) (*model.Cart, error) {
	cart := model.Cart{UserID: userID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if err != nil {
		return nil, err
	}

	var loaded model.Cart
	err = r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Items.Variant.Product").
		First(&loaded, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &loaded, nil
}

func (r *cartRepo) FindItem(cartID, itemID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.Preload("Variant").First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem merges the quantity into an existing line for the same variant.
func (r *cartRepo) AddItem(cartID, variantID uuid.UUID, qty int) (*model.CartItem, error) {
	item := model.CartItem{CartID: cartID, VariantID: variantID, Quantity: qty}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("cart_items.quantity + ?", qty), "updated_at": gorm.Expr("NOW()")}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}
	var saved model.CartItem
	if err := r.db.First(&saved, "cart_id = ? AND variant_id = ?", cartID, variantID).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *cartRepo) SetQuantity(itemID uuid.UUID, qty int) error {
	return r.db.Model(&model.CartItem{}).Where("id = ?", itemID).Update("quantity", qty).Error
}

// Cart lines are hard-deleted so the (cart, variant) index can be reused.
func (r *cartRepo) RemoveItem(cartID, itemID uuid.UUID) error {
	res := r.db.Unscoped().Delete(&model.CartItem{}, "id = ? AND cart_id = ?", itemID, cartID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepo) Clear(tx *gorm.DB, cartID uuid.UUID) error {
	return conn(r.db, tx).Unscoped().Delete(&model.CartItem{}, "cart_id = ?", cartID).Error
}

func (r *cartRepo) ListWishlist(userID uuid.UUID) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.db.Preload("Product.Variants", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("weight_grams ASC")
	}).Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *cartRepo) AddWishlist(userID, productID uuid.UUID) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.WishlistItem{UserID: userID, ProductID: productID}).Error
}

func (r *cartRepo) RemoveWishlist(userID, productID uuid.UUID) error {
	res := r.db.Delete(&model.WishlistItem{}, "user_id = ? AND product_id = ?", userID, productID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
