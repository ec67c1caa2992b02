package service

import "errors"

type Kind int

const (
	KindInvalid Kind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindUnavailable
)

// Error is a failure whose message is safe to show to the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func invalid(msg string) error  { return &Error{Kind: KindInvalid, Message: msg} }
func notFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }
func conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }
func unavailable(msg string) error {
	return &Error{Kind: KindUnavailable, Message: msg}
}

var (
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid email or password"}
	ErrUserInactive       = &Error{Kind: KindForbidden, Message: "User account is inactive"}
	ErrSessionExpired     = &Error{Kind: KindUnauthorized, Message: "Session expired"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "User with this email already exists"}
	ErrSlugExists         = &Error{Kind: KindConflict, Message: "A product with this slug already exists"}
	ErrSKUExists          = &Error{Kind: KindConflict, Message: "A variant with this SKU already exists"}
	ErrBatchCodeExists    = &Error{Kind: KindConflict, Message: "A lot with this batch code already exists"}
	ErrDiscountCodeExists = &Error{Kind: KindConflict, Message: "A discount with this code already exists"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrProductNotFound    = &Error{Kind: KindNotFound, Message: "Product not found"}
	ErrVariantNotFound    = &Error{Kind: KindNotFound, Message: "Variant not found"}
	ErrLotNotFound        = &Error{Kind: KindNotFound, Message: "Lot not found"}
	ErrAddressNotFound    = &Error{Kind: KindNotFound, Message: "Address not found"}
	ErrCartItemNotFound   = &Error{Kind: KindNotFound, Message: "Cart item not found"}
	ErrOrderNotFound      = &Error{Kind: KindNotFound, Message: "Order not found"}
	ErrPaymentNotFound    = &Error{Kind: KindNotFound, Message: "Payment not found"}
	ErrDiscountNotFound   = &Error{Kind: KindNotFound, Message: "Discount code not found"}
	ErrBusinessNotFound   = &Error{Kind: KindNotFound, Message: "Business account not found"}
	ErrSettingNotFound    = &Error{Kind: KindNotFound, Message: "Setting not found"}
	ErrTranslationMissing = &Error{Kind: KindNotFound, Message: "Translation key not found"}
	ErrEmptyCart          = &Error{Kind: KindInvalid, Message: "Cart is empty"}
	ErrPaymentFailed      = &Error{Kind: KindInvalid, Message: "Payment verification failed"}
	ErrInvalidDiscount    = &Error{Kind: KindInvalid, Message: "Invalid discount code"}
	ErrDiscountExpired    = &Error{Kind: KindInvalid, Message: "Discount code has expired"}
	ErrDiscountExhausted  = &Error{Kind: KindInvalid, Message: "Discount code usage limit reached"}
	ErrDiscountUserLimit  = &Error{Kind: KindInvalid, Message: "You have already used this discount code"}
	ErrBusinessExists     = &Error{Kind: KindConflict, Message: "A business account already exists for this user"}
	ErrOAuthDisabled      = &Error{Kind: KindInvalid, Message: "Google sign-in is not configured"}
	ErrNotDispatched      = &Error{Kind: KindInvalid, Message: "Order has not been dispatched yet"}
	ErrShippingRegion     = &Error{Kind: KindInvalid, Message: "We do not ship to this country yet"}
	ErrGatewayDown        = &Error{Kind: KindUnavailable, Message: "Payment provider is unavailable, please try again"}
)

// KindOf returns the error's Kind, or 0 for internal failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
