package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"newhill-spices/pkg/clock"
)

const (
	tokenTTL       = 24 * time.Hour
	requestTimeout = 20 * time.Second
)

type ShiprocketConfig struct {
	Email          string
	Password       string
	ChannelID      string
	BaseURL        string
	PickupLocation string
	PickupPostcode string
}

// Shiprocket books domestic parcels. The login token is cached for a day.
type Shiprocket struct {
	cfg   ShiprocketConfig
	clock clock.Clock

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewShiprocket(cfg ShiprocketConfig, c clock.Clock) *Shiprocket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://apiv2.shiprocket.in/v1"
	}
	if cfg.PickupLocation == "" {
		cfg.PickupLocation = "Primary"
	}
	return &Shiprocket{cfg: cfg, clock: c}
}

func (s *Shiprocket) Configured() bool {
	return s.cfg.Email != "" && s.cfg.Password != ""
}

func (s *Shiprocket) PickupPostcode() string { return s.cfg.PickupPostcode }

type shiprocketLogin struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (s *Shiprocket) authenticate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.clock.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	var login shiprocketLogin
	code, _, errs := fiber.Post(s.cfg.BaseURL + "/external/auth/login").
		Timeout(requestTimeout).
		JSON(fiber.Map{"email": s.cfg.Email, "password": s.cfg.Password}).
		Struct(&login)
	if len(errs) > 0 && code == 0 {
		return "", fmt.Errorf("%w: auth: %v", ErrCarrier, errs[0])
	}
	if code < 200 || code >= 300 || login.Token == "" {
		return "", fmt.Errorf("%w: auth failed: %s", ErrCarrier, login.Message)
	}

	s.token = login.Token
	s.tokenExpiry = s.clock.Now().Add(tokenTTL)
	return s.token, nil
}

type shiprocketOrderItem struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Units        int             `json:"units"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Discount     decimal.Decimal `json:"discount"`
}

type shiprocketCreated struct {
	OrderID      json.Number `json:"order_id"`
	ShipmentID   json.Number `json:"shipment_id"`
	Status       string      `json:"status"`
	StatusCode   int         `json:"status_code"`
	AWBCode      string      `json:"awb_code"`
	CourierID    json.Number `json:"courier_company_id"`
	CourierName  string      `json:"courier_name"`
	Message      string      `json:"message"`
	OnboardedNow int         `json:"onboarding_completed_now"`
}

func (s *Shiprocket) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	token, err := s.authenticate()
	if err != nil {
		return nil, err
	}

	items := make([]shiprocketOrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = shiprocketOrderItem{Name: it.Name, SKU: it.SKU, Units: it.Quantity, SellingPrice: it.UnitPrice}
	}
	method := req.PaymentMethod
	if method == "" {
		method = "Prepaid"
	}
	a := req.Address
	payload := fiber.Map{
		"order_id":              req.OrderNumber,
		"order_date":            req.OrderDate.Format("2006-01-02 15:04"),
		"pickup_location":       s.cfg.PickupLocation,
		"channel_id":            s.cfg.ChannelID,
		"comment":               "Newhill Spices Order",
		"billing_customer_name": a.FirstName,
		"billing_last_name":     a.LastName,
		"billing_address":       a.Line1,
		"billing_address_2":     a.Line2,
		"billing_city":          a.City,
		"billing_pincode":       a.PostalCode,
		"billing_state":         a.State,
		"billing_country":       "India",
		"billing_email":         a.Email,
		"billing_phone":         a.Phone,
		"shipping_is_billing":   true,
		"order_items":           items,
		"payment_method":        method,
		"shipping_charges":      0,
		"giftwrap_charges":      0,
		"transaction_charges":   0,
		"total_discount":        0,
		"sub_total":             req.TotalValue,
		"length":                15,
		"breadth":               10,
		"height":                10,
		"weight":                kilograms(req.TotalWeightGrams),
	}

	var created shiprocketCreated
	code, body, errs := fiber.Post(s.cfg.BaseURL + "/external/orders/create/adhoc").
		Set(fiber.HeaderAuthorization, "Bearer "+token).
		Timeout(timeoutFrom(ctx)).
		JSON(payload).
		Struct(&created)
	if len(errs) > 0 && code == 0 {
		return nil, fmt.Errorf("%w: create shipment: %v", ErrCarrier, errs[0])
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("%w: create shipment: %d %s", ErrCarrier, code, string(body))
	}

	tracking := created.AWBCode
	if tracking == "" {
		tracking = created.ShipmentID.String()
	}
	return &Shipment{
		Provider:        ProviderShiprocket,
		TrackingNumber:  tracking,
		Courier:         created.CourierName,
		Currency:        "INR",
		ProviderOrderID: created.OrderID.String(),
		ShipmentID:      created.ShipmentID.String(),
	}, nil
}

const shiprocketTimeLayout = "2006-01-02 15:04:05"

// Track reads the nested tracking payload by path; Shiprocket varies field
// types between couriers, so it is not decoded into a struct.
func (s *Shiprocket) Track(ctx context.Context, awb string) (*Tracking, error) {
	token, err := s.authenticate()
	if err != nil {
		return nil, err
	}

	code, body, errs := fiber.Get(s.cfg.BaseURL + "/external/courier/track/awb/" + url.PathEscape(awb)).
		Set(fiber.HeaderAuthorization, "Bearer "+token).
		Timeout(timeoutFrom(ctx)).
		Bytes()
	if len(errs) > 0 || code < 200 || code >= 300 {
		return nil, fmt.Errorf("%w: track %s: status %d", ErrCarrier, awb, code)
	}
	data := gjson.GetBytes(body, "tracking_data")
	if msg := data.Get("error"); msg.Exists() && msg.String() != "" {
		return nil, fmt.Errorf("%w: track %s: %s", ErrCarrier, awb, msg.String())
	}

	t := &Tracking{TrackingNumber: awb, History: []TrackingEvent{}}
	if st := data.Get("shipment_track.0"); st.Exists() {
		t.Status = st.Get("current_status").String()
		t.Location = st.Get("destination").String()
		if edd, err := time.Parse(shiprocketTimeLayout, st.Get("edd").String()); err == nil {
			t.EstimatedDelivery = &edd
		}
	}
	data.Get("shipment_track_activities").ForEach(func(_, act gjson.Result) bool {
		when, _ := time.Parse(shiprocketTimeLayout, act.Get("date").String())
		t.History = append(t.History, TrackingEvent{
			Date:     when,
			Status:   act.Get("activity").String(),
			Location: act.Get("location").String(),
		})
		return true
	})
	return t, nil
}

type shiprocketServiceability struct {
	Status int `json:"status"`
	Data   struct {
		Couriers []struct {
			CourierName string          `json:"courier_name"`
			Rate        decimal.Decimal `json:"rate"`
			ETD         json.Number     `json:"estimated_delivery_days"`
		} `json:"available_courier_companies"`
	} `json:"data"`
}

// Serviceability returns the cheapest courier able to deliver to the postcode.
func (s *Shiprocket) Serviceability(ctx context.Context, pickup, delivery string, weightGrams int, cod decimal.Decimal) (*Estimate, error) {
	token, err := s.authenticate()
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("pickup_postcode", pickup)
	q.Set("delivery_postcode", delivery)
	q.Set("weight", kilograms(weightGrams).String())
	q.Set("cod", cod.String())

	var res shiprocketServiceability
	code, _, errs := fiber.Get(s.cfg.BaseURL + "/external/courier/serviceability").
		QueryString(q.Encode()).
		Set(fiber.HeaderAuthorization, "Bearer "+token).
		Timeout(timeoutFrom(ctx)).
		Struct(&res)
	if len(errs) > 0 || code < 200 || code >= 300 {
		return nil, fmt.Errorf("%w: serviceability: status %d", ErrCarrier, code)
	}
	if len(res.Data.Couriers) == 0 {
		return nil, fmt.Errorf("%w: no courier serves %s", ErrCarrier, delivery)
	}

	best := res.Data.Couriers[0]
	for _, c := range res.Data.Couriers[1:] {
		if c.Rate.LessThan(best.Rate) {
			best = c
		}
	}
	days, _ := strconv.Atoi(best.ETD.String())
	return &Estimate{
		Cost:          best.Rate.Round(2),
		Currency:      "INR",
		EstimatedDays: days,
		Courier:       best.CourierName,
	}, nil
}

func kilograms(grams int) decimal.Decimal {
	return decimal.NewFromInt(int64(grams)).Div(decimal.NewFromInt(1000)).Round(3)
}

func timeoutFrom(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 {
			return d
		}
	}
	return requestTimeout
}
