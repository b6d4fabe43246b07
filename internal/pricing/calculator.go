// Package pricing computes booking totals from a package, its add-ons and an optional promo code.
package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vena/internal/models"
)

type PromoStatus string

const (
	PromoNone      PromoStatus = ""
	PromoApplied   PromoStatus = "applied"
	PromoNotFound  PromoStatus = "not_found"
	PromoInactive  PromoStatus = "inactive"
	PromoExpired   PromoStatus = "expired"
	PromoExhausted PromoStatus = "exhausted"
)

var promoMessages = map[PromoStatus]string{
	PromoApplied:   "promo code applied",
	PromoNotFound:  "promo code not found",
	PromoInactive:  "promo code is no longer active",
	PromoExpired:   "promo code has expired",
	PromoExhausted: "promo code usage limit reached",
}

// Request is the input of a single pricing run.
type Request struct {
	Package   models.Package
	AddOns    []models.AddOn
	PromoCode string            // as typed by the user
	Promo     *models.PromoCode // resolved record, nil when the code is unknown
	Deposit   float64
}

type Breakdown struct {
	PackagePrice    float64     `json:"package_price"`
	AddOnsTotal     float64     `json:"add_ons_total"`
	Subtotal        float64     `json:"subtotal"`
	DiscountAmount  float64     `json:"discount_amount"`
	DiscountDisplay string      `json:"discount_display,omitempty"`
	Total           float64     `json:"total"`
	Deposit         float64     `json:"deposit"`
	Remaining       float64     `json:"remaining"`
	Promo           PromoStatus `json:"promo_status,omitempty"`
	PromoMessage    string      `json:"promo_message,omitempty"`
	PromoCodeID     string      `json:"promo_code_id,omitempty"`
}

// PromoApplied reports whether a discount was granted.
func (b Breakdown) PromoApplied() bool { return b.Promo == PromoApplied }

type Calculator struct {
	now func() time.Time
}

// NewCalculator returns a calculator using now as its clock; nil means time.Now.
func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Compute is pure apart from reading the clock for promo expiry.
func (c *Calculator) Compute(req Request) Breakdown {
	pkgPrice := decimal.NewFromFloat(req.Package.Price)
	addOns := decimal.Zero
	for _, a := range req.AddOns {
		addOns = addOns.Add(decimal.NewFromFloat(a.Price))
	}
	subtotal := pkgPrice.Add(addOns)

	status := c.CheckPromo(req.PromoCode, req.Promo)
	discount := decimal.Zero
	display := ""
	promoID := ""
	if status == PromoApplied {
		discount, display = discountFor(req.Promo, subtotal)
		promoID = req.Promo.ID
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
		display = FormatRupiah(discount.InexactFloat64())
	}

	total := subtotal.Sub(discount)
	deposit := decimal.NewFromFloat(req.Deposit)

	return Breakdown{
		PackagePrice:    pkgPrice.InexactFloat64(),
		AddOnsTotal:     addOns.InexactFloat64(),
		Subtotal:        subtotal.InexactFloat64(),
		DiscountAmount:  discount.InexactFloat64(),
		DiscountDisplay: display,
		Total:           total.InexactFloat64(),
		Deposit:         deposit.InexactFloat64(),
		Remaining:       total.Sub(deposit).InexactFloat64(),
		Promo:           status,
		PromoMessage:    promoMessages[status],
		PromoCodeID:     promoID,
	}
}

// CheckPromo classifies a promo code. The usage cap is checked first so an
// exhausted code never applies, whatever its other flags say.
func (c *Calculator) CheckPromo(code string, promo *models.PromoCode) PromoStatus {
	if promo == nil {
		if strings.TrimSpace(code) == "" {
			return PromoNone
		}
		return PromoNotFound
	}
	switch {
	case promo.Exhausted():
		return PromoExhausted
	case !promo.IsActive:
		return PromoInactive
	case promo.ExpiryDate != nil && c.now().After(*promo.ExpiryDate):
		return PromoExpired
	}
	return PromoApplied
}

func discountFor(p *models.PromoCode, subtotal decimal.Decimal) (decimal.Decimal, string) {
	value := decimal.NewFromFloat(p.DiscountValue)
	if p.DiscountType == models.DiscountPercentage {
		amount := subtotal.Mul(value).Div(decimal.NewFromInt(100)).Round(2)
		return amount, value.String() + "%"
	}
	return value, FormatRupiah(p.DiscountValue)
}

// ResolvePromo finds a promo code by case-insensitive match.
func ResolvePromo(code string, promos []*models.PromoCode) *models.PromoCode {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	for _, p := range promos {
		if strings.EqualFold(p.Code, code) {
			return p
		}
	}
	return nil
}
