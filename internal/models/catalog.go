package models

import "time"

type PhysicalItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Package is a priced service bundle offered by the vendor.
type Package struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Price                float64        `json:"price"`
	PhysicalItems        []PhysicalItem `json:"physical_items"`
	DigitalItems         []string       `json:"digital_items"`
	ProcessingTime       string         `json:"processing_time"`
	DefaultPrintingCost  *float64       `json:"default_printing_cost,omitempty"`
	DefaultTransportCost *float64       `json:"default_transport_cost,omitempty"`
	TeamComposition      string         `json:"team_composition,omitempty"`
	CoverImage           string         `json:"cover_image,omitempty"`
}

type AddOn struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type PromoCode struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	IsActive      bool         `json:"is_active"`
	UsageCount    int          `json:"usage_count"`
	MaxUsage      *int         `json:"max_usage,omitempty"`
	ExpiryDate    *time.Time   `json:"expiry_date,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Exhausted reports whether the usage cap has been reached.
func (p *PromoCode) Exhausted() bool {
	return p.MaxUsage != nil && p.UsageCount >= *p.MaxUsage
}
