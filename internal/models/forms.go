package models

import (
	"strings"
	"time"
)

type AddLeadForm struct {
	Name           string         `json:"name" binding:"required"`
	ContactChannel ContactChannel `json:"contact_channel"`
	Location       string         `json:"location"`
	Notes          string         `json:"notes"`
	WhatsApp       string         `json:"whatsapp"`
}

func (f *AddLeadForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return invalid("name", "name is required")
	}
	if f.ContactChannel == "" {
		f.ContactChannel = ChannelOther
	}
	if !f.ContactChannel.Valid() {
		return invalid("contact_channel", "unknown contact channel")
	}
	return nil
}

type EditLeadForm struct {
	ID             string         `json:"-"`
	Name           string         `json:"name" binding:"required"`
	ContactChannel ContactChannel `json:"contact_channel"`
	Location       string         `json:"location"`
	Notes          string         `json:"notes"`
	WhatsApp       string         `json:"whatsapp"`
}

func (f *EditLeadForm) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return invalid("id", "lead id is required")
	}
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return invalid("name", "name is required")
	}
	if f.ContactChannel != "" && !f.ContactChannel.Valid() {
		return invalid("contact_channel", "unknown contact channel")
	}
	return nil
}

// BookingForm carries everything needed to turn an inquiry into a client and project.
// It is used directly by public bookings and wrapped by ConvertLeadForm for vendor conversions.
type BookingForm struct {
	ClientName        string     `json:"client_name" binding:"required"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	WhatsApp          string     `json:"whatsapp"`
	Instagram         string     `json:"instagram"`
	ClientType        ClientType `json:"client_type"`
	ProjectName       string     `json:"project_name"`
	ProjectType       string     `json:"project_type"`
	Location          string     `json:"location"`
	EventDate         time.Time  `json:"event_date"`
	PackageID         string     `json:"package_id"`
	AddOnIDs          []string   `json:"add_on_ids"`
	PromoCode         string     `json:"promo_code"`
	DepositAmount     float64    `json:"deposit_amount"`
	DestinationCardID string     `json:"destination_card_id"`
	PaymentReference  string     `json:"payment_reference"`
	DepositProof      string     `json:"-"` // data URL, filled from the uploaded proof
	Notes             string     `json:"notes"`
}

func (f *BookingForm) Validate() error {
	f.ClientName = strings.TrimSpace(f.ClientName)
	if f.ClientName == "" {
		return invalid("client_name", "client name is required")
	}
	if strings.TrimSpace(f.PackageID) == "" {
		return invalid("package_id", "select a package")
	}
	if f.Email != "" && !strings.Contains(f.Email, "@") {
		return invalid("email", "invalid email address")
	}
	if f.DepositAmount < 0 {
		return invalid("deposit_amount", "deposit cannot be negative")
	}
	if f.DepositAmount > 0 && strings.TrimSpace(f.DestinationCardID) == "" {
		return invalid("destination_card_id", "select the card that received the deposit")
	}
	if f.ClientType == "" {
		f.ClientType = ClientDirect
	}
	if f.ClientType != ClientDirect && f.ClientType != ClientVendor {
		return invalid("client_type", "unknown client type")
	}
	f.PromoCode = strings.TrimSpace(f.PromoCode)
	return nil
}

type ConvertLeadForm struct {
	LeadID  string      `json:"-"`
	Booking BookingForm `json:"booking"`
}

func (f *ConvertLeadForm) Validate() error {
	if strings.TrimSpace(f.LeadID) == "" {
		return invalid("lead_id", "lead id is required")
	}
	return f.Booking.Validate()
}
