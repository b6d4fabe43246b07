package models

import "time"

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Lunas"
	PaymentDeposit PaymentStatus = "DP Terbayar"
	PaymentUnpaid  PaymentStatus = "Belum Bayar"
)

// PaymentStatusFor derives the payment status from the amounts.
// Every write path that touches AmountPaid or TotalCost goes through it.
func PaymentStatusFor(amountPaid, totalCost float64) PaymentStatus {
	switch {
	case amountPaid >= totalCost:
		return PaymentPaid
	case amountPaid > 0:
		return PaymentDeposit
	default:
		return PaymentUnpaid
	}
}

type BookingStatus string

const (
	BookingNew       BookingStatus = "New"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingRejected  BookingStatus = "Rejected"
)

type TeamAssignment struct {
	MemberID string  `json:"member_id"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Fee      float64 `json:"fee"`
}

// Project is a booked engagement. AddOns is a snapshot taken at booking time.
type Project struct {
	ID               string           `json:"id"`
	ProjectName      string           `json:"project_name"`
	ClientName       string           `json:"client_name"`
	ClientID         string           `json:"client_id"`
	ProjectType      string           `json:"project_type"`
	PackageName      string           `json:"package_name"`
	PackageID        string           `json:"package_id"`
	AddOns           []AddOn          `json:"add_ons"`
	Date             time.Time        `json:"date"`
	Location         string           `json:"location"`
	Progress         int              `json:"progress"`
	TotalCost        float64          `json:"total_cost"`
	AmountPaid       float64          `json:"amount_paid"`
	PaymentStatus    PaymentStatus    `json:"payment_status"`
	BookingStatus    BookingStatus    `json:"booking_status,omitempty"`
	PromoCodeID      string           `json:"promo_code_id,omitempty"`
	DiscountAmount   float64          `json:"discount_amount,omitempty"`
	DepositProof     string           `json:"deposit_proof,omitempty"`
	PaymentReference string           `json:"payment_reference,omitempty"`
	Team             []TeamAssignment `json:"team"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Remaining is the unpaid part of the total cost.
func (p *Project) Remaining() float64 {
	return p.TotalCost - p.AmountPaid
}

// RefreshPaymentStatus recomputes PaymentStatus from the current amounts.
func (p *Project) RefreshPaymentStatus() {
	p.PaymentStatus = PaymentStatusFor(p.AmountPaid, p.TotalCost)
}
