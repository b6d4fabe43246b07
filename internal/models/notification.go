package models

import "time"

const (
	IconLead      = "lead"
	IconBooking   = "booking"
	IconPayment   = "payment"
	IconCompleted = "completed"
	IconComment   = "comment"
)

type NotificationLink struct {
	View   string `json:"view"`
	Action string `json:"action,omitempty"`
}

type Notification struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Icon      string            `json:"icon"`
	Link      *NotificationLink `json:"link,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	IsRead    bool              `json:"is_read"`
}
