package models

import "time"

type ClientType string

const (
	ClientDirect ClientType = "Direct"
	ClientVendor ClientType = "Vendor"
)

type ClientStatus string

const (
	ClientLead     ClientStatus = "Lead"
	ClientActive   ClientStatus = "Active"
	ClientInactive ClientStatus = "Inactive"
	ClientLost     ClientStatus = "Lost"
)

// Client is a confirmed customer. PortalAccessID is issued once and never rewritten.
type Client struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	WhatsApp       string       `json:"whatsapp,omitempty"`
	Instagram      string       `json:"instagram,omitempty"`
	ClientType     ClientType   `json:"client_type"`
	Status         ClientStatus `json:"status"`
	Since          time.Time    `json:"since"`
	LastContact    time.Time    `json:"last_contact"`
	PortalAccessID string       `json:"portal_access_id"`
}
