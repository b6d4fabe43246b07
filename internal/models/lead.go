package models

import "time"

type LeadStatus string

const (
	LeadDiscussion LeadStatus = "Discussion"
	LeadFollowUp   LeadStatus = "FollowUp"
	LeadConverted  LeadStatus = "Converted"
	LeadRejected   LeadStatus = "Rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadConverted || s == LeadRejected
}

type ContactChannel string

const (
	ChannelWhatsApp       ContactChannel = "WhatsApp"
	ChannelInstagram      ContactChannel = "Instagram"
	ChannelWebsite        ContactChannel = "Website"
	ChannelPhone          ContactChannel = "Phone"
	ChannelReferral       ContactChannel = "Referral"
	ChannelSuggestionForm ContactChannel = "SuggestionForm"
	ChannelOther          ContactChannel = "Other"
)

var contactChannels = map[ContactChannel]bool{
	ChannelWhatsApp: true, ChannelInstagram: true, ChannelWebsite: true, ChannelPhone: true,
	ChannelReferral: true, ChannelSuggestionForm: true, ChannelOther: true,
}

func (c ContactChannel) Valid() bool { return contactChannels[c] }

// Lead is a prospective customer inquiry. Leads are never hard-deleted.
type Lead struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	ContactChannel ContactChannel `json:"contact_channel"`
	Location       string         `json:"location"`
	Status         LeadStatus     `json:"status"`
	Date           time.Time      `json:"date"`
	Notes          string         `json:"notes,omitempty"`
	WhatsApp       string         `json:"whatsapp,omitempty"`
}
