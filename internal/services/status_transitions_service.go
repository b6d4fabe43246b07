package services

import "vena/internal/models"

// Allowed lead transitions. Converted is only reachable through ConversionService.
var LeadTransitions = map[models.LeadStatus]map[models.LeadStatus]bool{
	models.LeadDiscussion: {models.LeadFollowUp: true, models.LeadConverted: true, models.LeadRejected: true},
	models.LeadFollowUp:   {models.LeadConverted: true, models.LeadRejected: true},
	models.LeadConverted:  {},
	models.LeadRejected:   {},
}

// Booking transitions exist only for projects created from public bookings.
var BookingTransitions = map[models.BookingStatus]map[models.BookingStatus]bool{
	models.BookingNew:       {models.BookingConfirmed: true, models.BookingRejected: true},
	models.BookingConfirmed: {},
	models.BookingRejected:  {},
}

func canTransition[S comparable](current, to S, table map[S]map[S]bool) bool {
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}
