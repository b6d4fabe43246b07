package services

import "errors"

var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrLeadTerminal         = errors.New("lead is already converted or rejected")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrConversionRequired   = errors.New("use the convert operation to mark a lead as converted")
	ErrConversionInProgress = errors.New("lead conversion already in progress")
	ErrLeadChanged          = errors.New("lead was modified concurrently, reload and retry")

	ErrMissingPackage     = errors.New("select a package")
	ErrCardNotFound       = errors.New("destination card not found")
	ErrPromoExhausted     = errors.New("promo code invalid or exhausted")
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrDuplicatePromoCode = errors.New("promo code already exists")
	ErrPackageNotFound    = errors.New("package not found")

	ErrClientNotFound      = errors.New("client not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrNotABooking         = errors.New("project has no booking status")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)
