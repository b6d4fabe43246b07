package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vena/internal/models"
	"vena/internal/services"
	"vena/internal/utils"
)

const defaultMaxProofBytes = 5 << 20

var (
	notFoundErrs = []error{
		services.ErrLeadNotFound, services.ErrClientNotFound, services.ErrProjectNotFound,
		services.ErrTransactionNotFound, services.ErrNotificationNotFound,
		services.ErrPackageNotFound, services.ErrPromoNotFound,
	}
	conflictErrs = []error{
		services.ErrLeadTerminal, services.ErrInvalidTransition, services.ErrConversionRequired,
		services.ErrConversionInProgress, services.ErrLeadChanged, services.ErrNotABooking,
		services.ErrPromoExhausted, services.ErrDuplicatePromoCode, services.ErrEmailTaken,
	}
	badRequestErrs = []error{
		models.ErrValidation, services.ErrMissingPackage, services.ErrCardNotFound,
		utils.ErrProofTooLarge, utils.ErrProofType, utils.ErrProofEmpty,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps service errors to a status code. Unknown errors are logged
// with tag and hidden behind a generic message.
func writeError(c *gin.Context, tag string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case isAny(err, badRequestErrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case isAny(err, notFoundErrs):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isAny(err, conflictErrs):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		log.Printf("[%s] internal error: %v", tag, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

// bindBooking reads a booking request. A JSON body is bound into body as is. A multipart
// body carries the booking as JSON in the "booking" field, decoded into booking, plus an
// optional "deposit_proof" file stored on booking as a data URL.
func bindBooking(c *gin.Context, body any, booking *models.BookingForm, maxProofBytes int64) error {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(body); err != nil {
			return &models.ValidationError{Field: "booking", Message: err.Error()}
		}
		return nil
	}

	raw := c.PostForm("booking")
	if raw == "" {
		return &models.ValidationError{Field: "booking", Message: "booking field is required"}
	}
	if err := json.Unmarshal([]byte(raw), booking); err != nil {
		return &models.ValidationError{Field: "booking", Message: "booking must be valid JSON"}
	}

	fh, err := c.FormFile("deposit_proof")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return &models.ValidationError{Field: "deposit_proof", Message: err.Error()}
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	if maxProofBytes <= 0 {
		maxProofBytes = defaultMaxProofBytes
	}
	booking.DepositProof, err = utils.EncodeProof(f, maxProofBytes)
	return err
}
