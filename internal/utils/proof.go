package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrProofTooLarge = errors.New("payment proof is too large")
	ErrProofType     = errors.New("payment proof must be an image or PDF")
	ErrProofEmpty    = errors.New("payment proof is empty")
)

// EncodeProof reads an uploaded payment proof and returns it as a data URL.
// Only images and PDFs up to maxBytes are accepted.
func EncodeProof(r io.Reader, maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read payment proof: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", ErrProofTooLarge
	}
	if len(data) == 0 {
		return "", ErrProofEmpty
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") && !mt.Is("application/pdf") {
		return "", ErrProofType
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
