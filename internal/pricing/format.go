package pricing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way invoices show it, e.g. "Rp 1.350.000".
func FormatRupiah(v float64) string {
	return "Rp " + idPrinter.Sprintf("%d", int64(math.Round(v)))
}
