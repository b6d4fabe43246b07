// Package pdf renders invoices and payment receipts.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"vena/internal/models"
	"vena/internal/pricing"
)

// Generator is implemented by DocumentGenerator; handlers depend on this.
type Generator interface {
	GenerateInvoice(p *models.Project, c *models.Client) (string, error)
	GenerateReceipt(t *models.Transaction, p *models.Project) (string, error)
}

type DocumentGenerator struct {
	RootDir    string // e.g. "./files"
	FontPath   string // TTF with UTF-8 glyphs; empty uses the core Helvetica font
	VendorName string
	fontName   string
	Now        func() time.Time
}

var _ Generator = (*DocumentGenerator)(nil)

func NewDocumentGenerator(rootDir, fontPath, vendorName string) *DocumentGenerator {
	fontName := "Helvetica"
	if fontPath != "" {
		fontName = "DejaVu"
	}
	return &DocumentGenerator{
		RootDir:    filepath.Clean(rootDir),
		FontPath:   fontPath,
		VendorName: vendorName,
		fontName:   fontName,
		Now:        time.Now,
	}
}

// GenerateInvoice writes the invoice of a project and returns the file path.
func (g *DocumentGenerator) GenerateInvoice(p *models.Project, c *models.Client) (string, error) {
	absPath, err := g.ensureTarget(fmt.Sprintf("invoice_%s.pdf", p.ID))
	if err != nil {
		return "", err
	}

	pdf := g.newDocument(fmt.Sprintf("Invoice %s", p.ProjectName))
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s  |  %s", g.VendorName, g.Now().Format("02 Jan 2006")), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.sectionTitle(pdf, "Client")
	g.kvLine(pdf, "Name", c.Name)
	if c.Email != "" {
		g.kvLine(pdf, "Email", c.Email)
	}
	if c.WhatsApp != "" {
		g.kvLine(pdf, "WhatsApp", c.WhatsApp)
	}
	g.hr(pdf)

	g.sectionTitle(pdf, "Project")
	g.kvLine(pdf, "Project", p.ProjectName)
	g.kvLine(pdf, "Event date", p.Date.Format("02 Jan 2006"))
	if p.Location != "" {
		g.kvLine(pdf, "Location", p.Location)
	}
	g.hr(pdf)

	g.sectionTitle(pdf, "Items")
	lines := []string{"Package " + p.PackageName}
	for _, a := range p.AddOns {
		lines = append(lines, fmt.Sprintf("%s: %s", a.Name, pricing.FormatRupiah(a.Price)))
	}
	g.addLines(pdf, lines)
	if p.DiscountAmount > 0 {
		g.kvLine(pdf, "Discount", "- "+pricing.FormatRupiah(p.DiscountAmount))
	}
	g.kvLine(pdf, "Total", pricing.FormatRupiah(p.TotalCost))
	g.kvLine(pdf, "Paid", pricing.FormatRupiah(p.AmountPaid))
	g.kvLine(pdf, "Remaining", pricing.FormatRupiah(p.Remaining()))
	g.kvLine(pdf, "Status", string(p.PaymentStatus))

	g.footer(pdf)
	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// GenerateReceipt writes the receipt of a single transaction. p may be nil.
func (g *DocumentGenerator) GenerateReceipt(t *models.Transaction, p *models.Project) (string, error) {
	absPath, err := g.ensureTarget(fmt.Sprintf("receipt_%s.pdf", t.ID))
	if err != nil {
		return "", err
	}

	pdf := g.newDocument("Receipt " + t.ID)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "RECEIPT", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, g.VendorName, "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.kvLine(pdf, "Date", t.Date.Format("02 Jan 2006"))
	g.kvLine(pdf, "Description", t.Description)
	g.kvLine(pdf, "Type", string(t.Type))
	g.kvLine(pdf, "Category", t.Category)
	if t.Method != "" {
		g.kvLine(pdf, "Method", t.Method)
	}
	g.kvLine(pdf, "Amount", pricing.FormatRupiah(t.Amount))
	if p != nil {
		g.hr(pdf)
		g.sectionTitle(pdf, "Project")
		g.kvLine(pdf, "Project", p.ProjectName)
		g.kvLine(pdf, "Client", p.ClientName)
		g.kvLine(pdf, "Remaining", pricing.FormatRupiah(p.Remaining()))
	}

	g.footer(pdf)
	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *DocumentGenerator) newDocument(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor(g.VendorName, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	if g.FontPath != "" {
		pdf.AddUTF8Font(g.fontName, "", g.FontPath)
		pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	}
	return pdf
}

func (g *DocumentGenerator) footer(pdf *gofpdf.Fpdf) {
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
}

func (g *DocumentGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *DocumentGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *DocumentGenerator) addLines(pdf *gofpdf.Fpdf, lines []string) {
	pdf.SetFont(g.fontName, "", 11)
	for _, line := range lines {
		pdf.SetX(25)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
}

func (g *DocumentGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	return filepath.Join(g.RootDir, filepath.Base(filename)), nil
}
