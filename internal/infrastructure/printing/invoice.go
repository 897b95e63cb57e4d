package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/invoice.html
var invoiceFS embed.FS

// InvoiceLine is one product row of an invoice
type InvoiceLine struct {
	Sku       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// InvoiceData carries everything printed on an order invoice
type InvoiceData struct {
	StoreName     string
	StoreEmail    string
	StoreAddress  valueobject.Address
	OrderNumber   string
	DatePurchased time.Time
	Status        string
	Currency      string
	Language      string
	CustomerEmail string
	Billing       valueobject.Address
	Delivery      valueobject.Address
	Lines         []InvoiceLine
	SubTotal      decimal.Decimal
	Shipping      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// InvoiceRenderer renders order invoices as HTML and PDF
type InvoiceRenderer struct {
	pdf    PDFRenderer
	paper  PaperSize
	tmpl   *template.Template
	logger *zap.Logger
}

// NewInvoiceRenderer parses the embedded invoice template
func NewInvoiceRenderer(pdf PDFRenderer, paper PaperSize, logger *zap.Logger) (*InvoiceRenderer, error) {
	tmpl, err := template.New("invoice.html").Funcs(template.FuncMap{
		"money":      func(decimal.Decimal) string { return "" },
		"formatDate": formatDate,
		"statusText": statusText,
	}).ParseFS(invoiceFS, "templates/invoice.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse invoice template", err)
	}
	if !paper.IsValid() {
		paper = PaperSizeA4
	}
	return &InvoiceRenderer{pdf: pdf, paper: paper, tmpl: tmpl, logger: logger}, nil
}

// RenderHTML executes the invoice template
func (r *InvoiceRenderer) RenderHTML(data *InvoiceData) (string, error) {
	if data == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice data is nil", nil)
	}
	tmpl, err := r.tmpl.Clone()
	if err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to clone invoice template", err)
	}
	tmpl.Funcs(template.FuncMap{"money": moneyFormatter(data.Currency, data.Language)})

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// RenderPDF renders the invoice and converts it to PDF
func (r *InvoiceRenderer) RenderPDF(ctx context.Context, data *InvoiceData) ([]byte, error) {
	doc, err := r.RenderHTML(data)
	if err != nil {
		return nil, err
	}
	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:        doc,
		PaperSize:   r.paper,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       "Invoice " + data.OrderNumber,
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Invoice rendered",
		zap.String("order", data.OrderNumber),
		zap.Int("pages", result.PageCount))
	return result.PDFData, nil
}

// moneyFormatter formats amounts as "<ISO code> <localized number>". Unknown
// currency codes fall back to the raw code.
func moneyFormatter(code, lang string) func(decimal.Decimal) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	label := strings.ToUpper(code)
	if unit, err := currency.ParseISO(code); err == nil {
		label = unit.String()
	}
	return func(d decimal.Decimal) string {
		f, _ := d.Round(2).Float64()
		return p.Sprintf("%s %.2f", label, f)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// statusText renders an order status like "PROCESSED" as "Processed"
func statusText(status string) string {
	return cases.Title(language.English).String(strings.ToLower(status))
}
