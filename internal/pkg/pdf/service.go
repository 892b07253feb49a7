// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/domain/order"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptTemplate))

// Service renders order receipts
type Service struct {
	company CompanyInfo
	now     func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		company: CompanyInfo{
			Name:    cfg.App.CompanyName,
			Address: cfg.App.CompanyAddress,
			Phone:   cfg.App.CompanyPhone,
			Email:   cfg.App.CompanyEmail,
			Website: cfg.App.CompanyWebsite,
		},
		now: time.Now,
	}
}

// ReceiptData is what the receipt template sees
type ReceiptData struct {
	ReceiptNumber string
	IssuedAt      string
	Order         order.View
	Company       CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

// RenderHTML produces the receipt markup for o
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCPT-%s", o.OrderNumber),
		IssuedAt:      order.FormatDate(s.now()),
		Order:         order.NewView(o),
		Company:       s.company,
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateReceipt renders o to PDF through wkhtmltopdf
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)
	pdfg.Title.Set("Receipt " + o.OrderNumber)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.Encoding.Set("utf-8")
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(8)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}
	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 3px solid #F2BD12; padding-bottom: 12px; margin-bottom: 20px; }
        .brand { font-size: 26px; font-weight: bold; color: #F2BD12; }
        .meta td { padding: 2px 12px 2px 0; }
        .status { display: inline-block; padding: 2px 10px; border-radius: 10px; font-size: 12px; }
        .status-pending { background: #fff4d6; color: #9a6b00; }
        .status-delivered { background: #e0f5e9; color: #1d7a46; }
        .status-cancelled { background: #fde2e2; color: #a12b2b; }
        .items { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .items th, .items td { border-bottom: 1px solid #eee; padding: 8px 4px; text-align: left; }
        .items .num { text-align: right; }
        .totals { width: 260px; margin-left: auto; }
        .totals td { padding: 4px 0; }
        .totals .grand td { font-weight: bold; border-top: 2px solid #333; padding-top: 8px; }
        .footer { margin-top: 30px; font-size: 11px; color: #777; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <div class="brand">{{.Company.Name}}</div>
        <div>{{.Company.Address}}</div>
        <div>{{.Company.Phone}} &middot; {{.Company.Email}}</div>
    </div>

    <table class="meta">
        <tr><td><strong>Receipt</strong></td><td>{{.ReceiptNumber}}</td></tr>
        <tr><td><strong>Order</strong></td><td>#{{.Order.Number}}</td></tr>
        <tr><td><strong>Placed</strong></td><td>{{.Order.Date}}</td></tr>
        <tr><td><strong>Status</strong></td><td><span class="status {{.Order.StatusClass}}">{{.Order.Status}}</span></td></tr>
        {{if .Order.PaymentID}}<tr><td><strong>Payment</strong></td><td>{{.Order.PaymentID}}</td></tr>{{end}}
    </table>

    <h3>Deliver to</h3>
    <p>
        <strong>{{.Order.DeliveryInfo.FullName}}</strong><br>
        {{.Order.DeliveryInfo.Address}}<br>
        {{.Order.DeliveryInfo.City}}, {{.Order.DeliveryInfo.ZipCode}}<br>
        {{.Order.DeliveryInfo.Phone}}<br>
        {{.Order.DeliveryInfo.Email}}
        {{if .Order.DeliveryInfo.Notes}}<br><em>{{.Order.DeliveryInfo.Notes}}</em>{{end}}
    </p>

    <table class="items">
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Order.Lines}}
            <tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">₹{{.Price}}</td><td class="num">₹{{.LineTotal}}</td></tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">₹{{.Order.Subtotal}}</td></tr>
        <tr><td>Delivery Fee</td><td class="num">₹{{.Order.DeliveryFee}}</td></tr>
        <tr><td>Tax</td><td class="num">₹{{.Order.Tax}}</td></tr>
        <tr class="grand"><td>Total</td><td class="num">₹{{.Order.Total}}</td></tr>
    </table>

    <div class="footer">
        Issued {{.IssuedAt}} &middot; {{.Company.Website}}
    </div>
</body>
</html>
`
