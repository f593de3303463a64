package render

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
)

// Renderer turns an invoice into a PDF document. It holds no state beyond
// the business identity printed in the header.
type Renderer struct {
	cfg *config.Config
}

func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

func (r *Renderer) Render(invoice invoicedomain.Invoice, client clientdomain.Client) ([]byte, error) {
	m := maroto.New(marotoconfig.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build())

	r.addHeader(m)
	r.addParties(m, invoice, client)
	r.addItemTable(m, invoice)
	r.addTotals(m, invoice)
	if invoice.Notes != "" {
		m.AddRow(6)
		m.AddRow(5, text.NewCol(12, "Notes", props.Text{Style: fontstyle.Bold, Size: 9}))
		m.AddRow(8, text.NewCol(12, invoice.Notes, props.Text{Size: 9}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", invoice.InvoiceNumber, err)
	}
	return doc.GetBytes(), nil
}

func (r *Renderer) addHeader(m core.Maroto) {
	m.AddRow(10,
		text.NewCol(8, r.cfg.BusinessName, props.Text{Style: fontstyle.Bold, Size: 16}),
		text.NewCol(4, "INVOICE", props.Text{Style: fontstyle.Bold, Size: 16, Align: align.Right}),
	)
	m.AddRow(5, text.NewCol(12, r.cfg.BusinessAddress, props.Text{Size: 8}))
	m.AddRow(5, text.NewCol(12, r.cfg.BusinessPhone+"  "+r.cfg.BusinessEmail, props.Text{Size: 8}))
	if r.cfg.BusinessWebsite != "" {
		m.AddRow(5, text.NewCol(12, r.cfg.BusinessWebsite, props.Text{Size: 8}))
	}
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) addParties(m core.Maroto, invoice invoicedomain.Invoice, client clientdomain.Client) {
	m.AddRow(6)
	m.AddRow(5,
		text.NewCol(6, "Bill To", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Invoice Number", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, invoice.InvoiceNumber, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(6, client.Name, props.Text{Size: 9}),
		text.NewCol(3, "Issue Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, invoice.IssueDate.Format("2006-01-02"), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(6, client.Company, props.Text{Size: 9}),
		text.NewCol(3, "Due Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, invoice.DueDate.Format("2006-01-02"), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(6, client.Address, props.Text{Size: 9}),
		text.NewCol(3, "Status", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, string(invoice.Status), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5, text.NewCol(6, client.Email, props.Text{Size: 9}))
}

func (r *Renderer) addItemTable(m core.Maroto, invoice invoicedomain.Invoice) {
	m.AddRow(8)
	m.AddRow(7,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range invoice.Items {
		m.AddRow(6,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, formatQuantity(item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(item.Rate, invoice.Currency), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(item.Amount, invoice.Currency), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(2, line.NewCol(12))
}

func (r *Renderer) addTotals(m core.Maroto, invoice invoicedomain.Invoice) {
	m.AddRow(6,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, formatAmount(invoice.Subtotal, invoice.Currency), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		col.New(8),
		text.NewCol(2, fmt.Sprintf("Tax (%.1f%%)", invoice.TaxRate*100), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, formatAmount(invoice.TaxAmount, invoice.Currency), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
		text.NewCol(2, formatAmount(invoice.Total, invoice.Currency), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
}

func formatAmount(v float64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, v)
}

func formatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
