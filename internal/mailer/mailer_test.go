package mailer

import (
	"context"
	"testing"
	"time"

	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMailer(send func(addr, from string, to []string, msg []byte) error) *SMTPMailer {
	return &SMTPMailer{
		log: zap.NewNop(),
		cfg: &config.Config{
			BusinessName: "Ledgerline",
			MailHost:     "localhost",
			MailPort:     1025,
			MailSender:   "noreply@ledgerline.local",
		},
		send: send,
	}
}

func TestSendInvoice(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := testMailer(func(addr, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	})

	invoice := invoicedomain.Invoice{
		InvoiceNumber: "INV-202609-0001",
		Total:         222,
		Currency:      "IDR",
		DueDate:       time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	}
	client := clientdomain.Client{Name: "Acme Corp", Email: "billing@acme.test"}

	err := m.SendInvoice(context.Background(), invoice, client, []byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:1025", gotAddr)
	assert.Equal(t, "noreply@ledgerline.local", gotFrom)
	assert.Equal(t, []string{"billing@acme.test"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Invoice INV-202609-0001 from Ledgerline")
	assert.Contains(t, body, "To: billing@acme.test")
	assert.Contains(t, body, "Content-Type: multipart/mixed")
	assert.Contains(t, body, `filename="INV-202609-0001.pdf"`)
	assert.Contains(t, body, "Content-Transfer-Encoding: base64")
}

func TestSendInvoice_MissingEmail(t *testing.T) {
	m := testMailer(func(addr, from string, to []string, msg []byte) error {
		t.Fatal("send must not be called")
		return nil
	})

	err := m.SendInvoice(context.Background(), invoicedomain.Invoice{}, clientdomain.Client{Name: "Acme"}, nil)
	assert.ErrorIs(t, err, invoicedomain.ErrClientEmailMissing)
}
