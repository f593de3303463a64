package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Mailer interface {
	// SendInvoice delivers an invoice to the client with the rendered PDF
	// attached.
	SendInvoice(ctx context.Context, invoice invoicedomain.Invoice, client clientdomain.Client, pdf []byte) error
}

type SMTPMailer struct {
	log *zap.Logger
	cfg *config.Config

	send func(addr, from string, to []string, msg []byte) error
}

type MailerParam struct {
	fx.In

	Log    *zap.Logger
	Config *config.Config
}

func NewMailer(p MailerParam) Mailer {
	return &SMTPMailer{
		log: p.Log.Named("mailer"),
		cfg: p.Config,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (m *SMTPMailer) SendInvoice(ctx context.Context, invoice invoicedomain.Invoice, client clientdomain.Client, pdf []byte) error {
	if strings.TrimSpace(client.Email) == "" {
		return invoicedomain.ErrClientEmailMissing
	}

	subject := fmt.Sprintf("Invoice %s from %s", invoice.InvoiceNumber, m.cfg.BusinessName)
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nPlease find attached invoice %s for %s %.2f, due on %s.\r\n\r\nRegards,\r\n%s\r\n",
		client.Name,
		invoice.InvoiceNumber,
		invoice.Currency,
		invoice.Total,
		invoice.DueDate.Format("2 January 2006"),
		m.cfg.BusinessName,
	)

	msg, err := m.compose(client.Email, subject, body, invoice.InvoiceNumber+".pdf", pdf)
	if err != nil {
		return fmt.Errorf("compose mail: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.MailHost, m.cfg.MailPort)
	if err := m.send(addr, m.cfg.MailSender, []string{client.Email}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.log.Info("invoice emailed",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("to", client.Email),
	)
	return nil
}

func (m *SMTPMailer) compose(to, subject, body, filename string, pdf []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.MailSender)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", `text/plain; charset="utf-8"`)
	part, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, err
	}

	attachHeader := textproto.MIMEHeader{}
	attachHeader.Set("Content-Type", "application/pdf")
	attachHeader.Set("Content-Transfer-Encoding", "base64")
	attachHeader.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	part, err = writer.CreatePart(attachHeader)
	if err != nil {
		return nil, err
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(pdf)))
	base64.StdEncoding.Encode(encoded, pdf)
	if _, err := part.Write(encoded); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
