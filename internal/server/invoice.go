package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceFilter{
		Status: invoicedomain.InvoiceStatus(strings.TrimSpace(query.Status)),
		Search: strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req invoicedomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	status := invoicedomain.InvoiceStatus(strings.TrimSpace(c.Param("status")))
	resp, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) DownloadInvoice(c *gin.Context) {
	invoice, client, err := s.invoiceWithClient(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pdf, err := s.renderer.Render(invoice, client)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, invoice.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) EmailInvoice(c *gin.Context) {
	invoice, client, err := s.invoiceWithClient(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pdf, err := s.renderer.Render(invoice, client)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.mailer.SendInvoice(c.Request.Context(), invoice, client, pdf); err != nil {
		AbortWithError(c, err)
		return
	}

	// Emailing a draft promotes it to sent.
	if invoice.Status == invoicedomain.InvoiceStatusDraft {
		if invoice, err = s.invoiceSvc.UpdateStatus(c.Request.Context(), invoice.ID, invoicedomain.InvoiceStatusSent); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	respondData(c, gin.H{"sent": true, "invoice": invoice})
}

func (s *Server) invoiceWithClient(c *gin.Context) (invoicedomain.Invoice, clientdomain.Client, error) {
	id, err := pathID(c)
	if err != nil {
		return invoicedomain.Invoice{}, clientdomain.Client{}, newValidationError("id", "invalid_id", "invalid id")
	}

	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		return invoicedomain.Invoice{}, clientdomain.Client{}, err
	}

	client, err := s.clientSvc.GetByID(c.Request.Context(), invoice.ClientID)
	if err != nil {
		return invoicedomain.Invoice{}, clientdomain.Client{}, err
	}
	return invoice, client, nil
}
