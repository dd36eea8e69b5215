package server

import (
	"net/http"
	"strings"
	"time"

	invoicedomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

// publicBillView is the tenant-facing slice of an invoice. The access code
// itself never appears in the body.
type publicBillView struct {
	Month       string                        `json:"month"`
	Status      invoicedomain.Status          `json:"status"`
	TotalAmount int64                         `json:"total_amount"`
	PaidAmount  int64                         `json:"paid_amount"`
	DebtAmount  int64                         `json:"debt_amount"`
	DueDate     *time.Time                    `json:"due_date,omitempty"`
	Note        string                        `json:"note,omitempty"`
	LineItems   []invoicedomain.LineItem      `json:"line_items"`
	Payments    []invoicedomain.PaymentRecord `json:"payments"`
}

// PublicBill serves the read-only bill a tenant opens from a shared link.
// Lookups are rate limited per client since the code is the only credential.
func (s *Server) PublicBill(c *gin.Context) {
	if !s.publicLimit.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	code := strings.TrimSpace(c.Param("code"))
	invoice, err := s.invoiceSvc.GetByAccessCode(c.Request.Context(), code)
	if err != nil {
		// Every lookup failure reads as not found so codes cannot be probed.
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, publicBillView{
		Month:       invoice.Month,
		Status:      invoice.Status,
		TotalAmount: invoice.TotalAmount,
		PaidAmount:  invoice.PaidAmount,
		DebtAmount:  invoice.DebtAmount,
		DueDate:     invoice.DueDate,
		Note:        invoice.Note,
		LineItems:   invoice.LineItems,
		Payments:    invoice.Payments,
	})
}
