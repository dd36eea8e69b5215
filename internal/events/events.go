package events

// Invoice lifecycle event types consumed by the notification pipeline.
const (
	EventInvoicePublished       = "invoice.published"
	EventInvoiceUnpublished     = "invoice.unpublished"
	EventInvoicePaymentReceived = "invoice.payment_received"
	EventInvoicePaid            = "invoice.paid"
	EventInvoiceCancelled       = "invoice.cancelled"
	EventInvoiceOverdue         = "invoice.overdue"
)
