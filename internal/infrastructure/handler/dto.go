package handler

// CreateInvoiceRequest represents the request body for creating an invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string  `json:"invoice_number"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	IssueDate     string  `json:"issue_date"`
}

// InvoiceResponse represents the response for invoice endpoints
type InvoiceResponse struct {
	InvoiceNumber string  `json:"invoice_number"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	IssueDate     string  `json:"issue_date"`
}

// RecordPaymentRequest represents the request body for recording a payment
type RecordPaymentRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	PaymentDate string  `json:"payment_date"`
}

// ReconciliationResponse represents both reconciliation figures for an
// invoice. When a required exchange rate is unavailable the endpoints
// respond with a 503 error body instead of figures.
type ReconciliationResponse struct {
	InvoiceNumber   string  `json:"invoice_number"`
	FXDifference    float64 `json:"fx_difference"`
	RemainingAmount float64 `json:"remaining_amount"`
}

// RecordPaymentResponse represents the response for the record payment
// endpoint; recording a payment immediately reconciles its invoice
type RecordPaymentResponse struct {
	PaymentID       string  `json:"payment_id"`
	InvoiceNumber   string  `json:"invoice_number"`
	FXDifference    float64 `json:"fx_difference"`
	RemainingAmount float64 `json:"remaining_amount"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
