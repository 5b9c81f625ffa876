package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pacmangol/fxledger/internal/application/service"
	"github.com/pacmangol/fxledger/internal/domain/entity"
	"github.com/pacmangol/fxledger/internal/domain/repository"
	domain "github.com/pacmangol/fxledger/internal/domain/service"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/pacmangol/fxledger/internal/infrastructure/middleware"
)

// PaymentHandler handles HTTP requests for payments and reconciliation
type PaymentHandler struct {
	service    *service.LedgerService
	currencies []string
	logger     logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service *service.LedgerService, currencies []string, log logger.Logger) *PaymentHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &PaymentHandler{
		service:    service,
		currencies: currencies,
		logger:     log,
	}
}

// RecordPayment records a payment against an invoice and responds with the
// updated reconciliation figures
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	number := mux.Vars(r)["number"]

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if req.Amount <= 0 {
		sendErrorResponse(w, h.logger, "Invalid amount",
			"Amount must be a positive value", http.StatusBadRequest, requestID)
		return
	}

	if !currencyAccepted(req.Currency, h.currencies) {
		sendErrorResponse(w, h.logger, "Unsupported currency",
			"Currency is not in the accepted currency set", http.StatusBadRequest, requestID)
		return
	}

	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid date format",
			"payment_date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return
	}

	invoice, err := h.service.GetInvoice(r.Context(), number)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			sendErrorResponse(w, h.logger, "Invoice not found",
				"The requested invoice could not be found", http.StatusNotFound, requestID)
		} else {
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred while retrieving the invoice",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	if paymentDate.Before(invoice.IssueDate) {
		sendErrorResponse(w, h.logger, "Invalid payment date",
			"The payment date must not precede the invoice issue date", http.StatusBadRequest, requestID)
		return
	}

	payment := &entity.Payment{
		InvoiceNumber: number,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentDate:   paymentDate,
	}

	if err := h.service.RecordPayment(r.Context(), payment); err != nil {
		h.logger.Error("Unexpected error in record payment", map[string]interface{}{
			"request_id":     requestID,
			"invoice_number": number,
			"error":          err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while recording the payment",
			http.StatusInternalServerError, requestID)
		return
	}

	reconciliation, err := h.service.Reconcile(r.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			sendErrorResponse(w, h.logger, "Exchange rate unavailable",
				"The payment was recorded, but a required exchange rate could not be resolved",
				http.StatusServiceUnavailable, requestID)
			return
		}

		h.logger.Error("Reconciliation failed after payment", map[string]interface{}{
			"request_id":     requestID,
			"invoice_number": number,
			"error":          err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"The payment was recorded but reconciliation failed",
			http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Payment recorded", map[string]interface{}{
		"request_id":     requestID,
		"invoice_number": number,
		"payment_id":     payment.ID,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(RecordPaymentResponse{
		PaymentID:       payment.ID,
		InvoiceNumber:   number,
		FXDifference:    reconciliation.Difference,
		RemainingAmount: reconciliation.RemainingAmount,
	})
}

// GetReconciliation recomputes both reconciliation figures for an invoice
func (h *PaymentHandler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	number := mux.Vars(r)["number"]

	reconciliation, err := h.service.Reconcile(r.Context(), number)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			sendErrorResponse(w, h.logger, "Invoice not found",
				"The requested invoice could not be found", http.StatusNotFound, requestID)
		} else if errors.Is(err, domain.ErrRateUnavailable) {
			sendErrorResponse(w, h.logger, "Exchange rate unavailable",
				"A required exchange rate could not be resolved",
				http.StatusServiceUnavailable, requestID)
		} else {
			h.logger.Error("Unexpected error in reconciliation", map[string]interface{}{
				"request_id":     requestID,
				"invoice_number": number,
				"error":          err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred during reconciliation",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReconciliationResponse{
		InvoiceNumber:   reconciliation.InvoiceNumber,
		FXDifference:    reconciliation.Difference,
		RemainingAmount: reconciliation.RemainingAmount,
	})
}

// RegisterRoutes registers the payment handler routes
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/invoices/{number}/payments", h.RecordPayment).Methods("POST")
	router.HandleFunc("/invoices/{number}/reconciliation", h.GetReconciliation).Methods("GET")
}
