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
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/pacmangol/fxledger/internal/infrastructure/middleware"
)

const dateLayout = "2006-01-02"

// InvoiceHandler handles HTTP requests for invoices
type InvoiceHandler struct {
	service    *service.LedgerService
	currencies []string
	logger     logger.Logger
}

// NewInvoiceHandler creates a new invoice handler. currencies is the
// accepted currency set for incoming invoices.
func NewInvoiceHandler(service *service.LedgerService, currencies []string, log logger.Logger) *InvoiceHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &InvoiceHandler{
		service:    service,
		currencies: currencies,
		logger:     log,
	}
}

// CreateInvoice handles the creation of a new invoice
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CreateInvoiceRequest
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

	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid date format",
			"issue_date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return
	}

	invoice := &entity.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Currency:      req.Currency,
		IssueDate:     issueDate,
	}

	if err := h.service.CreateInvoice(r.Context(), invoice); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateInvoice):
			sendErrorResponse(w, h.logger, "Duplicate invoice number",
				"An invoice with this number already exists", http.StatusConflict, requestID)
		default:
			h.logger.Error("Unexpected error in create invoice", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred while creating the invoice",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	h.logger.Info("Invoice created", map[string]interface{}{
		"request_id":     requestID,
		"invoice_number": invoice.InvoiceNumber,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(invoiceResponse(invoice))
}

// GetInvoice handles retrieving an invoice by number
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	number := mux.Vars(r)["number"]

	invoice, err := h.service.GetInvoice(r.Context(), number)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			sendErrorResponse(w, h.logger, "Invoice not found",
				"The requested invoice could not be found", http.StatusNotFound, requestID)
		} else {
			h.logger.Error("Unexpected error in get invoice", map[string]interface{}{
				"request_id":     requestID,
				"invoice_number": number,
				"error":          err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error",
				"An unexpected error occurred while retrieving the invoice",
				http.StatusInternalServerError, requestID)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoiceResponse(invoice))
}

// RegisterRoutes registers the invoice handler routes
func (h *InvoiceHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/invoices", h.CreateInvoice).Methods("POST")
	router.HandleFunc("/invoices/{number}", h.GetInvoice).Methods("GET")
}

func invoiceResponse(invoice *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount,
		Currency:      invoice.Currency,
		IssueDate:     invoice.IssueDate.Format(dateLayout),
	}
}

func currencyAccepted(currency string, accepted []string) bool {
	for _, c := range accepted {
		if currency == c {
			return true
		}
	}
	return false
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}
