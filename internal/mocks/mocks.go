// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/pacmangol/fxledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository mocks the InvoiceRepository interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Store(ctx context.Context, invoice *entity.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context) ([]entity.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Invoice), args.Error(1)
}

// MockPaymentRepository mocks the PaymentRepository interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Store(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByInvoice(ctx context.Context, invoiceNumber string) ([]entity.Payment, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]entity.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Payment), args.Error(1)
}

// MockRateSource mocks the RateSource interface
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchBidRate(ctx context.Context, currency string, date time.Time) (*entity.ExchangeRate, error) {
	args := m.Called(ctx, currency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExchangeRate), args.Error(1)
}
