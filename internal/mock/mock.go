package mock

import (
	"context"
	"net/url"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/v-starostin/invoiceboard/internal/model"
	"github.com/v-starostin/invoiceboard/internal/seed"
)

type Storage struct {
	mock.Mock
}

func (m *Storage) AddInvoice(ctx context.Context, customerID string, amountCents int, status string, date time.Time) error {
	args := m.Called(ctx, customerID, amountCents, status, date)
	return args.Error(0)
}

func (m *Storage) UpdateInvoice(ctx context.Context, id, customerID string, amountCents int, status string) error {
	args := m.Called(ctx, id, customerID, amountCents, status)
	return args.Error(0)
}

func (m *Storage) DeleteInvoice(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Storage) GetInvoices(ctx context.Context) ([]model.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invoice), args.Error(1)
}

func (m *Storage) GetUser(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *Storage) Seed(ctx context.Context, data seed.Fixtures) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

type Service struct {
	mock.Mock
}

func (m *Service) CreateInvoice(ctx context.Context, prev *model.MutationState, values url.Values) model.MutationResult {
	args := m.Called(ctx, prev, values)
	return args.Get(0).(model.MutationResult)
}

func (m *Service) UpdateInvoice(ctx context.Context, id string, prev *model.MutationState, values url.Values) model.MutationResult {
	args := m.Called(ctx, id, prev, values)
	return args.Get(0).(model.MutationResult)
}

func (m *Service) DeleteInvoice(ctx context.Context, id string) model.MutationState {
	args := m.Called(ctx, id)
	return args.Get(0).(model.MutationState)
}

func (m *Service) GetInvoices(ctx context.Context) ([]model.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invoice), args.Error(1)
}

func (m *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *Service) SeedDatabase(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
