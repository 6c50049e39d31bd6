package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/v-starostin/invoiceboard/internal/currency"
	"github.com/v-starostin/invoiceboard/internal/form"
	"github.com/v-starostin/invoiceboard/internal/model"
	"github.com/v-starostin/invoiceboard/internal/seed"
	"github.com/v-starostin/invoiceboard/internal/viewcache"
)

// InvoicesPath is the cached list view invalidated by every mutation and
// the navigation target of successful create/update submissions.
const InvoicesPath = "/dashboard/invoices"

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthError marks a failure inside the sign-in path that is not a
// credentials mismatch. Anything not wrapped in it is treated as fatal
// by the caller.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Cause.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// StorageError tags a persistence failure with the mutation that hit it.
// Its Error text is the user-facing message, with the underlying error
// text preserved verbatim.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("Database Error: Failed to %s Invoice. Message: %s", e.Op, e.Cause.Error())
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

type Storage interface {
	AddInvoice(ctx context.Context, customerID string, amountCents int, status string, date time.Time) error
	UpdateInvoice(ctx context.Context, id, customerID string, amountCents int, status string) error
	DeleteInvoice(ctx context.Context, id string) error
	GetInvoices(ctx context.Context) ([]model.Invoice, error)
	GetUser(ctx context.Context, email string) (*model.User, error)
	Seed(ctx context.Context, data seed.Fixtures) error
}

type Service struct {
	logger  *slog.Logger
	storage Storage
	cache   *viewcache.Cache
	secret  []byte
}

func New(logger *slog.Logger, storage Storage, cache *viewcache.Cache, secret []byte) *Service {
	return &Service{
		logger:  logger,
		storage: storage,
		cache:   cache,
		secret:  secret,
	}
}

// CreateInvoice validates the submitted fields, persists a new invoice
// dated today, invalidates the list view and navigates back to it.
// Validation and persistence failures are recovered into state, never
// returned as errors. prev is a placeholder for the rendered state of
// the previous submission and is not consulted.
func (s *Service) CreateInvoice(ctx context.Context, prev *model.MutationState, values url.Values) model.MutationResult {
	invoice, errs := form.ParseInvoice(values)
	if errs != nil {
		return model.MutationResult{State: &model.MutationState{
			Errors:  errs,
			Message: "Missing Fields. Failed to Create Invoice.",
		}}
	}

	amountInCents := currency.ToCents(invoice.Amount)
	date := time.Now().UTC().Truncate(24 * time.Hour)

	if err := s.storage.AddInvoice(ctx, invoice.CustomerID, amountInCents, invoice.Status, date); err != nil {
		s.logger.Info("Create invoice error", slog.String("error", err.Error()))
		serr := &StorageError{Op: "create", Cause: err}
		return model.MutationResult{State: &model.MutationState{Message: serr.Error()}}
	}

	s.cache.Invalidate(InvoicesPath)

	return model.MutationResult{Redirect: InvoicesPath}
}

// UpdateInvoice mirrors CreateInvoice for an existing row. The id is
// opaque and not validated.
func (s *Service) UpdateInvoice(ctx context.Context, id string, prev *model.MutationState, values url.Values) model.MutationResult {
	invoice, errs := form.ParseInvoice(values)
	if errs != nil {
		return model.MutationResult{State: &model.MutationState{
			Errors:  errs,
			Message: "Missing Fields. Failed to Update Invoice.",
		}}
	}

	amountInCents := currency.ToCents(invoice.Amount)

	if err := s.storage.UpdateInvoice(ctx, id, invoice.CustomerID, amountInCents, invoice.Status); err != nil {
		s.logger.Info("Update invoice error", slog.String("error", err.Error()))
		serr := &StorageError{Op: "update", Cause: err}
		return model.MutationResult{State: &model.MutationState{Message: serr.Error()}}
	}

	s.cache.Invalidate(InvoicesPath)

	return model.MutationResult{Redirect: InvoicesPath}
}

// DeleteInvoice removes the row and invalidates the list view. It is
// invoked from within the already-rendered list, so it reports a
// message instead of navigating.
func (s *Service) DeleteInvoice(ctx context.Context, id string) model.MutationState {
	if err := s.storage.DeleteInvoice(ctx, id); err != nil {
		s.logger.Info("Delete invoice error", slog.String("error", err.Error()))
		serr := &StorageError{Op: "delete", Cause: err}
		return model.MutationState{Message: serr.Error()}
	}

	s.cache.Invalidate(InvoicesPath)

	return model.MutationState{Message: "Deleted Invoice."}
}

func (s *Service) GetInvoices(ctx context.Context) ([]model.Invoice, error) {
	return s.storage.GetInvoices(ctx)
}

// Authenticate verifies the credentials and returns a signed access
// token. A missing user or password mismatch yields
// ErrInvalidCredentials; any other failure on the sign-in path is
// wrapped in AuthError.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.storage.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", &AuthError{Cause: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		return "", &AuthError{Cause: err}
	}

	token, err := s.generateAccessToken(user.ID)
	if err != nil {
		return "", &AuthError{Cause: err}
	}

	return token, nil
}

func (s *Service) SeedDatabase(ctx context.Context) error {
	return s.storage.Seed(ctx, seed.Data())
}

func (s *Service) generateAccessToken(id uuid.UUID) (string, error) {
	token := jwt.New()
	now := time.Now()
	token.Set(jwt.SubjectKey, id.String())
	token.Set(jwt.IssuedAtKey, now.Unix())
	token.Set(jwt.ExpirationKey, now.Add(10*time.Minute))
	signedToken, err := jwt.Sign(token, jwa.HS256, s.secret)
	if err != nil {
		return "", err
	}

	return string(signedToken), nil
}
