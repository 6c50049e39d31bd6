package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/v-starostin/invoiceboard/internal/model"
)

type Storage struct {
	l  *slog.Logger
	db *sql.DB
}

func New(l *slog.Logger, db *sql.DB) *Storage {
	return &Storage{l, db}
}

func (s *Storage) AddInvoice(ctx context.Context, customerID string, amountCents int, status string, date time.Time) error {
	invoiceID, err := uuid.NewRandom()
	if err != nil {
		return err
	}

	query := "INSERT INTO invoices (id, customer_id, amount, status, date) VALUES ($1, $2, $3, $4, $5)"
	if _, err = s.db.ExecContext(ctx, query, invoiceID, customerID, amountCents, status, date); err != nil {
		return err
	}

	return nil
}

func (s *Storage) UpdateInvoice(ctx context.Context, id, customerID string, amountCents int, status string) error {
	query := "UPDATE invoices SET customer_id = $1, amount = $2, status = $3 WHERE id = $4"
	if _, err := s.db.ExecContext(ctx, query, customerID, amountCents, status, id); err != nil {
		return err
	}

	return nil
}

func (s *Storage) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id); err != nil {
		return err
	}

	return nil
}

func (s *Storage) GetInvoices(ctx context.Context) ([]model.Invoice, error) {
	query := "SELECT id, customer_id, amount, status, date FROM invoices ORDER BY date DESC"
	raws, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer raws.Close()

	invoices := make([]model.Invoice, 0)
	i := model.Invoice{}
	for raws.Next() {
		err = raws.Scan(&i.ID, &i.CustomerID, &i.Amount, &i.Status, &i.Date)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, i)
	}

	if err = raws.Err(); err != nil {
		return nil, err
	}

	return invoices, nil
}

func (s *Storage) GetUser(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := "SELECT id, name, email, password FROM users WHERE email = $1"
	if err := s.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password); err != nil {
		return nil, err
	}

	return &u, nil
}
