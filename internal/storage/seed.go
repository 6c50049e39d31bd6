package storage

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"

	"github.com/v-starostin/invoiceboard/internal/seed"
)

// Seed bootstraps the schema and reference data inside one transaction.
// All DDL is guarded with IF NOT EXISTS and every insert is
// conflict-ignored, so rerunning (or racing) the procedure is a no-op
// for rows and tables that already exist. Inserts run sequentially: a
// *sql.Tx is not safe for concurrent statements, and every row must be
// written before the transaction commits.
func (s *Storage) Seed(ctx context.Context, data seed.Fixtures) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err = seedUsers(ctx, tx, data.Users); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = seedCustomers(ctx, tx, data.Customers); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = seedInvoices(ctx, tx, data.Invoices); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = seedRevenue(ctx, tx, data.Revenue); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	return nil
}

func seedUsers(ctx context.Context, tx *sql.Tx, users []seed.User) error {
	if _, err := tx.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return err
	}

	query := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID DEFAULT uuid_generate_v4() PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return err
	}

	query = "INSERT INTO users (id, name, email, password) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING"
	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, u.ID, u.Name, u.Email, string(hashed)); err != nil {
			return err
		}
	}

	return nil
}

func seedCustomers(ctx context.Context, tx *sql.Tx, customers []seed.Customer) error {
	query := `
		CREATE TABLE IF NOT EXISTS customers (
			id UUID DEFAULT uuid_generate_v4() PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			image_url VARCHAR(255) NOT NULL
		)`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return err
	}

	query = "INSERT INTO customers (id, name, email, image_url) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING"
	for _, c := range customers {
		if _, err := tx.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.ImageURL); err != nil {
			return err
		}
	}

	return nil
}

func seedInvoices(ctx context.Context, tx *sql.Tx, invoices []seed.Invoice) error {
	query := `
		CREATE TABLE IF NOT EXISTS invoices (
			id UUID DEFAULT uuid_generate_v4() PRIMARY KEY,
			customer_id UUID NOT NULL,
			amount INT NOT NULL,
			status VARCHAR(255) NOT NULL,
			date DATE NOT NULL
		)`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return err
	}

	query = "INSERT INTO invoices (id, customer_id, amount, status, date) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING"
	for _, i := range invoices {
		if _, err := tx.ExecContext(ctx, query, i.ID, i.CustomerID, i.Amount, i.Status, i.Date); err != nil {
			return err
		}
	}

	return nil
}

func seedRevenue(ctx context.Context, tx *sql.Tx, revenue []seed.Revenue) error {
	query := `
		CREATE TABLE IF NOT EXISTS revenue (
			month VARCHAR(4) NOT NULL UNIQUE,
			revenue INT NOT NULL
		)`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return err
	}

	query = "INSERT INTO revenue (month, revenue) VALUES ($1, $2) ON CONFLICT (month) DO NOTHING"
	for _, r := range revenue {
		if _, err := tx.ExecContext(ctx, query, r.Month, r.Revenue); err != nil {
			return err
		}
	}

	return nil
}
