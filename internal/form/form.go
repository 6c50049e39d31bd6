// Package form validates and normalizes raw invoice form submissions.
package form

import (
	"net/url"
	"strconv"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

const (
	msgCustomer = "Please select a customer."
	msgAmount   = "Please enter an amount greater than $ 0.00."
	msgStatus   = "Please select an invoice status."
)

// Invoice is a normalized invoice submission. Amount is in primary
// monetary units (dollars), not cents.
type Invoice struct {
	CustomerID string
	Amount     float64
	Status     string
}

// Errors maps a field name to its ordered list of human-readable reasons.
type Errors map[string][]string

// ParseInvoice validates raw form values and returns either a normalized
// invoice or the per-field reasons it was rejected. It has no side effects.
func ParseInvoice(values url.Values) (*Invoice, Errors) {
	errs := make(Errors)

	customerID := values.Get("customerId")
	if customerID == "" {
		errs["customerId"] = append(errs["customerId"], msgCustomer)
	}

	amount, err := strconv.ParseFloat(values.Get("amount"), 64)
	if err != nil || amount <= 0 {
		errs["amount"] = append(errs["amount"], msgAmount)
	}

	status := values.Get("status")
	if status != StatusPending && status != StatusPaid {
		errs["status"] = append(errs["status"], msgStatus)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Invoice{
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
	}, nil
}
