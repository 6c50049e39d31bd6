package model

import (
	"time"

	"github.com/google/uuid"
)

type Error struct {
	Error string `json:"error"`
}

type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string
}

type Customer struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	ImageURL string    `json:"image_url"`
}

type Invoice struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Amount     int       `json:"amount"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`
}

type Revenue struct {
	Month   string `json:"month"`
	Revenue int    `json:"revenue"`
}

// MutationState carries the per-field validation errors and the overall
// message of one form submission. It is rendered once and discarded.
type MutationState struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// MutationResult is the outcome of a mutation: either a navigation target
// or a state to render. Exactly one of the two fields is set.
type MutationResult struct {
	Redirect string
	State    *MutationState
}
