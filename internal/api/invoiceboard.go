package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/v-starostin/invoiceboard/internal/model"
	"github.com/v-starostin/invoiceboard/internal/service"
	"github.com/v-starostin/invoiceboard/internal/viewcache"
)

type Service interface {
	CreateInvoice(ctx context.Context, prev *model.MutationState, values url.Values) model.MutationResult
	UpdateInvoice(ctx context.Context, id string, prev *model.MutationState, values url.Values) model.MutationResult
	DeleteInvoice(ctx context.Context, id string) model.MutationState
	GetInvoices(ctx context.Context) ([]model.Invoice, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	SeedDatabase(ctx context.Context) error
}

type Message struct {
	Message string `json:"message"`
}

type Invoiceboard struct {
	logger  *slog.Logger
	service Service
	cache   *viewcache.Cache
}

func NewInvoiceboard(logger *slog.Logger, service Service, cache *viewcache.Cache) *Invoiceboard {
	return &Invoiceboard{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

// NewRouter mounts the dashboard routes behind the token middleware.
// Login and seeding stay reachable without a token.
func NewRouter(b *Invoiceboard, secret []byte) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Authenticate(secret))

	r.Post("/api/login", b.Login)
	r.Get("/seed", b.Seed)
	r.Route("/dashboard/invoices", func(r chi.Router) {
		r.Get("/", b.ListInvoices)
		r.Post("/", b.CreateInvoice)
		r.Post("/{id}", b.UpdateInvoice)
		r.Post("/{id}/delete", b.DeleteInvoice)
	})

	return r
}

func (b *Invoiceboard) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := b.service.Authenticate(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		b.logger.Info("Authentication error", slog.String("error", err.Error()))
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeResponse(w, http.StatusUnauthorized, Message{Message: "Invalid credentials."})
			return
		}

		var authErr *service.AuthError
		if errors.As(err, &authErr) {
			writeResponse(w, http.StatusInternalServerError, Message{Message: "Something went wrong."})
			return
		}

		// Not an authentication failure: surface it raw.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

func (b *Invoiceboard) ListInvoices(w http.ResponseWriter, r *http.Request) {
	if payload, ok := b.cache.Get(service.InvoicesPath); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	invoices, err := b.service.GetInvoices(r.Context())
	if err != nil {
		b.logger.Info("Get invoices error", slog.String("error", err.Error()))
		writeResponse(w, http.StatusInternalServerError, Message{Message: "Internal server error"})
		return
	}

	payload, err := json.Marshal(invoices)
	if err != nil {
		writeResponse(w, http.StatusInternalServerError, Message{Message: "Internal server error"})
		return
	}

	b.cache.Set(service.InvoicesPath, payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (b *Invoiceboard) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result := b.service.CreateInvoice(r.Context(), nil, r.PostForm)
	writeMutationResult(w, r, result)
}

func (b *Invoiceboard) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result := b.service.UpdateInvoice(r.Context(), chi.URLParam(r, "id"), nil, r.PostForm)
	writeMutationResult(w, r, result)
}

func (b *Invoiceboard) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	state := b.service.DeleteInvoice(r.Context(), chi.URLParam(r, "id"))
	writeResponse(w, http.StatusOK, state)
}

func (b *Invoiceboard) Seed(w http.ResponseWriter, r *http.Request) {
	if err := b.service.SeedDatabase(r.Context()); err != nil {
		b.logger.Info("Seed error", slog.String("error", err.Error()))
		writeResponse(w, http.StatusInternalServerError, model.Error{Error: err.Error()})
		return
	}

	writeResponse(w, http.StatusOK, Message{Message: "Database seeded successfully"})
}

// writeMutationResult translates a mutation outcome: a redirect becomes a
// 303 to the list view, a state with field errors renders as 422, a
// recovered persistence failure renders as 200 with its message.
func writeMutationResult(w http.ResponseWriter, r *http.Request, result model.MutationResult) {
	if result.Redirect != "" {
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
		return
	}

	code := http.StatusOK
	if len(result.State.Errors) > 0 {
		code = http.StatusUnprocessableEntity
	}
	writeResponse(w, code, result.State)
}

func writeResponse(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Internal server error"}`))
		return
	}
	w.WriteHeader(code)
	w.Write(b)
}
