package api_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
	mmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/v-starostin/invoiceboard/internal/api"
	"github.com/v-starostin/invoiceboard/internal/mock"
	"github.com/v-starostin/invoiceboard/internal/model"
	"github.com/v-starostin/invoiceboard/internal/service"
	"github.com/v-starostin/invoiceboard/internal/viewcache"
)

var secret = []byte("secret")

type apiTestSuite struct {
	suite.Suite
	r       *chi.Mux
	service *mock.Service
	cache   *viewcache.Cache
}

func (suite *apiTestSuite) SetupTest() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	srv := &mock.Service{}
	cache := viewcache.New()
	board := api.NewInvoiceboard(logger, srv, cache)
	suite.r = api.NewRouter(board, secret)
	suite.service = srv
	suite.cache = cache
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(apiTestSuite))
}

func (suite *apiTestSuite) accessToken() string {
	token := jwt.New()
	token.Set(jwt.SubjectKey, uuid.New().String())
	token.Set(jwt.ExpirationKey, time.Now().Add(10*time.Minute))
	signed, err := jwt.Sign(token, jwa.HS256, secret)
	suite.NoError(err)
	return string(signed)
}

func (suite *apiTestSuite) formRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+suite.accessToken())
	return req
}

func (suite *apiTestSuite) TestCreateInvoice() {
	values := url.Values{
		"customerId": {"c1"},
		"amount":     {"15.50"},
		"status":     {"pending"},
	}

	suite.Run("redirects on success", func() {
		suite.service.On("CreateInvoice", mmock.Anything, (*model.MutationState)(nil), values).
			Return(model.MutationResult{Redirect: service.InvoicesPath}).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, suite.formRequest(http.MethodPost, "/dashboard/invoices", values.Encode()))
		res := rr.Result()

		suite.Equal(http.StatusSeeOther, res.StatusCode)
		suite.Equal(service.InvoicesPath, res.Header.Get("Location"))
	})

	suite.Run("renders field errors", func() {
		state := &model.MutationState{
			Errors:  map[string][]string{"amount": {"Please enter an amount greater than $ 0.00."}},
			Message: "Missing Fields. Failed to Create Invoice.",
		}
		suite.service.On("CreateInvoice", mmock.Anything, (*model.MutationState)(nil), mmock.Anything).
			Return(model.MutationResult{State: state}).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, suite.formRequest(http.MethodPost, "/dashboard/invoices", "amount=0"))
		res := rr.Result()
		defer res.Body.Close()

		suite.Equal(http.StatusUnprocessableEntity, res.StatusCode)

		var got model.MutationState
		suite.NoError(json.NewDecoder(res.Body).Decode(&got))
		suite.Equal(*state, got)
	})

	suite.Run("renders recovered persistence failure", func() {
		state := &model.MutationState{Message: "Database Error: Failed to create Invoice. Message: connection refused"}
		suite.service.On("CreateInvoice", mmock.Anything, (*model.MutationState)(nil), mmock.Anything).
			Return(model.MutationResult{State: state}).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, suite.formRequest(http.MethodPost, "/dashboard/invoices", values.Encode()))
		res := rr.Result()
		defer res.Body.Close()

		suite.Equal(http.StatusOK, res.StatusCode)

		var got model.MutationState
		suite.NoError(json.NewDecoder(res.Body).Decode(&got))
		suite.Equal(*state, got)
	})
}

func (suite *apiTestSuite) TestUpdateInvoice() {
	id := "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e01"
	values := url.Values{
		"customerId": {"c1"},
		"amount":     {"99"},
		"status":     {"paid"},
	}

	suite.service.On("UpdateInvoice", mmock.Anything, id, (*model.MutationState)(nil), values).
		Return(model.MutationResult{Redirect: service.InvoicesPath}).Once()

	rr := httptest.NewRecorder()
	suite.r.ServeHTTP(rr, suite.formRequest(http.MethodPost, "/dashboard/invoices/"+id, values.Encode()))
	res := rr.Result()

	suite.Equal(http.StatusSeeOther, res.StatusCode)
	suite.Equal(service.InvoicesPath, res.Header.Get("Location"))
	suite.service.AssertExpectations(suite.T())
}

func (suite *apiTestSuite) TestDeleteInvoice() {
	id := "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e01"

	suite.service.On("DeleteInvoice", mmock.Anything, id).
		Return(model.MutationState{Message: "Deleted Invoice."}).Once()

	rr := httptest.NewRecorder()
	suite.r.ServeHTTP(rr, suite.formRequest(http.MethodPost, "/dashboard/invoices/"+id+"/delete", ""))
	res := rr.Result()
	defer res.Body.Close()

	suite.Equal(http.StatusOK, res.StatusCode)

	var got model.MutationState
	suite.NoError(json.NewDecoder(res.Body).Decode(&got))
	suite.Equal("Deleted Invoice.", got.Message)
}

func (suite *apiTestSuite) TestListInvoices() {
	suite.Run("fills and serves the cache", func() {
		invoices := []model.Invoice{{
			ID:         uuid.New(),
			CustomerID: uuid.New(),
			Amount:     1550,
			Status:     "pending",
			Date:       time.Date(2023, 6, 17, 0, 0, 0, 0, time.UTC),
		}}
		suite.service.On("GetInvoices", mmock.Anything).Return(invoices, nil).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, suite.formRequest(http.MethodGet, "/dashboard/invoices", ""))
		res := rr.Result()
		defer res.Body.Close()

		suite.Equal(http.StatusOK, res.StatusCode)

		var got []model.Invoice
		suite.NoError(json.NewDecoder(res.Body).Decode(&got))
		suite.Equal(invoices, got)

		_, ok := suite.cache.Get(service.InvoicesPath)
		suite.True(ok)

		// Second request is served from the cache without hitting the service.
		rr = httptest.NewRecorder()
		suite.r.ServeHTTP(rr, suite.formRequest(http.MethodGet, "/dashboard/invoices", ""))
		suite.Equal(http.StatusOK, rr.Result().StatusCode)
		suite.service.AssertNumberOfCalls(suite.T(), "GetInvoices", 1)
	})

	suite.Run("requires a token", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, req)

		suite.Equal(http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func (suite *apiTestSuite) TestLogin() {
	body := url.Values{"email": {"user@nextmail.com"}, "password": {"123456"}}.Encode()

	login := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	suite.Run("good case", func() {
		suite.service.On("Authenticate", mmock.Anything, "user@nextmail.com", "123456").
			Return("token", nil).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, login())
		res := rr.Result()

		suite.Equal(http.StatusOK, res.StatusCode)
		suite.Equal("Bearer token", res.Header.Get("Authorization"))
	})

	suite.Run("invalid credentials", func() {
		suite.service.On("Authenticate", mmock.Anything, "user@nextmail.com", "123456").
			Return("", service.ErrInvalidCredentials).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, login())
		res := rr.Result()
		defer res.Body.Close()

		suite.Equal(http.StatusUnauthorized, res.StatusCode)

		var got api.Message
		suite.NoError(json.NewDecoder(res.Body).Decode(&got))
		suite.Equal("Invalid credentials.", got.Message)
	})

	suite.Run("classified auth failure", func() {
		suite.service.On("Authenticate", mmock.Anything, "user@nextmail.com", "123456").
			Return("", &service.AuthError{Cause: errors.New("connection refused")}).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, login())
		res := rr.Result()
		defer res.Body.Close()

		suite.Equal(http.StatusInternalServerError, res.StatusCode)

		var got api.Message
		suite.NoError(json.NewDecoder(res.Body).Decode(&got))
		suite.Equal("Something went wrong.", got.Message)
	})

	suite.Run("unclassified failure surfaces raw", func() {
		suite.service.On("Authenticate", mmock.Anything, "user@nextmail.com", "123456").
			Return("", errors.New("boom")).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, login())
		res := rr.Result()
		defer res.Body.Close()

		suite.Equal(http.StatusInternalServerError, res.StatusCode)

		b, err := io.ReadAll(res.Body)
		suite.NoError(err)
		suite.Equal("boom\n", string(b))
	})
}

func (suite *apiTestSuite) TestSeed() {
	suite.Run("good case", func() {
		suite.service.On("SeedDatabase", mmock.Anything).Return(nil).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/seed", nil))
		res := rr.Result()
		defer res.Body.Close()

		suite.Equal(http.StatusOK, res.StatusCode)

		var got api.Message
		suite.NoError(json.NewDecoder(res.Body).Decode(&got))
		suite.Equal("Database seeded successfully", got.Message)
	})

	suite.Run("bad case", func() {
		suite.service.On("SeedDatabase", mmock.Anything).
			Return(errors.New("relation does not exist")).Once()

		rr := httptest.NewRecorder()
		suite.r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/seed", nil))
		res := rr.Result()
		defer res.Body.Close()

		suite.Equal(http.StatusInternalServerError, res.StatusCode)

		var got model.Error
		suite.NoError(json.NewDecoder(res.Body).Decode(&got))
		suite.Equal("relation does not exist", got.Error)
	})
}
