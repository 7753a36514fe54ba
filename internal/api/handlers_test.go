package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/farminvest/internal/events"
	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/ledger"
	"github.com/sheikh-saqib/farminvest/internal/logging"
	"github.com/sheikh-saqib/farminvest/internal/models"
	"github.com/sheikh-saqib/farminvest/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	clock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	store := memory.NewMemoryInvestmentStoreWithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})
	return routerFor(store)
}

func routerFor(store interfaces.InvestmentStore) *gin.Engine {
	logger := logging.Discard()
	l := ledger.NewLedger(store, events.NewLogPublisher(logger), logger)
	return NewRouter(NewHandlers(l), logger)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestHandleCreateInvestment_Created(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/investments",
		`{"farmer_name":" John Doe ","crop":"Wheat","amount":5000}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "John Doe", body["farmer_name"])
	assert.Equal(t, "Wheat", body["crop"])
	assert.Equal(t, float64(5000), body["amount"])
	assert.Equal(t, "2025-01-01T10:01:00Z", body["created_at"])
}

func TestHandleCreateInvestment_AmountAsString(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/investments",
		`{"farmer_name":"John","crop":"Rice","amount":"12.50"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var inv models.Investment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, "12.5", inv.Amount.String())
}

func TestHandleCreateInvestment_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing farmer", `{"crop":"Wheat","amount":1}`, MsgFarmerNameRequired},
		{"blank farmer", `{"farmer_name":"  ","crop":"Wheat","amount":1}`, MsgFarmerNameRequired},
		{"farmer not a string", `{"farmer_name":12,"crop":"Wheat","amount":1}`, MsgFarmerNameRequired},
		{"missing crop", `{"farmer_name":"John","amount":1}`, MsgCropRequired},
		{"zero amount", `{"farmer_name":"John","crop":"Wheat","amount":0}`, MsgAmountInvalid},
		{"negative amount", `{"farmer_name":"John","crop":"Wheat","amount":-5}`, MsgAmountInvalid},
		{"text amount", `{"farmer_name":"John","crop":"Wheat","amount":"abc"}`, MsgAmountInvalid},
		{"bool amount", `{"farmer_name":"John","crop":"Wheat","amount":true}`, MsgAmountInvalid},
		{"amount beyond float range", `{"farmer_name":"John","crop":"Wheat","amount":1e400}`, MsgAmountInvalid},
		{"amount with huge exponent", `{"farmer_name":"John","crop":"Wheat","amount":1e5000000}`, MsgAmountInvalid},
		{"amount below store precision", `{"farmer_name":"John","crop":"Wheat","amount":0.000000001}`, MsgAmountInvalid},
		{"malformed json", `{"farmer_name":`, MsgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(t)

			w := doRequest(router, http.MethodPost, "/api/investments", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestHandleListInvestments_NewestFirst(t *testing.T) {
	router := setupTestRouter(t)

	for _, crop := range []string{"Wheat", "Maize"} {
		w := doRequest(router, http.MethodPost, "/api/investments",
			`{"farmer_name":"John","crop":"`+crop+`","amount":10}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(router, http.MethodGet, "/api/investments", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Investment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Maize", list[0].Crop)
	assert.Equal(t, "Wheat", list[1].Crop)
}

func TestHandleListInvestments_EmptyIsArray(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/investments", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

type brokenStore struct{}

func (brokenStore) Create(context.Context, models.Input) (models.Investment, error) {
	return models.Investment{}, errors.New("disk full")
}

func (brokenStore) List(context.Context) ([]models.Investment, error) {
	return nil, errors.New("disk full")
}

func TestHandlers_StoreFailuresAre500(t *testing.T) {
	router := routerFor(brokenStore{})

	w := doRequest(router, http.MethodGet, "/api/investments", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"`+MsgFetchFailed+`"}`, w.Body.String())

	w = doRequest(router, http.MethodPost, "/api/investments", `{"farmer_name":"a","crop":"b","amount":1}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"`+MsgCreateFailed+`"}`, w.Body.String())
}

func TestRequestLogger_EchoesRequestID(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
