package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/models"
)

func TestClient_ListInvestments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/investments", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":2,"farmer_name":"Jane","crop":"Maize","amount":"12.5","created_at":"2025-01-02T10:00:00.000Z"},
			{"id":1,"farmer_name":"John Doe","crop":"Wheat","amount":5000,"created_at":"2025-01-01T10:00:00Z"}
		]`)
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/")
	list, err := c.ListInvestments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, int64(2), list[0].ID)
	assert.True(t, list[0].Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), list[1].CreatedAt.UTC())
}

func TestClient_ListInvestments_NullBodyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	}))
	defer srv.Close()

	list, err := New(srv.URL).ListInvestments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestClient_ListInvestments_Non2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"Failed to fetch investments"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListInvestments(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeFetch))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestClient_ListInvestments_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ListInvestments(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeFetch))
	assert.Equal(t, msgFetchFailed, apperrors.Message(err))
}

func TestClient_CreateInvestment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "John Doe", body["farmer_name"])
		assert.Equal(t, "Wheat", body["crop"])
		assert.Equal(t, float64(5000), body["amount"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":1,"farmer_name":"John Doe","crop":"Wheat","amount":5000,"created_at":"2025-01-01T10:00:00Z"}`)
	}))
	defer srv.Close()

	inv, err := New(srv.URL).CreateInvestment(context.Background(), models.Input{
		FarmerName: "John Doe",
		Crop:       "Wheat",
		Amount:     decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inv.ID)
}

func TestClient_CreateInvestment_RejectionCarriesReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"amount must be a positive number"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateInvestment(context.Background(), models.Input{FarmerName: "a", Crop: "b", Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeCreate))

	var reasonErr interfaces.ReasonError
	require.True(t, errors.As(err, &reasonErr))
	reason, ok := reasonErr.Reason()
	assert.True(t, ok)
	assert.Equal(t, "amount must be a positive number", reason)
}

func TestClient_CreateInvestment_RejectionWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `<html>bad gateway</html>`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateInvestment(context.Background(), models.Input{FarmerName: "a", Crop: "b", Amount: decimal.NewFromInt(1)})
	require.Error(t, err)

	var reasonErr interfaces.ReasonError
	require.True(t, errors.As(err, &reasonErr))
	_, ok := reasonErr.Reason()
	assert.False(t, ok)
	assert.Equal(t, msgCreateFailed, apperrors.Message(err))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).ListInvestments(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeFetch))
	assert.Equal(t, msgTimedOut, apperrors.Message(err))
}

func TestClient_DoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateInvestment(context.Background(), models.Input{FarmerName: "a", Crop: "b", Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
