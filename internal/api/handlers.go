// Package api exposes the investment store over HTTP/JSON.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	"github.com/sheikh-saqib/farminvest/internal/ledger"
	"github.com/sheikh-saqib/farminvest/internal/validation"
)

// Messages returned in the "error" field of failed responses.
const (
	MsgFarmerNameRequired = apperrors.WireOwnerRequired
	MsgCropRequired       = apperrors.WireCategoryRequired
	MsgAmountInvalid      = apperrors.WireAmountInvalid
	MsgInvalidBody        = "invalid request body"
	MsgFetchFailed        = "Failed to fetch investments"
	MsgCreateFailed       = "Failed to create investment"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateInvestmentRequest keeps the raw fields so that wrong JSON types turn
// into validation failures instead of decode errors. amount may be a number
// or a numeric string.
type CreateInvestmentRequest struct {
	FarmerName json.RawMessage `json:"farmer_name"`
	Crop       json.RawMessage `json:"crop"`
	Amount     json.RawMessage `json:"amount"`
}

// Candidate converts the raw request into validation input.
func (r CreateInvestmentRequest) Candidate() validation.Candidate {
	return validation.Candidate{
		Owner:      rawString(r.FarmerName),
		Category:   rawString(r.Crop),
		AmountText: rawAmount(r.Amount),
	}
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func rawAmount(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		return rawString(raw)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}

// Handlers serves the investments endpoints.
type Handlers struct {
	ledger *ledger.Ledger
}

func NewHandlers(l *ledger.Ledger) *Handlers {
	return &Handlers{ledger: l}
}

// HandleListInvestments serves GET /investments.
func (h *Handlers) HandleListInvestments(c *gin.Context) {
	investments, err := h.ledger.ListInvestments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgFetchFailed})
		return
	}
	c.JSON(http.StatusOK, investments)
}

// HandleCreateInvestment serves POST /investments.
func (h *Handlers) HandleCreateInvestment(c *gin.Context) {
	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidBody})
		return
	}

	inv, err := h.ledger.PostInvestment(c.Request.Context(), req.Candidate())
	if err != nil {
		if apperrors.Is(err, apperrors.CodeValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: apperrors.WireMessage(apperrors.Message(err))})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgCreateFailed})
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// HandleHealth serves GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
