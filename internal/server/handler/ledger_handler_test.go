package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/accusim-bookkeeping/internal/coordinator"
	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/shared"
)

func TestLedgerHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockService)
	handler := NewLedgerHandler(testLogger(), mockService)

	mockService.On("State").Return(coordinator.State{Ledgers: ledger.Defaults()})

	router := gin.New()
	router.GET("/ledgers", handler.List)

	req, _ := http.NewRequest(http.MethodGet, "/ledgers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []ledger.Ledger `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 12)
}

func TestLedgerHandler_Update(t *testing.T) {
	logger := testLogger()
	gin.SetMode(gin.TestMode)

	target := ledger.Defaults()[1]

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewLedgerHandler(logger, mockService)

		updatedSet := ledger.Defaults()
		updatedSet[1].Balance = decimal.NewFromInt(70000)

		mockService.On("UpdateLedger", mock.Anything, mock.MatchedBy(func(l ledger.Ledger) bool {
			return l.ID == target.ID &&
				l.Balance.Equal(decimal.NewFromInt(70000)) &&
				l.BalanceType == shared.Debit
		})).Return(updatedSet, nil)

		router := gin.New()
		router.PUT("/ledgers/:id", handler.Update)

		body, _ := json.Marshal(UpdateLedgerRequest{Balance: "70000", BalanceType: "Dr"})
		req, _ := http.NewRequest(http.MethodPut, "/ledgers/"+target.ID.String(), bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []ledger.Ledger `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, decimal.NewFromInt(70000).Equal(resp.Data[1].Balance))
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewLedgerHandler(logger, mockService)

		router := gin.New()
		router.PUT("/ledgers/:id", handler.Update)

		body, _ := json.Marshal(UpdateLedgerRequest{Balance: "70000", BalanceType: "Dr"})
		req, _ := http.NewRequest(http.MethodPut, "/ledgers/not-a-uuid", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UpdateLedger", mock.Anything, mock.Anything)
	})

	t.Run("InvalidBalance", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewLedgerHandler(logger, mockService)

		router := gin.New()
		router.PUT("/ledgers/:id", handler.Update)

		body, _ := json.Marshal(UpdateLedgerRequest{Balance: "seventy", BalanceType: "Dr"})
		req, _ := http.NewRequest(http.MethodPut, "/ledgers/"+target.ID.String(), bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidBalanceType", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewLedgerHandler(logger, mockService)

		router := gin.New()
		router.PUT("/ledgers/:id", handler.Update)

		body, _ := json.Marshal(UpdateLedgerRequest{Balance: "70000", BalanceType: "Debit"})
		req, _ := http.NewRequest(http.MethodPut, "/ledgers/"+target.ID.String(), bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownLedger", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewLedgerHandler(logger, mockService)

		unknownID := uuid.New()
		mockService.On("UpdateLedger", mock.Anything, mock.Anything).
			Return(nil, ledger.ErrLedgerNotFound{ID: unknownID})

		router := gin.New()
		router.PUT("/ledgers/:id", handler.Update)

		body, _ := json.Marshal(UpdateLedgerRequest{Balance: "70000", BalanceType: "Dr"})
		req, _ := http.NewRequest(http.MethodPut, "/ledgers/"+unknownID.String(), bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
