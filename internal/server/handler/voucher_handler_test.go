package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/accusim-bookkeeping/internal/coordinator"
	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/domain/shared"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
	"github.com/accusim-bookkeeping/internal/extraction"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) State() coordinator.State {
	return m.Called().Get(0).(coordinator.State)
}

func (m *MockService) Analyze(ctx context.Context, text string, image *extraction.InlineImage) (*voucher.Proposal, error) {
	args := m.Called(ctx, text, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Proposal), args.Error(1)
}

func (m *MockService) PostVoucher(ctx context.Context, p *voucher.Proposal) (*coordinator.PostResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coordinator.PostResult), args.Error(1)
}

func (m *MockService) UpdateLedger(ctx context.Context, l ledger.Ledger) ([]ledger.Ledger, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Ledger), args.Error(1)
}

func (m *MockService) SaveProfile(ctx context.Context, p profile.BusinessProfile) error {
	return m.Called(ctx, p).Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func sampleProposal() *voucher.Proposal {
	return &voucher.Proposal{
		Date: "2024-06-01",
		Type: shared.VoucherSales,
		Entries: []voucher.ProposedEntry{
			{LedgerName: "Cash", Amount: decimal.NewFromInt(6000), Side: shared.Debit},
			{LedgerName: "Sales Account", Amount: decimal.NewFromInt(6000), Side: shared.Credit},
		},
		Classification: shared.ClassificationB2C,
		Verification:   voucher.Verification{Status: shared.VerificationVerified, Message: "ok"},
	}
}

func TestVoucherHandler_Analyze(t *testing.T) {
	logger := testLogger()
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewVoucherHandler(logger, mockService)

		mockService.On("Analyze", mock.Anything, "Sold goods for 6000 cash", (*extraction.InlineImage)(nil)).
			Return(sampleProposal(), nil)

		router := gin.New()
		router.POST("/vouchers/analyze", handler.Analyze)

		body, _ := json.Marshal(AnalyzeRequest{Text: "Sold goods for 6000 cash"})
		req, _ := http.NewRequest(http.MethodPost, "/vouchers/analyze", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data voucher.Proposal `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, shared.VoucherSales, resp.Data.Type)
		assert.Len(t, resp.Data.Entries, 2)
	})

	t.Run("DecodesImage", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewVoucherHandler(logger, mockService)

		mockService.On("Analyze", mock.Anything, "", mock.MatchedBy(func(img *extraction.InlineImage) bool {
			return img != nil && string(img.Data) == "receipt-bytes" && img.MIMEType == "image/png"
		})).Return(sampleProposal(), nil)

		router := gin.New()
		router.POST("/vouchers/analyze", handler.Analyze)

		body, _ := json.Marshal(AnalyzeRequest{
			ImageData:     "cmVjZWlwdC1ieXRlcw==",
			ImageMIMEType: "image/png",
		})
		req, _ := http.NewRequest(http.MethodPost, "/vouchers/analyze", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("BadBase64", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewVoucherHandler(logger, mockService)

		router := gin.New()
		router.POST("/vouchers/analyze", handler.Analyze)

		body, _ := json.Marshal(AnalyzeRequest{ImageData: "!!not-base64!!"})
		req, _ := http.NewRequest(http.MethodPost, "/vouchers/analyze", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoInput", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewVoucherHandler(logger, mockService)

		mockService.On("Analyze", mock.Anything, "", (*extraction.InlineImage)(nil)).
			Return(nil, coordinator.ErrNoInput)

		router := gin.New()
		router.POST("/vouchers/analyze", handler.Analyze)

		req, _ := http.NewRequest(http.MethodPost, "/vouchers/analyze", bytes.NewBufferString("{}"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ExtractionFailureIsBadGateway", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewVoucherHandler(logger, mockService)

		mockService.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &extraction.Error{Message: "AI service returned status 429"})

		router := gin.New()
		router.POST("/vouchers/analyze", handler.Analyze)

		body, _ := json.Marshal(AnalyzeRequest{Text: "anything"})
		req, _ := http.NewRequest(http.MethodPost, "/vouchers/analyze", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "EXTRACTION_FAILED", resp.Error.Code)
		assert.Equal(t, "AI service returned status 429", resp.Error.Message)
	})
}

func TestVoucherHandler_Post(t *testing.T) {
	logger := testLogger()
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewVoucherHandler(logger, mockService)

		posted := &coordinator.PostResult{
			Voucher: &voucher.Voucher{Number: "V-0001", Type: shared.VoucherSales},
			Totals:  voucher.EntryTotals{Balanced: true},
		}
		mockService.On("PostVoucher", mock.Anything, mock.MatchedBy(func(p *voucher.Proposal) bool {
			return p.Type == shared.VoucherSales && len(p.Entries) == 2
		})).Return(posted, nil)

		router := gin.New()
		router.POST("/vouchers", handler.Post)

		body, _ := json.Marshal(PostVoucherRequest{Proposal: *sampleProposal()})
		req, _ := http.NewRequest(http.MethodPost, "/vouchers", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data coordinator.PostResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "V-0001", resp.Data.Voucher.Number)
	})

	t.Run("InvalidProposalIsUnprocessable", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewVoucherHandler(logger, mockService)

		mockService.On("PostVoucher", mock.Anything, mock.Anything).
			Return(nil, voucher.ErrNoEntries)

		router := gin.New()
		router.POST("/vouchers", handler.Post)

		p := sampleProposal()
		p.Entries = nil
		body, _ := json.Marshal(PostVoucherRequest{Proposal: *p})
		req, _ := http.NewRequest(http.MethodPost, "/vouchers", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		mockService := new(MockService)
		handler := NewVoucherHandler(logger, mockService)

		router := gin.New()
		router.POST("/vouchers", handler.Post)

		req, _ := http.NewRequest(http.MethodPost, "/vouchers", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "PostVoucher", mock.Anything, mock.Anything)
	})
}

func TestVoucherHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockService)
	handler := NewVoucherHandler(testLogger(), mockService)

	mockService.On("State").Return(coordinator.State{
		Vouchers: []voucher.Voucher{{Number: "V-0002"}, {Number: "V-0001"}},
	})

	router := gin.New()
	router.GET("/vouchers", handler.List)

	req, _ := http.NewRequest(http.MethodGet, "/vouchers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []voucher.Voucher `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "V-0002", resp.Data[0].Number)
}
