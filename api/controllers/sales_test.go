package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jewelstack/jewelpos-backend/internal/billing"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
)

type capturingBillWriter struct {
	created []models.Bill
	failAt  int // 1-based call index that errors; 0 means never
	calls   int
	err     error
}

func (w *capturingBillWriter) CreateBill(_ context.Context, bill *models.Bill) (*models.Bill, error) {
	w.calls++
	if w.failAt > 0 && w.calls >= w.failAt {
		return nil, w.err
	}
	saved := *bill
	w.created = append(w.created, saved)
	return &saved, nil
}

func saleFixture(t *testing.T, writer *capturingBillWriter) (http.HandlerFunc, *billing.SessionStore) {
	t.Helper()
	engine, err := billing.NewEngine(writer, nil, testLogger(t))
	require.NoError(t, err)

	sessions := billing.NewSessionStore(time.Hour, billing.Context{MakingChargePercent: 10, GSTPercent: 3})
	state := testAppState(t, []models.Product{goldRing(5)})
	return CompleteSale(engine, sessions, state, testLogger(t)), sessions
}

func TestCompleteSalePersistsAndResetsSession(t *testing.T) {
	writer := &capturingBillWriter{}
	handler, sessions := saleFixture(t, writer)

	sessions.WithCart("default", func(c *billing.Cart) { c.AddLine(goldRing(5)) })
	sessions.SetContext("default", billing.Context{
		GoldRatePer10g:      50000,
		MakingChargePercent: 10,
		GSTPercent:          3,
	})

	body := `{"customerName":"Asha","customerPhone":"9000000000"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Len(t, writer.created, 1)
	require.Equal(t, "Asha", writer.created[0].CustomerName)
	require.InDelta(t, 56650.0, writer.created[0].TotalAmount, 0.001)

	var envelope struct {
		Data billing.SaleResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data.BillNos, 1)
	require.True(t, strings.HasPrefix(envelope.Data.BillNos[0], "INV-"))

	// cart cleared, rates zeroed, percentages kept for the next sale
	require.Empty(t, sessions.Cart("default"))
	bctx := sessions.Context("default")
	require.Zero(t, bctx.GoldRatePer10g)
	require.Equal(t, 10.0, bctx.MakingChargePercent)
}

func TestCompleteSaleEmptyCartRejected(t *testing.T) {
	writer := &capturingBillWriter{}
	handler, _ := saleFixture(t, writer)

	body := `{"customerName":"Asha","customerPhone":"9000000000"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Zero(t, writer.calls)
}

func TestCompleteSaleMissingCustomerRejected(t *testing.T) {
	writer := &capturingBillWriter{}
	handler, sessions := saleFixture(t, writer)
	sessions.WithCart("default", func(c *billing.Cart) { c.AddLine(goldRing(5)) })

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(`{"customerName":"Asha"}`)))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Zero(t, writer.calls)
}

func TestCompleteSalePartialKeepsSession(t *testing.T) {
	writer := &capturingBillWriter{failAt: 2, err: context.DeadlineExceeded}
	handler, sessions := saleFixture(t, writer)

	second := goldRing(5)
	second.ProductID = "P-200"
	second.Name = "Gold Chain"
	sessions.WithCart("default", func(c *billing.Cart) {
		c.AddLine(goldRing(5))
		c.AddLine(second)
	})
	sessions.SetContext("default", billing.Context{
		GoldRatePer10g:      50000,
		MakingChargePercent: 10,
		GSTPercent:          3,
	})

	body := `{"customerName":"Asha","customerPhone":"9000000000"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body)))

	require.Equal(t, http.StatusBadGateway, resp.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "PARTIAL_SUBMISSION", envelope.Error.Code)
	require.Contains(t, envelope.Error.Message, "1 of 2 bills persisted")

	// the session survives so the unrecorded line can be retried
	require.Len(t, sessions.Cart("default"), 2)
	require.Equal(t, 50000.0, sessions.Context("default").GoldRatePer10g)
}
