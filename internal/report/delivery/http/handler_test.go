package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/report/domain"
	"github.com/tair/pharmacy-backend/internal/report/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeStore struct {
	mu          sync.Mutex
	ranges      []domain.Range
	paymentType *uint
	failCOGS    bool
}

func (s *fakeStore) record(r domain.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges = append(s.ranges, r)
}

func (s *fakeStore) SalesTotals(_ context.Context, r domain.Range) (domain.SalesTotals, error) {
	s.record(r)
	return domain.SalesTotals{Count: 3, SubTotal: dec("100"), TaxTotal: dec("10"), DiscountTotal: dec("5"), Total: dec("105")}, nil
}

func (s *fakeStore) COGS(_ context.Context, r domain.Range) (decimal.Decimal, error) {
	if s.failCOGS {
		return decimal.Zero, errors.New("connection reset")
	}
	return dec("40"), nil
}

func (s *fakeStore) ExpenseTotal(context.Context, domain.Range) (decimal.Decimal, error) {
	return dec("25.50"), nil
}

func (s *fakeStore) PaymentTotals(context.Context, domain.Range) ([]domain.PaymentTotal, error) {
	return []domain.PaymentTotal{{PaymentTypeID: 1, Name: "Cash", Amount: dec("105")}}, nil
}

func (s *fakeStore) Sales(_ context.Context, r domain.Range, paymentTypeID *uint, limit int) ([]domain.SaleRow, error) {
	s.record(r)
	s.paymentType = paymentTypeID
	return nil, nil
}

func (s *fakeStore) ReturnTotals(_ context.Context, r domain.Range) (domain.ReturnTotals, error) {
	s.record(r)
	return domain.ReturnTotals{Count: 1, SubTotal: dec("10"), Total: dec("9")}, nil
}

func (s *fakeStore) Returns(_ context.Context, r domain.Range, _ int) ([]domain.ReturnRow, error) {
	s.record(r)
	return nil, nil
}

func (s *fakeStore) ReturnHeader(_ context.Context, id uint) (*domain.ReturnRow, error) {
	if id != 4 {
		return nil, apperror.NotFound("Return not found")
	}
	return &domain.ReturnRow{ID: 4, SaleID: 2, ReturnDate: time.Now(), SubTotal: dec("10"), TotalAmount: dec("9"), DiscountAmount: dec("1")}, nil
}

func (s *fakeStore) ReturnLines(context.Context, uint) ([]domain.ReturnLine, error) {
	return []domain.ReturnLine{{ID: 1, ItemID: 7, SKU: "PARA", ItemName: "Paracetamol", Qty: 2, UnitPrice: dec("5"), LineTotal: dec("10")}}, nil
}

func newTestRouter(store *fakeStore) *mux.Router {
	h := NewReportHandler(
		query.NewPnLHandler(store),
		query.NewSalesListHandler(store),
		query.NewSalesSummaryHandler(store),
		query.NewReturnsListHandler(store),
		query.NewReturnsSummaryHandler(store),
		query.NewReturnDetailHandler(store),
	)
	h.today = func() calendar.Date { return calendar.NewDate(2024, time.May, 3) }
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func get(router *mux.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestPnL(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store)

	rec := get(router, "/reports/pnl?from=2024-05-01")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	var pnl domain.PnL
	if err := json.Unmarshal(rec.Body.Bytes(), &pnl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !pnl.GrossProfit.Equal(dec("60")) || !pnl.NetProfit.Equal(dec("39.50")) {
		t.Errorf("gross = %s net = %s, want 60 / 39.50", pnl.GrossProfit, pnl.NetProfit)
	}
	if pnl.From == nil || pnl.From.String() != "2024-05-01" || pnl.To != nil {
		t.Errorf("range = %v..%v, want open upper bound", pnl.From, pnl.To)
	}

	store.failCOGS = true
	if rec := get(router, "/reports/pnl"); rec.Code != http.StatusInternalServerError {
		t.Errorf("failing query status = %d, want 500", rec.Code)
	}

	for _, path := range []string{"/reports/pnl?from=yesterday", "/reports/pnl?from=2024-05-02&to=2024-05-01"} {
		if rec := get(router, path); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestAdvancedListsDefaultToToday(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store)

	rec := get(router, "/sales/advanced?payment_type_id=2")
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("status = %d body %q, want empty array", rec.Code, rec.Body.String())
	}
	r := store.ranges[0]
	if r.From.String() != "2024-05-03" || r.To.String() != "2024-05-03" {
		t.Errorf("range = %s..%s, want today", r.From, r.To)
	}
	if store.paymentType == nil || *store.paymentType != 2 {
		t.Errorf("payment type = %v", store.paymentType)
	}

	get(router, "/sales-returns/advanced?date_from=2024-04-01")
	r = store.ranges[1]
	if r.From.String() != "2024-04-01" || r.To.String() != "2024-04-01" {
		t.Errorf("range = %s..%s, want to defaulting to from", r.From, r.To)
	}

	if rec := get(router, "/sales/advanced?payment_type_id=cash"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad payment type status = %d", rec.Code)
	}
}

func TestSummariesAndDetail(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	var sales map[string]json.RawMessage
	if err := json.Unmarshal(get(router, "/sales/summary").Body.Bytes(), &sales); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"from", "to", "count", "sub_total", "total", "by_payment_type"} {
		if _, ok := sales[key]; !ok {
			t.Errorf("sales summary missing %q", key)
		}
	}

	var returns domain.ReturnsSummary
	if err := json.Unmarshal(get(router, "/sales-returns/summary").Body.Bytes(), &returns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if returns.Count != 1 || !returns.Total.Equal(dec("9")) {
		t.Errorf("returns summary = %+v", returns)
	}

	rec := get(router, "/sales-returns/4/detail")
	var detail domain.ReturnDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Header.ID != 4 || len(detail.Lines) != 1 || detail.Lines[0].SKU != "PARA" {
		t.Errorf("detail = %+v", detail)
	}

	if rec := get(router, "/sales-returns/5/detail"); rec.Code != http.StatusNotFound {
		t.Errorf("missing return status = %d", rec.Code)
	}
}
