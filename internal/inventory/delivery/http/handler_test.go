package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/internal/inventory/repository/memstore"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/command"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/query"
)

type testServer struct {
	router *mux.Router
	reg    *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	store.AddSupplier(1, "Acme Pharma")
	store.AddCustomer(1, "Jane Doe")
	store.AddPaymentType(1, "Cash")

	cache := domain.NopLookupCache{}
	cmd := Commands{
		CreateItem:       command.NewCreateItemHandler(store, cache),
		UpdateItem:       command.NewUpdateItemHandler(store, cache),
		CreateBatch:      command.NewCreateBatchHandler(store, cache),
		AdjustBatch:      command.NewAdjustBatchHandler(store, cache),
		RecalculateStock: command.NewRecalculateStockHandler(store, cache),
		CreatePurchase:   command.NewCreatePurchaseHandler(store, cache),
		CreateSale:       command.NewCreateSaleHandler(store, cache, domain.NopSaleHook{}),
		CreateReturn:     command.NewCreateReturnHandler(store, cache),
		CreateReorder:    command.NewCreateReorderHandler(store, domain.NopItemLocker{}),
		UpdateReorder:    command.NewUpdateReorderHandler(store),
		DeleteReorder:    command.NewDeleteReorderHandler(store),
	}
	qry := Queries{
		ListItems:      query.NewListItemsHandler(store),
		GetItem:        query.NewGetItemHandler(store),
		LookupItems:    query.NewLookupItemsHandler(store, cache),
		ListBatches:    query.NewListBatchesHandler(store),
		ListPurchases:  query.NewListPurchasesHandler(store),
		GetPurchase:    query.NewGetPurchaseHandler(store),
		ListSales:      query.NewListSalesHandler(store),
		GetSale:        query.NewGetSaleHandler(store),
		ListReturns:    query.NewListReturnsHandler(store),
		GetReturn:      query.NewGetReturnHandler(store),
		ListReorders:   query.NewListReordersHandler(store),
		ReorderStats:   query.NewReorderStatsHandler(store),
		SuggestReorder: query.NewSuggestReorderHandler(store),
	}

	reg := prometheus.NewRegistry()
	router := mux.NewRouter()
	NewInventoryHandler(cmd, qry, reg).RegisterRoutes(router)
	return &testServer{router: router, reg: reg}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

// seedItem creates an item and receives two batches: A (20, expires
// first) and B (10)
func (s *testServer) seedItem(t *testing.T) uint {
	t.Helper()
	rec := s.do(t, "POST", "/items", `{"sku":"PARA-500","name":"Paracetamol 500mg","unit_price":2.50,"cost_price":1.25}`)
	expectStatus(t, rec, http.StatusCreated)
	var item domain.Item
	decode(t, rec, &item)
	if item.StockQty != 0 {
		t.Fatalf("new item stock = %d", item.StockQty)
	}

	body := fmt.Sprintf(`{"supplier_id":1,"lines":[
		{"item_id":%d,"batch_no":"A","expiry_date":"2025-01-01","qty":20,"unit_cost":1.25},
		{"item_id":%d,"batch_no":"B","expiry_date":"2025-06-01","qty":10,"unit_cost":1.25}]}`, item.ID, item.ID)
	expectStatus(t, s.do(t, "POST", "/purchases", body), http.StatusCreated)
	return item.ID
}

func TestCheckoutAndReturnOverHTTP(t *testing.T) {
	s := newTestServer(t)
	itemID := s.seedItem(t)

	rec := s.do(t, "GET", fmt.Sprintf("/items/%d", itemID), "")
	expectStatus(t, rec, http.StatusOK)
	var item domain.Item
	decode(t, rec, &item)
	if item.StockQty != 30 {
		t.Fatalf("stock after purchase = %d, want 30", item.StockQty)
	}

	rec = s.do(t, "POST", "/sales", fmt.Sprintf(`{"customer_id":1,"payment_type_id":1,"items":[{"item_id":%d,"qty":25}]}`, itemID))
	expectStatus(t, rec, http.StatusCreated)
	var sale command.SaleResult
	decode(t, rec, &sale)
	if !sale.SubTotal.Equal(decimal.RequireFromString("62.50")) {
		t.Errorf("sub_total = %s, want 62.50", sale.SubTotal)
	}
	if sale.LineCount != 2 {
		t.Errorf("line_count = %d, want 2", sale.LineCount)
	}

	rec = s.do(t, "GET", fmt.Sprintf("/sales/%d", sale.ID), "")
	expectStatus(t, rec, http.StatusOK)
	var detail struct {
		Header map[string]any   `json:"header"`
		Lines  []map[string]any `json:"lines"`
	}
	decode(t, rec, &detail)
	if detail.Header["customer_name"] != "Jane Doe" {
		t.Errorf("customer_name = %v", detail.Header["customer_name"])
	}
	if len(detail.Lines) != 2 || detail.Lines[0]["batch_no"] != "A" || detail.Lines[1]["batch_no"] != "B" {
		t.Errorf("lines = %v, want A then B", detail.Lines)
	}

	rec = s.do(t, "POST", fmt.Sprintf("/sales/%d/returns", sale.ID), fmt.Sprintf(`{"lines":[{"item_id":%d,"qty":26}]}`, itemID))
	expectStatus(t, rec, http.StatusBadRequest)
	var failure map[string]string
	decode(t, rec, &failure)
	if failure["error"] == "" {
		t.Errorf("error body = %s", rec.Body.String())
	}

	rec = s.do(t, "POST", fmt.Sprintf("/sales/%d/returns", sale.ID), fmt.Sprintf(`{"lines":[{"item_id":%d,"qty":25}]}`, itemID))
	expectStatus(t, rec, http.StatusCreated)
	var ret command.ReturnResult
	decode(t, rec, &ret)
	if !ret.TotalAmount.Equal(decimal.RequireFromString("62.50")) {
		t.Errorf("return total = %s, want 62.50", ret.TotalAmount)
	}

	rec = s.do(t, "GET", fmt.Sprintf("/items/%d/batches", itemID), "")
	expectStatus(t, rec, http.StatusOK)
	var batches []domain.Batch
	decode(t, rec, &batches)
	got := map[string]int{}
	for _, b := range batches {
		got[b.BatchNo] = b.Qty
	}
	if got["A"] != 20 || got["B"] != 10 {
		t.Errorf("batches after full return = %v", got)
	}

	rec = s.do(t, "GET", fmt.Sprintf("/sales/%d/returns", sale.ID), "")
	expectStatus(t, rec, http.StatusOK)
	var returns []map[string]any
	decode(t, rec, &returns)
	if len(returns) != 1 {
		t.Errorf("returns = %d, want 1", len(returns))
	}

	if v := counterValue(t, s.reg, "pharmacy_sales_total"); v != 1 {
		t.Errorf("pharmacy_sales_total = %v, want 1", v)
	}
	if v := counterValue(t, s.reg, "pharmacy_returns_total"); v != 1 {
		t.Errorf("pharmacy_returns_total = %v, want 1", v)
	}
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t)
	itemID := s.seedItem(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "sale without lines",
			method:     "POST",
			path:       "/sales",
			body:       `{"customer_id":1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "lines must contain at least one entry",
		},
		{
			name:       "sale with zero qty",
			method:     "POST",
			path:       "/sales",
			body:       fmt.Sprintf(`{"lines":[{"item_id":%d,"qty":0}]}`, itemID),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "sale beyond stock",
			method:     "POST",
			path:       "/sales",
			body:       fmt.Sprintf(`{"lines":[{"item_id":%d,"qty":31}]}`, itemID),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "item without unit price",
			method:     "POST",
			path:       "/items",
			body:       `{"sku":"X","name":"X"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "unit_price is required",
		},
		{
			name:       "malformed body",
			method:     "POST",
			path:       "/items",
			body:       `{"sku":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "purchase with unknown supplier",
			method:     "POST",
			path:       "/purchases",
			body:       fmt.Sprintf(`{"supplier_id":99,"lines":[{"item_id":%d,"batch_no":"C","qty":1,"unit_cost":1}]}`, itemID),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "purchase line without qty",
			method:     "POST",
			path:       "/purchases",
			body:       fmt.Sprintf(`{"supplier_id":1,"lines":[{"item_id":%d,"batch_no":"C","unit_cost":1}]}`, itemID),
			wantStatus: http.StatusBadRequest,
			wantError:  "lines[0].qty is required",
		},
		{
			name:       "purchase line without unit cost",
			method:     "POST",
			path:       "/purchases",
			body:       fmt.Sprintf(`{"supplier_id":1,"lines":[{"item_id":%d,"batch_no":"C","qty":1}]}`, itemID),
			wantStatus: http.StatusBadRequest,
			wantError:  "lines[0].unit_cost is required",
		},
		{
			name:       "batch qty null",
			method:     "PUT",
			path:       fmt.Sprintf("/items/%d/batches/1", itemID),
			body:       `{"qty":null}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "qty cannot be null",
		},
		{
			name:       "unknown item",
			method:     "GET",
			path:       "/items/999",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown sale",
			method:     "GET",
			path:       "/sales/999",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			expectStatus(t, rec, tt.wantStatus)
			if tt.wantError == "" {
				return
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
		})
	}

	rec := s.do(t, "GET", fmt.Sprintf("/items/%d", itemID), "")
	var item domain.Item
	decode(t, rec, &item)
	if item.StockQty != 30 {
		t.Errorf("stock after rejected requests = %d, want 30", item.StockQty)
	}
}

func TestReorderCreateThenMerge(t *testing.T) {
	s := newTestServer(t)
	itemID := s.seedItem(t)

	body := fmt.Sprintf(`{"item_id":%d,"requested_qty":4}`, itemID)
	expectStatus(t, s.do(t, "POST", "/reorders", body), http.StatusCreated)

	rec := s.do(t, "POST", "/reorders", body)
	expectStatus(t, rec, http.StatusOK)
	var reorder domain.Reorder
	decode(t, rec, &reorder)
	if reorder.RequestedQty != 8 {
		t.Errorf("merged qty = %d, want 8", reorder.RequestedQty)
	}

	rec = s.do(t, "PUT", fmt.Sprintf("/reorders/%d", reorder.ID), `{"status":"bogus"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, "GET", "/reorders/stats", "")
	expectStatus(t, rec, http.StatusOK)
	var stats map[string]int
	decode(t, rec, &stats)
	if stats["pending"] != 1 {
		t.Errorf("pending = %d, want 1", stats["pending"])
	}

	rec = s.do(t, "DELETE", fmt.Sprintf("/reorders/%d", reorder.ID), "")
	expectStatus(t, rec, http.StatusOK)
	expectStatus(t, s.do(t, "DELETE", fmt.Sprintf("/reorders/%d", reorder.ID), ""), http.StatusNotFound)

	rec = s.do(t, "GET", "/reorders/suggest/999", "")
	expectStatus(t, rec, http.StatusOK)
	var suggestion query.Suggestion
	decode(t, rec, &suggestion)
	if suggestion.SuggestedQty != 1 {
		t.Errorf("suggestion for unknown item = %d, want 1", suggestion.SuggestedQty)
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}
