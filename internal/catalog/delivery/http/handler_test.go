package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/catalog/domain"
	"github.com/tair/pharmacy-backend/internal/catalog/usecase/command"
	"github.com/tair/pharmacy-backend/internal/catalog/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// memRepo keeps rows in insertion order and enforces unique names
type memRepo[T any] struct {
	rows  map[uint]T
	next  uint
	id    func(*T) *uint
	name  func(T) string
	label string
}

func newMemRepo[T any](label string, id func(*T) *uint, name func(T) string) *memRepo[T] {
	return &memRepo[T]{rows: map[uint]T{}, id: id, name: name, label: label}
}

func (r *memRepo[T]) List(context.Context) ([]T, error) {
	out := make([]T, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return r.name(out[i]) < r.name(out[j]) })
	return out, nil
}

func (r *memRepo[T]) FindByID(_ context.Context, id uint) (*T, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("%s not found", r.label)
	}
	return &row, nil
}

func (r *memRepo[T]) Create(_ context.Context, entry *T) error {
	for _, row := range r.rows {
		if strings.EqualFold(r.name(row), r.name(*entry)) {
			return apperror.Conflict("%s already exists", r.label)
		}
	}
	r.next++
	*r.id(entry) = r.next
	r.rows[r.next] = *entry
	return nil
}

func (r *memRepo[T]) Update(_ context.Context, entry *T) error {
	r.rows[*r.id(entry)] = *entry
	return nil
}

func (r *memRepo[T]) Delete(_ context.Context, id uint) error {
	if _, ok := r.rows[id]; !ok {
		return apperror.NotFound("%s not found", r.label)
	}
	delete(r.rows, id)
	return nil
}

type currencyList []domain.Currency

func (c currencyList) List(context.Context) ([]domain.Currency, error) { return c, nil }

func newTestRouter() *mux.Router {
	categories := newMemRepo("Category", func(c *domain.Category) *uint { return &c.ID }, func(c domain.Category) string { return c.Name })
	brands := newMemRepo("Brand", func(b *domain.Brand) *uint { return &b.ID }, func(b domain.Brand) string { return b.Name })
	units := newMemRepo("Unit", func(u *domain.Unit) *uint { return &u.ID }, func(u domain.Unit) string { return u.Name })
	suppliers := newMemRepo("Supplier", func(s *domain.Supplier) *uint { return &s.ID }, func(s domain.Supplier) string { return s.Name })
	paymentTypes := newMemRepo("Payment type", func(p *domain.PaymentType) *uint { return &p.ID }, func(p domain.PaymentType) string { return p.Name })
	taxes := newMemRepo("Tax", func(t *domain.Tax) *uint { return &t.ID }, func(t domain.Tax) string { return t.Name })

	currencies := currencyList{
		{Code: "EUR", Symbol: "€", Name: "Euro"},
		{Code: "USD", Symbol: "$", Name: "US Dollar"},
	}

	h := &CatalogHandler{
		Categories:        NewEntries[domain.Category](categories, command.ValidateCategory),
		Brands:            NewEntries[domain.Brand](brands, command.ValidateBrand),
		Units:             NewEntries[domain.Unit](units, command.ValidateUnit),
		Suppliers:         NewEntries[domain.Supplier](suppliers, command.ValidateSupplier),
		PaymentTypes:      NewEntries[domain.PaymentType](paymentTypes, command.ValidatePaymentType),
		Taxes:             NewEntries[domain.Tax](taxes, command.ValidateTax),
		Currencies:        query.NewListHandler[domain.Currency](currencies),
		DeletePaymentType: command.NewDeleteHandler[domain.PaymentType](paymentTypes),
		UpdateTax:         command.NewUpdateTaxHandler(taxes),
		DeleteTax:         command.NewDeleteHandler[domain.Tax](taxes),
	}
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func serve(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCatalogCreateAndList(t *testing.T) {
	router := newTestRouter()

	for _, name := range []string{"Vitamins", "Antibiotics"} {
		rec := serve(router, "POST", "/categories", `{"name":"  `+name+`  "}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: status %d body %s", name, rec.Code, rec.Body.String())
		}
	}

	rec := serve(router, "POST", "/categories", `{"name":"Vitamins"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}

	rec = serve(router, "POST", "/categories", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", rec.Code)
	}

	rec = serve(router, "GET", "/categories", "")
	var rows []domain.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "Antibiotics" || rows[1].Name != "Vitamins" {
		t.Errorf("categories = %+v, want name order with trimmed names", rows)
	}

	rec = serve(router, "POST", "/suppliers", `{"name":"Acme","email":"not-an-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad supplier email status = %d, want 400", rec.Code)
	}
}

func TestTaxLifecycle(t *testing.T) {
	router := newTestRouter()

	rec := serve(router, "POST", "/taxes", `{"name":"VAT","rate":101}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("rate 101 status = %d, want 400", rec.Code)
	}

	rec = serve(router, "POST", "/taxes", `{"name":"VAT","rate":7.5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rec.Code, rec.Body.String())
	}
	var tax domain.Tax
	if err := json.Unmarshal(rec.Body.Bytes(), &tax); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = serve(router, "PUT", "/taxes/1", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty update status = %d, want 400", rec.Code)
	}

	rec = serve(router, "PUT", "/taxes/1", `{"rate":10,"is_default":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tax); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !tax.Rate.Equal(decimal.NewFromInt(10)) || !tax.IsDefault || tax.Name != "VAT" {
		t.Errorf("tax = %+v", tax)
	}

	if rec := serve(router, "DELETE", "/taxes/1", ""); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := serve(router, "DELETE", "/taxes/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
	if rec := serve(router, "PUT", "/taxes/1", `{"rate":1}`); rec.Code != http.StatusNotFound {
		t.Errorf("update missing status = %d, want 404", rec.Code)
	}
}

func TestListCurrencies(t *testing.T) {
	router := newTestRouter()

	rec := serve(router, "GET", "/currencies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rows []domain.Currency
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].Code != "EUR" || rows[1].Symbol != "$" {
		t.Errorf("currencies = %+v", rows)
	}
}
