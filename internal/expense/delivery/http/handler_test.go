package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/expense/domain"
	"github.com/tair/pharmacy-backend/internal/expense/usecase/command"
	"github.com/tair/pharmacy-backend/internal/expense/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

type memStore struct {
	categories map[uint]domain.Category
	expenses   []domain.Expense
	nextCat    uint
}

type memCategories struct{ s *memStore }

func (r memCategories) List(context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCategories) FindByID(_ context.Context, id uint) (*domain.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, apperror.NotFound("Expense category not found")
	}
	return &c, nil
}

func (r memCategories) Create(_ context.Context, c *domain.Category) error {
	r.s.nextCat++
	c.ID = r.s.nextCat
	r.s.categories[c.ID] = *c
	return nil
}

func (r memCategories) Update(_ context.Context, c *domain.Category) error {
	r.s.categories[c.ID] = *c
	return nil
}

func (r memCategories) Delete(_ context.Context, id uint) error {
	if _, ok := r.s.categories[id]; !ok {
		return apperror.NotFound("Expense category not found")
	}
	for _, e := range r.s.expenses {
		if e.CategoryID == id {
			return apperror.Conflict("Expense category is in use")
		}
	}
	delete(r.s.categories, id)
	return nil
}

type memExpenses struct{ s *memStore }

func (r memExpenses) match(e domain.Expense, f domain.Filter) bool {
	if f.From != nil && e.ExpenseDate.Before(*f.From) {
		return false
	}
	if f.To != nil && e.ExpenseDate.After(*f.To) {
		return false
	}
	return f.CategoryID == nil || *f.CategoryID == e.CategoryID
}

func (r memExpenses) List(_ context.Context, f domain.Filter) ([]domain.ExpenseView, error) {
	var out []domain.ExpenseView
	for i := len(r.s.expenses) - 1; i >= 0; i-- {
		e := r.s.expenses[i]
		if r.match(e, f) {
			out = append(out, domain.ExpenseView{Expense: e, CategoryName: r.s.categories[e.CategoryID].Name})
		}
	}
	return out, nil
}

func (r memExpenses) Create(_ context.Context, e *domain.Expense) error {
	if _, ok := r.s.categories[e.CategoryID]; !ok {
		return apperror.ForeignKey("Invalid category_id")
	}
	e.ID = uint(len(r.s.expenses) + 1)
	r.s.expenses = append(r.s.expenses, *e)
	return nil
}

func (r memExpenses) Delete(_ context.Context, id uint) error {
	for i, e := range r.s.expenses {
		if e.ID == id {
			r.s.expenses = append(r.s.expenses[:i], r.s.expenses[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("Expense not found")
}

func (r memExpenses) ByCategory(_ context.Context, f domain.Filter) ([]domain.CategoryTotals, error) {
	totals := map[uint]*domain.CategoryTotals{}
	for _, e := range r.s.expenses {
		if !r.match(e, f) {
			continue
		}
		t, ok := totals[e.CategoryID]
		if !ok {
			t = &domain.CategoryTotals{CategoryID: e.CategoryID, CategoryName: r.s.categories[e.CategoryID].Name}
			totals[e.CategoryID] = t
		}
		t.Count++
		t.Total = t.Total.Add(e.Amount)
	}
	var out []domain.CategoryTotals
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out, nil
}

func newTestRouter() *mux.Router {
	s := &memStore{categories: map[uint]domain.Category{}}
	cats, exps := memCategories{s}, memExpenses{s}
	h := NewExpenseHandler(
		command.NewCreateCategoryHandler(cats),
		command.NewRenameCategoryHandler(cats),
		command.NewDeleteCategoryHandler(cats),
		command.NewCreateExpenseHandler(exps),
		command.NewDeleteExpenseHandler(exps),
		query.NewListCategoriesHandler(cats),
		query.NewListExpensesHandler(exps),
		query.NewSummaryHandler(exps),
	)
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

func TestExpenseSummary(t *testing.T) {
	router := newTestRouter()

	for _, name := range []string{"Rent", "Utilities"} {
		if rec := serve(router, "POST", "/expense-categories", `{"name":"`+name+`"}`); rec.Code != http.StatusCreated {
			t.Fatalf("create category %s: %d %s", name, rec.Code, rec.Body.String())
		}
	}

	for _, body := range []string{
		`{"category_id":1,"amount":1000,"expense_date":"2024-03-01"}`,
		`{"category_id":2,"amount":120.50,"expense_date":"2024-03-05","description":"  power  "}`,
		`{"category_id":2,"amount":80,"expense_date":"2024-04-02"}`,
	} {
		if rec := serve(router, "POST", "/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("create expense %s: %d %s", body, rec.Code, rec.Body.String())
		}
	}

	rec := serve(router, "GET", "/expenses/summary?from=2024-03-01&to=2024-03-31", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d body %s", rec.Code, rec.Body.String())
	}
	var summary domain.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Overall.Count != 2 || !summary.Overall.Total.Equal(decimal.RequireFromString("1120.50")) {
		t.Errorf("overall = %+v, want 2 / 1120.50", summary.Overall)
	}
	if len(summary.ByCategory) != 2 || summary.ByCategory[0].CategoryName != "Rent" {
		t.Errorf("by_category = %+v", summary.ByCategory)
	}

	rec = serve(router, "GET", "/expenses?category_id=2", "")
	var rows []domain.ExpenseView
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].ExpenseDate.String() != "2024-04-02" || rows[0].CategoryName != "Utilities" {
		t.Errorf("utilities = %+v, want newest first", rows)
	}
	if rows[1].Description == nil || *rows[1].Description != "power" {
		t.Errorf("description = %v, want trimmed", rows[1].Description)
	}
}

func TestExpenseValidation(t *testing.T) {
	router := newTestRouter()
	serve(router, "POST", "/expense-categories", `{"name":"Rent"}`)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"negative amount", "POST", "/expenses", `{"category_id":1,"amount":-1}`, http.StatusBadRequest},
		{"missing amount", "POST", "/expenses", `{"category_id":1}`, http.StatusBadRequest},
		{"unknown category", "POST", "/expenses", `{"category_id":9,"amount":5}`, http.StatusBadRequest},
		{"bad date filter", "GET", "/expenses?from=March", "", http.StatusBadRequest},
		{"inverted range", "GET", "/expenses/summary?from=2024-05-01&to=2024-04-01", "", http.StatusBadRequest},
		{"delete missing expense", "DELETE", "/expenses/7", "", http.StatusNotFound},
		{"rename missing category", "PUT", "/expense-categories/5", `{"name":"X"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := serve(router, tc.method, tc.path, tc.body); rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	serve(router, "POST", "/expenses", `{"category_id":1,"amount":0}`)
	if rec := serve(router, "DELETE", "/expense-categories/1", ""); rec.Code != http.StatusConflict {
		t.Errorf("delete used category status = %d, want 409", rec.Code)
	}
	if rec := serve(router, "DELETE", "/expenses/1", ""); rec.Code != http.StatusOK {
		t.Errorf("delete expense status = %d", rec.Code)
	}
	if rec := serve(router, "DELETE", "/expense-categories/1", ""); rec.Code != http.StatusOK {
		t.Errorf("delete free category status = %d", rec.Code)
	}
}
