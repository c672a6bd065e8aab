package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/expense/domain"
	"github.com/tair/pharmacy-backend/internal/expense/usecase/command"
	"github.com/tair/pharmacy-backend/internal/expense/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// ExpenseHandler handles HTTP requests for expenses and their categories
type ExpenseHandler struct {
	createCategory *command.CreateCategoryHandler
	renameCategory *command.RenameCategoryHandler
	deleteCategory *command.DeleteCategoryHandler
	createExpense  *command.CreateExpenseHandler
	deleteExpense  *command.DeleteExpenseHandler
	listCategories *query.ListCategoriesHandler
	listExpenses   *query.ListExpensesHandler
	summary        *query.SummaryHandler
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(
	createCategory *command.CreateCategoryHandler,
	renameCategory *command.RenameCategoryHandler,
	deleteCategory *command.DeleteCategoryHandler,
	createExpense *command.CreateExpenseHandler,
	deleteExpense *command.DeleteExpenseHandler,
	listCategories *query.ListCategoriesHandler,
	listExpenses *query.ListExpensesHandler,
	summary *query.SummaryHandler,
) *ExpenseHandler {
	return &ExpenseHandler{
		createCategory: createCategory,
		renameCategory: renameCategory,
		deleteCategory: deleteCategory,
		createExpense:  createExpense,
		deleteExpense:  deleteExpense,
		listCategories: listCategories,
		listExpenses:   listExpenses,
		summary:        summary,
	}
}

// RegisterRoutes registers all expense routes
func (h *ExpenseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/expense-categories", h.ListCategories).Methods("GET")
	router.HandleFunc("/expense-categories", h.CreateCategory).Methods("POST")
	router.HandleFunc("/expense-categories/{id:[0-9]+}", h.UpdateCategory).Methods("PUT")
	router.HandleFunc("/expense-categories/{id:[0-9]+}", h.DeleteCategory).Methods("DELETE")

	router.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	router.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	router.HandleFunc("/expenses/summary", h.Summary).Methods("GET")
	router.HandleFunc("/expenses/{id:[0-9]+}", h.DeleteExpense).Methods("DELETE")
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type createExpenseRequest struct {
	CategoryID  uint             `json:"category_id" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	ExpenseDate *calendar.Date   `json:"expense_date"`
	Description *string          `json:"description"`
}

// ListCategories godoc
// @Summary List expense categories
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Category
// @Router /expense-categories [get]
func (h *ExpenseHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.listCategories.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// CreateCategory godoc
// @Summary Create expense category
// @Tags Expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body categoryRequest true "Category"
// @Success 201 {object} domain.Category
// @Failure 400 {object} response.ErrorBody
// @Router /expense-categories [post]
func (h *ExpenseHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	c, err := h.createCategory.Handle(r.Context(), req.Name)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, c)
}

// UpdateCategory godoc
// @Summary Rename expense category
// @Tags Expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body categoryRequest true "Category"
// @Success 200 {object} domain.Category
// @Failure 404 {object} response.ErrorBody
// @Router /expense-categories/{id} [put]
func (h *ExpenseHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req categoryRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	c, err := h.renameCategory.Handle(r.Context(), id, req.Name)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
}

// DeleteCategory godoc
// @Summary Delete expense category
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.OKBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /expense-categories/{id} [delete]
func (h *ExpenseHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.deleteCategory.Handle(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w)
}

// ListExpenses godoc
// @Summary List expenses
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param category_id query int false "Category"
// @Success 200 {array} domain.ExpenseView
// @Failure 400 {object} response.ErrorBody
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	rows, err := h.listExpenses.Handle(r.Context(), f)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// CreateExpense godoc
// @Summary Record an expense
// @Tags Expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createExpenseRequest true "Expense"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} response.ErrorBody
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	e, err := h.createExpense.Handle(r.Context(), command.CreateExpenseCommand{
		CategoryID:  req.CategoryID,
		Amount:      *req.Amount,
		ExpenseDate: req.ExpenseDate,
		Description: req.Description,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, e)
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} response.OKBody
// @Failure 404 {object} response.ErrorBody
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.deleteExpense.Handle(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w)
}

// Summary godoc
// @Summary Expense totals
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param category_id query int false "Category"
// @Success 200 {object} domain.Summary
// @Router /expenses/summary [get]
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	s, err := h.summary.Handle(r.Context(), f)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, s)
}

func parseFilter(r *http.Request) (domain.Filter, error) {
	var f domain.Filter
	q := r.URL.Query()
	for name, dst := range map[string]**calendar.Date{"from": &f.From, "to": &f.To} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		d, err := calendar.Parse(raw)
		if err != nil {
			return f, apperror.Validation("Invalid %s date", name)
		}
		*dst = &d
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return f, apperror.Validation("Invalid category_id")
		}
		categoryID := uint(id)
		f.CategoryID = &categoryID
	}
	return f, nil
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid id")
	}
	return uint(id), nil
}
