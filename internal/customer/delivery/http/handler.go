package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/pharmacy-backend/internal/customer/usecase/command"
	"github.com/tair/pharmacy-backend/internal/customer/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/nullable"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	createHandler *command.CreateCustomerHandler
	updateHandler *command.UpdateCustomerHandler
	deleteHandler *command.DeleteCustomerHandler
	importHandler *command.ImportCustomersHandler
	searchHandler *query.SearchCustomersHandler
	getHandler    *query.GetCustomerHandler
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(
	createHandler *command.CreateCustomerHandler,
	updateHandler *command.UpdateCustomerHandler,
	deleteHandler *command.DeleteCustomerHandler,
	importHandler *command.ImportCustomersHandler,
	searchHandler *query.SearchCustomersHandler,
	getHandler *query.GetCustomerHandler,
) *CustomerHandler {
	return &CustomerHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		importHandler: importHandler,
		searchHandler: searchHandler,
		getHandler:    getHandler,
	}
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/customers", h.SearchCustomers).Methods("GET")
	router.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	router.HandleFunc("/customers/import", h.ImportCustomers).Methods("POST")
	router.HandleFunc("/customers/{id:[0-9]+}", h.GetCustomer).Methods("GET")
	router.HandleFunc("/customers/{id:[0-9]+}", h.UpdateCustomer).Methods("PUT")
	router.HandleFunc("/customers/{id:[0-9]+}", h.DeleteCustomer).Methods("DELETE")
}

type customerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

type updateCustomerRequest struct {
	Name    *string                `json:"name"`
	Phone   nullable.Field[string] `json:"phone"`
	Email   nullable.Field[string] `json:"email"`
	Address nullable.Field[string] `json:"address"`
}

// importRow has no validation tags: nameless rows are counted, not rejected
type importRow struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type importRequest struct {
	Rows []importRow `json:"rows" validate:"min=1"`
}

// SearchCustomers godoc
// @Summary Search customers
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param q query string false "Name, phone or email contains"
// @Success 200 {array} domain.Customer
// @Router /customers [get]
func (h *CustomerHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.searchHandler.Handle(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// GetCustomer godoc
// @Summary Get customer
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} response.ErrorBody
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	c, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
}

// CreateCustomer godoc
// @Summary Create customer
// @Tags Customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body customerRequest true "Customer"
// @Success 201 {object} domain.Customer
// @Failure 409 {object} response.ErrorBody
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	c, err := h.createHandler.Handle(r.Context(), command.CreateCustomerCommand{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, c)
}

// UpdateCustomer godoc
// @Summary Update customer
// @Description Partial update; null clears phone, email or address
// @Tags Customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body updateCustomerRequest true "Fields to change"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req updateCustomerRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	c, err := h.updateHandler.Handle(r.Context(), command.UpdateCustomerCommand{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
}

// DeleteCustomer godoc
// @Summary Delete customer
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.OKBody
// @Failure 404 {object} response.ErrorBody
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.deleteHandler.Handle(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w)
}

// ImportCustomers godoc
// @Summary Bulk import customers
// @Tags Customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body importRequest true "Rows"
// @Success 200 {object} domain.ImportResult
// @Router /customers/import [post]
func (h *CustomerHandler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	rows := make([]command.CreateCustomerCommand, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = command.CreateCustomerCommand{Name: row.Name, Phone: row.Phone, Email: row.Email, Address: row.Address}
	}
	result, err := h.importHandler.Handle(r.Context(), rows)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid id")
	}
	return uint(id), nil
}
