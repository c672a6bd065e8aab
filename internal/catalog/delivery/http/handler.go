package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/catalog/domain"
	"github.com/tair/pharmacy-backend/internal/catalog/usecase/command"
	"github.com/tair/pharmacy-backend/internal/catalog/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// Entries bundles the list and create handlers of one catalog table
type Entries[T any] struct {
	List   *query.ListHandler[T]
	Create *command.CreateHandler[T]
}

// NewEntries creates the handler pair for repo
func NewEntries[T any](repo domain.Repository[T], validate command.Validator[T]) Entries[T] {
	return Entries[T]{
		List:   query.NewListHandler(repo),
		Create: command.NewCreateHandler(repo, validate),
	}
}

// CatalogHandler handles HTTP requests for reference data
type CatalogHandler struct {
	Categories   Entries[domain.Category]
	Brands       Entries[domain.Brand]
	Units        Entries[domain.Unit]
	Suppliers    Entries[domain.Supplier]
	PaymentTypes Entries[domain.PaymentType]
	Taxes        Entries[domain.Tax]
	Currencies   *query.ListHandler[domain.Currency]

	DeletePaymentType *command.DeleteHandler[domain.PaymentType]
	UpdateTax         *command.UpdateTaxHandler
	DeleteTax         *command.DeleteHandler[domain.Tax]
}

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

type unitRequest struct {
	Name   string  `json:"name" validate:"required"`
	Symbol *string `json:"symbol"`
}

type supplierRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

type taxRequest struct {
	Name      string           `json:"name" validate:"required"`
	Rate      *decimal.Decimal `json:"rate" validate:"required,gte=0,lte=100"`
	IsDefault bool             `json:"is_default"`
}

type updateTaxRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1"`
	Rate      *decimal.Decimal `json:"rate" validate:"omitempty,gte=0,lte=100"`
	IsDefault *bool            `json:"is_default"`
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/categories", listEntries(h.Categories.List)).Methods("GET")
	router.HandleFunc("/categories", createEntry(h.Categories.Create, func(req nameRequest) domain.Category {
		return domain.Category{Name: req.Name}
	})).Methods("POST")

	router.HandleFunc("/brands", listEntries(h.Brands.List)).Methods("GET")
	router.HandleFunc("/brands", createEntry(h.Brands.Create, func(req nameRequest) domain.Brand {
		return domain.Brand{Name: req.Name}
	})).Methods("POST")

	router.HandleFunc("/units", listEntries(h.Units.List)).Methods("GET")
	router.HandleFunc("/units", createEntry(h.Units.Create, func(req unitRequest) domain.Unit {
		return domain.Unit{Name: req.Name, Symbol: req.Symbol}
	})).Methods("POST")

	router.HandleFunc("/suppliers", listEntries(h.Suppliers.List)).Methods("GET")
	router.HandleFunc("/suppliers", createEntry(h.Suppliers.Create, func(req supplierRequest) domain.Supplier {
		return domain.Supplier{Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address}
	})).Methods("POST")

	router.HandleFunc("/payment-types", listEntries(h.PaymentTypes.List)).Methods("GET")
	router.HandleFunc("/payment-types", createEntry(h.PaymentTypes.Create, func(req nameRequest) domain.PaymentType {
		return domain.PaymentType{Name: req.Name}
	})).Methods("POST")
	router.HandleFunc("/payment-types/{id:[0-9]+}", deleteEntry(h.DeletePaymentType)).Methods("DELETE")

	router.HandleFunc("/taxes", listEntries(h.Taxes.List)).Methods("GET")
	router.HandleFunc("/taxes", createEntry(h.Taxes.Create, func(req taxRequest) domain.Tax {
		return domain.Tax{Name: req.Name, Rate: *req.Rate, IsDefault: req.IsDefault}
	})).Methods("POST")
	router.HandleFunc("/taxes/{id:[0-9]+}", h.UpdateTaxRate).Methods("PUT")
	router.HandleFunc("/taxes/{id:[0-9]+}", deleteEntry(h.DeleteTax)).Methods("DELETE")

	router.HandleFunc("/currencies", h.ListCurrencies).Methods("GET")
}

// ListCurrencies godoc
// @Summary List currencies
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Currency
// @Router /currencies [get]
func (h *CatalogHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	listEntries(h.Currencies)(w, r)
}

func listEntries[T any](h *query.ListHandler[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.Handle(r.Context())
		if err != nil {
			response.Error(w, r, err)
			return
		}
		response.JSON(w, http.StatusOK, rows)
	}
}

func createEntry[T, R any](h *command.CreateHandler[T], build func(R) T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req R
		if err := response.DecodeAndValidate(r, &req); err != nil {
			response.Error(w, r, err)
			return
		}
		entry, err := h.Handle(r.Context(), build(req))
		if err != nil {
			response.Error(w, r, err)
			return
		}
		response.JSON(w, http.StatusCreated, entry)
	}
}

func deleteEntry[T any](h *command.DeleteHandler[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		if err := h.Handle(r.Context(), id); err != nil {
			response.Error(w, r, err)
			return
		}
		response.OK(w)
	}
}

// UpdateTaxRate godoc
// @Summary Update a tax
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Tax ID"
// @Param request body updateTaxRequest true "Fields to change"
// @Success 200 {object} domain.Tax
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /taxes/{id} [put]
func (h *CatalogHandler) UpdateTaxRate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req updateTaxRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	tax, err := h.UpdateTax.Handle(r.Context(), command.UpdateTaxCommand{
		ID:        id,
		Name:      req.Name,
		Rate:      req.Rate,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, tax)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid id")
	}
	return uint(id), nil
}
