package http

import (
	"net/http"

	"github.com/tair/pharmacy-backend/internal/inventory/usecase/command"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/middleware"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// ListPurchases godoc
// @Summary List purchases
// @Tags Purchases
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} object{data=[]domain.PurchaseSummary,page=int,limit=int,total=int}
// @Router /purchases [get]
func (h *InventoryHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	result, err := h.qry.ListPurchases.Handle(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// GetPurchase godoc
// @Summary Get purchase with lines
// @Tags Purchases
// @Security BearerAuth
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} domain.PurchaseDetail
// @Failure 404 {object} response.ErrorBody
// @Router /purchases/{id} [get]
func (h *InventoryHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	detail, err := h.qry.GetPurchase.Handle(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, detail)
}

// CreatePurchase godoc
// @Summary Receive goods
// @Description Records the purchase and merges every line into its batch atomically
// @Tags Purchases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createPurchaseRequest true "Purchase"
// @Success 201 {object} command.PurchaseResult
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /purchases [post]
func (h *InventoryHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	lines := make([]command.PurchaseLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = command.PurchaseLineInput{
			ItemID:     l.ItemID,
			BatchNo:    l.BatchNo,
			ExpiryDate: l.ExpiryDate,
			Qty:        *l.Qty,
			UnitCost:   *l.UnitCost,
		}
	}

	result, err := h.cmd.CreatePurchase.Handle(r.Context(), command.CreatePurchaseCommand{
		SupplierID:   req.SupplierID,
		InvoiceNo:    req.InvoiceNo,
		PurchaseDate: req.PurchaseDate,
		TaxAmount:    req.TaxAmount,
		Notes:        req.Notes,
		Lines:        lines,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	h.batchMutations.WithLabelValues("purchase").Add(float64(result.LineCount))
	response.JSON(w, http.StatusCreated, result)
}

// ListSales godoc
// @Summary List sales
// @Tags Sales
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} object{data=[]domain.SaleHeaderView,page=int,limit=int,total=int}
// @Router /sales [get]
func (h *InventoryHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	result, err := h.qry.ListSales.Handle(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// GetSale godoc
// @Summary Get sale with per-batch lines
// @Tags Sales
// @Security BearerAuth
// @Produce json
// @Param id path int true "Sale ID"
// @Success 200 {object} domain.SaleDetail
// @Failure 404 {object} response.ErrorBody
// @Router /sales/{id} [get]
func (h *InventoryHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	detail, err := h.qry.GetSale.Handle(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, detail)
}

// CreateSale godoc
// @Summary Checkout
// @Description Consumes stock soonest-expiry first; "items" is accepted as an alias of "lines"
// @Tags Sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createSaleRequest true "Sale"
// @Success 201 {object} command.SaleResult
// @Failure 400 {object} response.ErrorBody
// @Router /sales [post]
func (h *InventoryHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	reqLines := req.lines()
	if len(reqLines) == 0 {
		response.Error(w, r, apperror.Validation("lines must contain at least one entry"))
		return
	}

	lines := make([]command.SaleLineInput, len(reqLines))
	for i, l := range reqLines {
		lines[i] = command.SaleLineInput{ItemID: l.ItemID, Qty: l.Qty, UnitPrice: l.UnitPrice}
	}

	cmd := command.CreateSaleCommand{
		CustomerID:     req.CustomerID,
		PaymentTypeID:  req.PaymentTypeID,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		PaidAmount:     req.PaidAmount,
		Notes:          req.Notes,
		Lines:          lines,
	}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		userID := claims.UserID
		cmd.CreatedBy = &userID
	}

	result, err := h.cmd.CreateSale.Handle(r.Context(), cmd)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	h.salesTotal.Inc()
	h.batchMutations.WithLabelValues("sale").Add(float64(result.LineCount))
	response.JSON(w, http.StatusCreated, result)
}

// ListReturns godoc
// @Summary List returns of a sale
// @Tags Returns
// @Security BearerAuth
// @Produce json
// @Param saleId path int true "Sale ID"
// @Success 200 {array} domain.SaleReturn
// @Failure 404 {object} response.ErrorBody
// @Router /sales/{saleId}/returns [get]
func (h *InventoryHandler) ListReturns(w http.ResponseWriter, r *http.Request) {
	saleID, err := pathID(r, "saleId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	rows, err := h.qry.ListReturns.Handle(r.Context(), saleID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// CreateReturn godoc
// @Summary Return items of a sale
// @Description Puts stock back into the batches the sale consumed, latest expiry first
// @Tags Returns
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param saleId path int true "Sale ID"
// @Param request body createReturnRequest true "Return"
// @Success 201 {object} command.ReturnResult
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /sales/{saleId}/returns [post]
func (h *InventoryHandler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	saleID, err := pathID(r, "saleId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req createReturnRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	lines := make([]command.ReturnLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = command.ReturnLineInput{ItemID: l.ItemID, Qty: l.Qty}
	}

	result, err := h.cmd.CreateReturn.Handle(r.Context(), command.CreateReturnCommand{
		SaleID:    saleID,
		Reason:    req.Reason,
		TaxAmount: req.TaxAmount,
		Lines:     lines,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	h.returnsTotal.Inc()
	h.batchMutations.WithLabelValues("return").Add(float64(result.LineCount))
	response.JSON(w, http.StatusCreated, result)
}

// GetReturn godoc
// @Summary Get a return with its put-back allocation
// @Tags Returns
// @Security BearerAuth
// @Produce json
// @Param saleId path int true "Sale ID"
// @Param returnId path int true "Return ID"
// @Success 200 {object} domain.ReturnDetail
// @Failure 404 {object} response.ErrorBody
// @Router /sales/{saleId}/returns/{returnId} [get]
func (h *InventoryHandler) GetReturn(w http.ResponseWriter, r *http.Request) {
	saleID, err := pathID(r, "saleId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	returnID, err := pathID(r, "returnId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	detail, err := h.qry.GetReturn.Handle(r.Context(), saleID, returnID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, detail)
}
