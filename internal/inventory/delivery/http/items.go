package http

import (
	"net/http"
	"strconv"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/command"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// ListItems godoc
// @Summary List items
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param q query string false "SKU or name contains"
// @Param category_id query int false "Category"
// @Param brand_id query int false "Brand"
// @Param low_stock query bool false "Only stock_qty <= min_stock"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 50, max 200)"
// @Success 200 {object} object{data=[]domain.Item,page=int,limit=int,total=int}
// @Router /items [get]
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryUint(r, "category_id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	brandID, err := queryUint(r, "brand_id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	lowStock, _ := strconv.ParseBool(r.URL.Query().Get("low_stock"))

	result, err := h.qry.ListItems.Handle(r.Context(), query.ListItemsQuery{
		Query:      r.URL.Query().Get("q"),
		CategoryID: categoryID,
		BrandID:    brandID,
		LowStock:   lowStock,
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// GetItem godoc
// @Summary Get item by ID
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} domain.Item
// @Failure 404 {object} response.ErrorBody
// @Router /items/{id} [get]
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	item, err := h.qry.GetItem.Handle(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// CreateItem godoc
// @Summary Create item
// @Description Stock always starts at zero and follows the item's batches
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createItemRequest true "Item"
// @Success 201 {object} domain.Item
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /items [post]
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	item, err := h.cmd.CreateItem.Handle(r.Context(), command.CreateItemCommand{
		SKU:        req.SKU,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		UnitID:     req.UnitID,
		CostPrice:  req.CostPrice,
		UnitPrice:  *req.UnitPrice,
		MinStock:   req.MinStock,
		MaxStock:   req.MaxStock,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Update item
// @Description Partial update; max_stock null removes the bound
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body updateItemRequest true "Fields to change"
// @Success 200 {object} domain.Item
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /items/{id} [put]
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req updateItemRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if req.MaxStock.Valid && req.MaxStock.Value < 0 {
		response.Error(w, r, apperror.Validation("max_stock must be >= 0"))
		return
	}

	item, err := h.cmd.UpdateItem.Handle(r.Context(), command.UpdateItemCommand{
		ID:         id,
		SKU:        req.SKU,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		UnitID:     req.UnitID,
		CostPrice:  req.CostPrice,
		UnitPrice:  req.UnitPrice,
		MinStock:   req.MinStock,
		MaxStock:   req.MaxStock,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// LookupItems godoc
// @Summary Point-of-sale item search
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param q query string false "SKU or name contains"
// @Param limit query int false "Max rows (default 20, max 50)"
// @Success 200 {array} domain.ItemLookup
// @Router /items/lookup [get]
func (h *InventoryHandler) LookupItems(w http.ResponseWriter, r *http.Request) {
	rows, err := h.qry.LookupItems.Handle(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// RecalculateStock godoc
// @Summary Recalculate cached stock from batches
// @Description Recalculates the given items, or all items when item_ids is empty
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body recalculateRequest false "Items"
// @Success 200 {object} recalculateResponse
// @Router /items/recalculate [post]
func (h *InventoryHandler) RecalculateStock(w http.ResponseWriter, r *http.Request) {
	var req recalculateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	n, err := h.cmd.RecalculateStock.Handle(r.Context(), command.RecalculateStockCommand{ItemIDs: req.ItemIDs})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, recalculateResponse{Recalculated: n})
}

// ListBatches godoc
// @Summary List an item's batches
// @Tags Batches
// @Security BearerAuth
// @Produce json
// @Param itemId path int true "Item ID"
// @Success 200 {array} domain.Batch
// @Failure 404 {object} response.ErrorBody
// @Router /items/{itemId}/batches [get]
func (h *InventoryHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	batches, err := h.qry.ListBatches.Handle(r.Context(), itemID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, batches)
}

// CreateBatch godoc
// @Summary Register a batch
// @Tags Batches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param itemId path int true "Item ID"
// @Param request body createBatchRequest true "Batch"
// @Success 201 {object} domain.Batch
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /items/{itemId}/batches [post]
func (h *InventoryHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req createBatchRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	batch, err := h.cmd.CreateBatch.Handle(r.Context(), command.CreateBatchCommand{
		ItemID:     itemID,
		BatchNo:    req.BatchNo,
		ExpiryDate: req.ExpiryDate,
		Qty:        *req.Qty,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	h.batchMutations.WithLabelValues("create").Inc()
	response.JSON(w, http.StatusCreated, batch)
}

// UpdateBatch godoc
// @Summary Adjust a batch
// @Description Partial update; expiry_date null clears the date
// @Tags Batches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param itemId path int true "Item ID"
// @Param batchId path int true "Batch ID"
// @Param request body updateBatchRequest true "Fields to change"
// @Success 200 {object} domain.Batch
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /items/{itemId}/batches/{batchId} [put]
func (h *InventoryHandler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	batchID, err := pathID(r, "batchId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req updateBatchRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	patch, err := req.patch()
	if err != nil {
		response.Error(w, r, err)
		return
	}

	batch, err := h.cmd.AdjustBatch.Handle(r.Context(), command.AdjustBatchCommand{
		ItemID:  itemID,
		BatchID: batchID,
		Patch:   patch,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	h.batchMutations.WithLabelValues("adjust").Inc()
	response.JSON(w, http.StatusOK, batch)
}

func (req updateBatchRequest) patch() (domain.BatchPatch, error) {
	var patch domain.BatchPatch
	if req.BatchNo.Set {
		if !req.BatchNo.Valid {
			return patch, apperror.Validation("batch_no cannot be null")
		}
		patch.BatchNo = req.BatchNo.Ptr()
	}
	if req.Qty.Set {
		if !req.Qty.Valid {
			return patch, apperror.Validation("qty cannot be null")
		}
		patch.Qty = req.Qty.Ptr()
	}
	if req.ExpiryDate.Set {
		if req.ExpiryDate.Valid {
			patch.ExpiryDate = req.ExpiryDate.Ptr()
		} else {
			patch.ClearExpiry = true
		}
	}
	return patch, nil
}
