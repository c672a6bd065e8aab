package http

import (
	"net/http"

	"github.com/tair/pharmacy-backend/internal/inventory/usecase/command"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// ListReorders godoc
// @Summary List reorders
// @Tags Reorders
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending (default), ordered, cancelled or all"
// @Success 200 {array} domain.ReorderView
// @Failure 400 {object} response.ErrorBody
// @Router /reorders [get]
func (h *InventoryHandler) ListReorders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.qry.ListReorders.Handle(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// ReorderStats godoc
// @Summary Pending and ordered-today counts
// @Tags Reorders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.ReorderStats
// @Router /reorders/stats [get]
func (h *InventoryHandler) ReorderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.qry.ReorderStats.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

// SuggestReorder godoc
// @Summary Suggested reorder quantity
// @Tags Reorders
// @Security BearerAuth
// @Produce json
// @Param itemId path int true "Item ID"
// @Success 200 {object} query.Suggestion
// @Router /reorders/suggest/{itemId} [get]
func (h *InventoryHandler) SuggestReorder(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	s, err := h.qry.SuggestReorder.Handle(r.Context(), itemID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, s)
}

// CreateReorder godoc
// @Summary Request replenishment
// @Description Merges into the item's pending reorder (200) or creates one (201)
// @Tags Reorders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createReorderRequest true "Reorder"
// @Success 200 {object} domain.Reorder
// @Success 201 {object} domain.Reorder
// @Failure 404 {object} response.ErrorBody
// @Router /reorders [post]
func (h *InventoryHandler) CreateReorder(w http.ResponseWriter, r *http.Request) {
	var req createReorderRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	reorder, created, err := h.cmd.CreateReorder.Handle(r.Context(), command.CreateReorderCommand{
		ItemID:       req.ItemID,
		RequestedQty: req.RequestedQty,
		SupplierID:   req.SupplierID,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(w, status, reorder)
}

// UpdateReorder godoc
// @Summary Update a reorder
// @Tags Reorders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Reorder ID"
// @Param request body updateReorderRequest true "Fields to change"
// @Success 200 {object} domain.Reorder
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /reorders/{id} [put]
func (h *InventoryHandler) UpdateReorder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req updateReorderRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	reorder, err := h.cmd.UpdateReorder.Handle(r.Context(), command.UpdateReorderCommand{
		ID:           id,
		RequestedQty: req.RequestedQty,
		SupplierID:   req.SupplierID,
		Notes:        req.Notes,
		Status:       req.Status,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, reorder)
}

// DeleteReorder godoc
// @Summary Delete a reorder
// @Tags Reorders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Reorder ID"
// @Success 200 {object} response.OKBody
// @Failure 404 {object} response.ErrorBody
// @Router /reorders/{id} [delete]
func (h *InventoryHandler) DeleteReorder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.cmd.DeleteReorder.Handle(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w)
}
