package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/pharmacy-backend/internal/report/domain"
	"github.com/tair/pharmacy-backend/internal/report/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// ReportHandler handles the read-only reporting endpoints
type ReportHandler struct {
	pnl            *query.PnLHandler
	sales          *query.SalesListHandler
	salesSummary   *query.SalesSummaryHandler
	returns        *query.ReturnsListHandler
	returnsSummary *query.ReturnsSummaryHandler
	returnDetail   *query.ReturnDetailHandler
	today          func() calendar.Date
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	pnl *query.PnLHandler,
	sales *query.SalesListHandler,
	salesSummary *query.SalesSummaryHandler,
	returns *query.ReturnsListHandler,
	returnsSummary *query.ReturnsSummaryHandler,
	returnDetail *query.ReturnDetailHandler,
) *ReportHandler {
	return &ReportHandler{
		pnl:            pnl,
		sales:          sales,
		salesSummary:   salesSummary,
		returns:        returns,
		returnsSummary: returnsSummary,
		returnDetail:   returnDetail,
		today:          calendar.Today,
	}
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports/pnl", h.PnL).Methods("GET")
	router.HandleFunc("/sales/advanced", h.SalesAdvanced).Methods("GET")
	router.HandleFunc("/sales/summary", h.SalesSummary).Methods("GET")
	router.HandleFunc("/sales-returns/advanced", h.ReturnsAdvanced).Methods("GET")
	router.HandleFunc("/sales-returns/summary", h.ReturnsSummary).Methods("GET")
	router.HandleFunc("/sales-returns/{id:[0-9]+}/detail", h.ReturnDetail).Methods("GET")
}

// PnL godoc
// @Summary Profit and loss
// @Description Open bounds when from or to is omitted
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} domain.PnL
// @Failure 400 {object} response.ErrorBody
// @Router /reports/pnl [get]
func (h *ReportHandler) PnL(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r, "from", "to")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	pnl, err := h.pnl.Handle(r.Context(), rng)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, pnl)
}

// SalesAdvanced godoc
// @Summary Sales in a day range
// @Description Defaults to today; at most 200 rows, newest first
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param date_from query string false "First day (YYYY-MM-DD)"
// @Param date_to query string false "Last day (YYYY-MM-DD)"
// @Param payment_type_id query int false "Only sales paid with this payment type"
// @Success 200 {array} domain.SaleRow
// @Router /sales/advanced [get]
func (h *ReportHandler) SalesAdvanced(w http.ResponseWriter, r *http.Request) {
	rng, err := h.dayRange(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var paymentTypeID *uint
	if raw := r.URL.Query().Get("payment_type_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(w, r, apperror.Validation("Invalid payment_type_id"))
			return
		}
		id := uint(v)
		paymentTypeID = &id
	}
	rows, err := h.sales.Handle(r.Context(), rng, paymentTypeID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// SalesSummary godoc
// @Summary Sales totals by payment type
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param date_from query string false "First day (YYYY-MM-DD)"
// @Param date_to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} domain.SalesSummary
// @Router /sales/summary [get]
func (h *ReportHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := h.dayRange(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	summary, err := h.salesSummary.Handle(r.Context(), rng)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

// ReturnsAdvanced godoc
// @Summary Returns in a day range
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param date_from query string false "First day (YYYY-MM-DD)"
// @Param date_to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {array} domain.ReturnRow
// @Router /sales-returns/advanced [get]
func (h *ReportHandler) ReturnsAdvanced(w http.ResponseWriter, r *http.Request) {
	rng, err := h.dayRange(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	rows, err := h.returns.Handle(r.Context(), rng)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// ReturnsSummary godoc
// @Summary Return totals
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param date_from query string false "First day (YYYY-MM-DD)"
// @Param date_to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} domain.ReturnsSummary
// @Router /sales-returns/summary [get]
func (h *ReportHandler) ReturnsSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := h.dayRange(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	summary, err := h.returnsSummary.Handle(r.Context(), rng)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

// ReturnDetail godoc
// @Summary Return header and lines
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param id path int true "Return ID"
// @Success 200 {object} domain.ReturnDetail
// @Failure 404 {object} response.ErrorBody
// @Router /sales-returns/{id}/detail [get]
func (h *ReportHandler) ReturnDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		response.Error(w, r, apperror.Validation("invalid return id"))
		return
	}
	detail, err := h.returnDetail.Handle(r.Context(), uint(id))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, detail)
}

func (h *ReportHandler) dayRange(r *http.Request) (domain.Range, error) {
	rng, err := parseRange(r, "date_from", "date_to")
	if err != nil {
		return rng, err
	}
	return query.DayRange(rng, h.today()), nil
}

func parseRange(r *http.Request, fromKey, toKey string) (domain.Range, error) {
	var rng domain.Range
	q := r.URL.Query()
	if raw := q.Get(fromKey); raw != "" {
		d, err := calendar.Parse(raw)
		if err != nil {
			return rng, apperror.Validation("Invalid %s", fromKey)
		}
		rng.From = &d
	}
	if raw := q.Get(toKey); raw != "" {
		d, err := calendar.Parse(raw)
		if err != nil {
			return rng, apperror.Validation("Invalid %s", toKey)
		}
		rng.To = &d
	}
	return rng, nil
}
