package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tair/pharmacy-backend/internal/report/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
)

func checkRange(r domain.Range) error {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return apperror.Validation("from must not be after to")
	}
	return nil
}

// DayRange fills missing bounds: from defaults to today, to defaults to from
func DayRange(r domain.Range, today calendar.Date) domain.Range {
	if r.From == nil {
		r.From = &today
	}
	if r.To == nil {
		to := *r.From
		r.To = &to
	}
	return r
}

// PnLHandler computes profit and loss
type PnLHandler struct {
	store domain.Store
}

// NewPnLHandler creates a new handler
func NewPnLHandler(store domain.Store) *PnLHandler {
	return &PnLHandler{store: store}
}

// Handle runs the sales, cost and expense sums concurrently. Gross profit
// is sub_total minus cogs; net profit is the sales total minus cogs and
// expenses.
func (h *PnLHandler) Handle(ctx context.Context, r domain.Range) (*domain.PnL, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}

	var (
		sales domain.SalesTotals
		pnl   = &domain.PnL{Range: r}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = h.store.SalesTotals(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		pnl.COGS, err = h.store.COGS(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		pnl.Expenses, err = h.store.ExpenseTotal(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pnl.Sales = domain.PnLSales{
		SubTotal:      sales.SubTotal,
		TaxTotal:      sales.TaxTotal,
		DiscountTotal: sales.DiscountTotal,
		SalesTotal:    sales.Total,
	}
	pnl.GrossProfit = sales.SubTotal.Sub(pnl.COGS)
	pnl.NetProfit = sales.Total.Sub(pnl.COGS).Sub(pnl.Expenses)
	return pnl, nil
}

// SalesListHandler lists sales of a day range
type SalesListHandler struct {
	store domain.Store
}

// NewSalesListHandler creates a new handler
func NewSalesListHandler(store domain.Store) *SalesListHandler {
	return &SalesListHandler{store: store}
}

func (h *SalesListHandler) Handle(ctx context.Context, r domain.Range, paymentTypeID *uint) ([]domain.SaleRow, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	rows, err := h.store.Sales(ctx, r, paymentTypeID, domain.ListLimit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.SaleRow{}
	}
	return rows, nil
}

// SalesSummaryHandler totals sales and payments of a day range
type SalesSummaryHandler struct {
	store domain.Store
}

// NewSalesSummaryHandler creates a new handler
func NewSalesSummaryHandler(store domain.Store) *SalesSummaryHandler {
	return &SalesSummaryHandler{store: store}
}

func (h *SalesSummaryHandler) Handle(ctx context.Context, r domain.Range) (*domain.SalesSummary, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}

	summary := &domain.SalesSummary{Range: r}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.SalesTotals, err = h.store.SalesTotals(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		summary.ByPaymentType, err = h.store.PaymentTotals(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if summary.ByPaymentType == nil {
		summary.ByPaymentType = []domain.PaymentTotal{}
	}
	return summary, nil
}

// ReturnsListHandler lists returns of a day range
type ReturnsListHandler struct {
	store domain.Store
}

// NewReturnsListHandler creates a new handler
func NewReturnsListHandler(store domain.Store) *ReturnsListHandler {
	return &ReturnsListHandler{store: store}
}

func (h *ReturnsListHandler) Handle(ctx context.Context, r domain.Range) ([]domain.ReturnRow, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	rows, err := h.store.Returns(ctx, r, domain.ListLimit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.ReturnRow{}
	}
	return rows, nil
}

// ReturnsSummaryHandler totals returns of a day range
type ReturnsSummaryHandler struct {
	store domain.Store
}

// NewReturnsSummaryHandler creates a new handler
func NewReturnsSummaryHandler(store domain.Store) *ReturnsSummaryHandler {
	return &ReturnsSummaryHandler{store: store}
}

func (h *ReturnsSummaryHandler) Handle(ctx context.Context, r domain.Range) (*domain.ReturnsSummary, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	totals, err := h.store.ReturnTotals(ctx, r)
	if err != nil {
		return nil, err
	}
	return &domain.ReturnsSummary{Range: r, ReturnTotals: totals}, nil
}

// ReturnDetailHandler loads one return with its lines
type ReturnDetailHandler struct {
	store domain.Store
}

// NewReturnDetailHandler creates a new handler
func NewReturnDetailHandler(store domain.Store) *ReturnDetailHandler {
	return &ReturnDetailHandler{store: store}
}

func (h *ReturnDetailHandler) Handle(ctx context.Context, id uint) (*domain.ReturnDetail, error) {
	header, err := h.store.ReturnHeader(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := h.store.ReturnLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []domain.ReturnLine{}
	}
	return &domain.ReturnDetail{Header: *header, Lines: lines}, nil
}
