package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tair/pharmacy-backend/internal/report/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

var tracer = otel.Tracer("report-repository")

// bounds of a column against an inclusive day range; $1 from, $2 to
const (
	saleDateIn   = `($1::date IS NULL OR s.sale_date >= $1::date) AND ($2::date IS NULL OR s.sale_date < $2::date + INTERVAL '1 day')`
	returnDateIn = `($1::date IS NULL OR r.return_date >= $1::date) AND ($2::date IS NULL OR r.return_date < $2::date + INTERVAL '1 day')`
)

// SQLXStore implements Store with hand-written queries over sqlx
type SQLXStore struct {
	db *sqlx.DB
}

// NewSQLXStore creates a new report store
func NewSQLXStore(db *sqlx.DB) *SQLXStore {
	return &SQLXStore{db: db}
}

func (s *SQLXStore) get(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error {
	ctx, span := tracer.Start(ctx, "repository."+op)
	defer span.End()
	span.SetAttributes(attribute.String("db.system", "postgresql"))

	if err := s.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("report %s failed: %w", op, err)
	}
	return nil
}

func (s *SQLXStore) selectRows(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error {
	ctx, span := tracer.Start(ctx, "repository."+op)
	defer span.End()
	span.SetAttributes(attribute.String("db.system", "postgresql"))

	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("report %s failed: %w", op, err)
	}
	return nil
}

func (s *SQLXStore) SalesTotals(ctx context.Context, r domain.Range) (domain.SalesTotals, error) {
	var t domain.SalesTotals
	err := s.get(ctx, "SalesTotals", &t, `
		SELECT COUNT(*)                           AS sale_count,
		       COALESCE(SUM(s.sub_total), 0)       AS sub_total,
		       COALESCE(SUM(s.tax_amount), 0)      AS tax_total,
		       COALESCE(SUM(s.discount_amount), 0) AS discount_total,
		       COALESCE(SUM(s.total_amount), 0)    AS total
		FROM sales s
		WHERE `+saleDateIn, r.From, r.To)
	return t, err
}

func (s *SQLXStore) COGS(ctx context.Context, r domain.Range) (decimal.Decimal, error) {
	var cogs decimal.Decimal
	err := s.get(ctx, "COGS", &cogs, `
		SELECT COALESCE(SUM(si.qty * i.cost_price), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN items i ON i.id = si.item_id
		WHERE `+saleDateIn, r.From, r.To)
	return cogs, err
}

func (s *SQLXStore) ExpenseTotal(ctx context.Context, r domain.Range) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.get(ctx, "ExpenseTotal", &total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE ($1::date IS NULL OR expense_date >= $1::date)
		  AND ($2::date IS NULL OR expense_date <= $2::date)`, r.From, r.To)
	return total, err
}

func (s *SQLXStore) PaymentTotals(ctx context.Context, r domain.Range) ([]domain.PaymentTotal, error) {
	var rows []domain.PaymentTotal
	err := s.selectRows(ctx, "PaymentTotals", &rows, `
		SELECT pt.id AS payment_type_id, pt.name, COALESCE(SUM(sp.amount), 0) AS amount
		FROM sale_payments sp
		JOIN payment_types pt ON pt.id = sp.payment_type_id
		JOIN sales s ON s.id = sp.sale_id
		WHERE `+saleDateIn+`
		GROUP BY pt.id, pt.name
		ORDER BY pt.name`, r.From, r.To)
	return rows, err
}

func (s *SQLXStore) Sales(ctx context.Context, r domain.Range, paymentTypeID *uint, limit int) ([]domain.SaleRow, error) {
	var rows []domain.SaleRow
	err := s.selectRows(ctx, "Sales", &rows, `
		SELECT s.id, s.sale_date, c.name AS customer_name,
		       s.sub_total, s.tax_amount, s.discount_amount, s.total_amount,
		       COALESCE(SUM(sp.amount), 0) AS paid_amount
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		LEFT JOIN sale_payments sp ON sp.sale_id = s.id
		WHERE `+saleDateIn+`
		  AND ($3::int IS NULL OR EXISTS (
		        SELECT 1 FROM sale_payments sp2 WHERE sp2.sale_id = s.id AND sp2.payment_type_id = $3))
		GROUP BY s.id, c.name
		ORDER BY s.sale_date DESC, s.id DESC
		LIMIT $4`, r.From, r.To, paymentTypeID, limit)
	return rows, err
}

const returnColumns = `r.id, r.sale_id, r.return_date, r.sub_total, r.tax_amount,
		       (r.sub_total + r.tax_amount - r.total_amount) AS discount_amount,
		       r.total_amount, r.reason`

func (s *SQLXStore) ReturnTotals(ctx context.Context, r domain.Range) (domain.ReturnTotals, error) {
	var t domain.ReturnTotals
	err := s.get(ctx, "ReturnTotals", &t, `
		SELECT COUNT(*)                                                        AS return_count,
		       COALESCE(SUM(r.sub_total), 0)                                    AS sub_total,
		       COALESCE(SUM(r.tax_amount), 0)                                   AS tax_total,
		       COALESCE(SUM(r.sub_total + r.tax_amount - r.total_amount), 0)    AS discount_total,
		       COALESCE(SUM(r.total_amount), 0)                                 AS total
		FROM sale_returns r
		WHERE `+returnDateIn, r.From, r.To)
	return t, err
}

func (s *SQLXStore) Returns(ctx context.Context, r domain.Range, limit int) ([]domain.ReturnRow, error) {
	var rows []domain.ReturnRow
	err := s.selectRows(ctx, "Returns", &rows, `
		SELECT `+returnColumns+`
		FROM sale_returns r
		WHERE `+returnDateIn+`
		ORDER BY r.return_date DESC, r.id DESC
		LIMIT $3`, r.From, r.To, limit)
	return rows, err
}

func (s *SQLXStore) ReturnHeader(ctx context.Context, id uint) (*domain.ReturnRow, error) {
	var row domain.ReturnRow
	err := s.get(ctx, "ReturnHeader", &row, `SELECT `+returnColumns+` FROM sale_returns r WHERE r.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("Return not found")
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *SQLXStore) ReturnLines(ctx context.Context, id uint) ([]domain.ReturnLine, error) {
	var rows []domain.ReturnLine
	err := s.selectRows(ctx, "ReturnLines", &rows, `
		SELECT ri.id, ri.item_id, i.sku, i.name AS item_name, ri.qty, ri.unit_price, ri.line_total
		FROM sale_return_items ri
		JOIN items i ON i.id = ri.item_id
		WHERE ri.sale_return_id = $1
		ORDER BY ri.id`, id)
	return rows, err
}
