package repository

import (
	"context"
	"time"

	domainRepo "github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type closureReportRepository struct {
	db *gorm.DB
}

// NewClosureReportRepository creates the aggregate query repository used by
// closure previews, confirmations, and revenue reports
func NewClosureReportRepository(db *gorm.DB) domainRepo.ClosureReportRepository {
	return &closureReportRepository{db: db}
}

func (r *closureReportRepository) IncomeByMethod(ctx context.Context, from, to time.Time) ([]domainRepo.PaymentTotalRow, error) {
	var results []domainRepo.PaymentTotalRow

	err := dbFor(ctx, r.db).Raw(`
		SELECT
			t.payment_method AS method,
			COALESCE(SUM(t.amount), 0) AS amount,
			COUNT(*) AS tx_count
		FROM transactions t
		WHERE t.type = 'income'
		  AND t.created_at >= ? AND t.created_at < ?
		GROUP BY t.payment_method
		ORDER BY amount DESC
	`, from, to).Scan(&results).Error

	return results, err
}

func (r *closureReportRepository) SettledItems(ctx context.Context, from, to time.Time) ([]domainRepo.ItemSaleRow, error) {
	var results []domainRepo.ItemSaleRow

	err := dbFor(ctx, r.db).Raw(`
		SELECT
			ti.menu_item_id,
			ti.name,
			COALESCE(mc.name, '') AS category,
			ti.quantity,
			ti.unit_price * ti.quantity AS revenue,
			t.order_id,
			COALESCE(o.discount, 0) AS order_discount,
			COALESCE(o.subtotal, 0) AS order_subtotal
		FROM transaction_items ti
		JOIN transactions t ON t.id = ti.transaction_id
		JOIN orders o ON o.id = t.order_id
		LEFT JOIN menu_items mi ON mi.id = ti.menu_item_id
		LEFT JOIN menu_categories mc ON mc.id = mi.category_id
		WHERE t.type = 'income'
		  AND t.created_at >= ? AND t.created_at < ?
		ORDER BY ti.created_at ASC
	`, from, to).Scan(&results).Error

	return results, err
}

func (r *closureReportRepository) IncomeOrdersCount(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64

	err := dbFor(ctx, r.db).Raw(`
		SELECT COUNT(DISTINCT t.order_id)
		FROM transactions t
		WHERE t.type = 'income'
		  AND t.order_id IS NOT NULL
		  AND t.created_at >= ? AND t.created_at < ?
	`, from, to).Scan(&count).Error

	return count, err
}

func (r *closureReportRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]domainRepo.DailyRevenueRow, error) {
	var results []domainRepo.DailyRevenueRow

	err := dbFor(ctx, r.db).Raw(`
		SELECT
			t.business_date AS day,
			COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount ELSE 0 END), 0) AS expense
		FROM transactions t
		WHERE t.business_date >= ? AND t.business_date <= ?
		GROUP BY t.business_date
		ORDER BY t.business_date ASC
	`, from, to).Scan(&results).Error

	return results, err
}
