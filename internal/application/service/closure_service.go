package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
	"github.com/tavolo-pos/tavolo-api/pkg/money"
	"github.com/tavolo-pos/tavolo-api/pkg/pagination"
)

// ClosureService runs the daily closure engine: live previews over the
// open accounting period, locked confirmations that advance the period
// cursor, and post-lock adjustments.
type ClosureService struct {
	txManager   repository.TxManager
	closureRepo repository.ClosureRepository
	reportRepo  repository.ClosureReportRepository
	taxRate     decimal.Decimal
	topItems    int
}

// NewClosureService creates a new closure service
func NewClosureService(
	txManager repository.TxManager,
	closureRepo repository.ClosureRepository,
	reportRepo repository.ClosureReportRepository,
	taxRate float64,
	topItems int,
) *ClosureService {
	if topItems <= 0 {
		topItems = 10
	}
	return &ClosureService{
		txManager:   txManager,
		closureRepo: closureRepo,
		reportRepo:  reportRepo,
		taxRate:     decimal.NewFromFloat(taxRate),
		topItems:    topItems,
	}
}

// ClosurePaymentSummary is one payment method's settled income inside a
// period, together with its reconciliation bucket and the adjusted
// "actual" figure once a closure carries adjustments.
type ClosurePaymentSummary struct {
	Method         enum.PaymentMethod   `json:"method"`
	Group          enum.SettlementGroup `json:"group"`
	ExpectedAmount decimal.Decimal      `json:"expected_amount"`
	ActualAmount   decimal.Decimal      `json:"actual_amount"`
	TxCount        int                  `json:"tx_count"`
}

// ClosureItemSummary is one menu item's settled sales inside a period.
// DiscountImpact is the slice of order-level discounts allocated to this
// item pro-rata by its share of each order's pre-discount subtotal.
type ClosureItemSummary struct {
	MenuItemID     uuid.UUID       `json:"menu_item_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	QuantitySold   int             `json:"quantity_sold"`
	Revenue        decimal.Decimal `json:"revenue"`
	DiscountImpact decimal.Decimal `json:"discount_impact"`
}

// ClosureSnapshot is the externally observable closure view, shared by
// the live preview and the confirmed record.
type ClosureSnapshot struct {
	Locked        bool                       `json:"locked"`
	ClosureID     *uuid.UUID                 `json:"closure_id,omitempty"`
	SequenceNo    *int                       `json:"sequence_no,omitempty"`
	BusinessDate  time.Time                  `json:"business_date"`
	PeriodStartAt time.Time                  `json:"period_start_at"`
	PeriodEndAt   time.Time                  `json:"period_end_at"`
	TaxRate       decimal.Decimal            `json:"tax_rate"`
	GrossRevenue  decimal.Decimal            `json:"gross_revenue"`
	NetRevenue    decimal.Decimal            `json:"net_revenue"`
	OrdersCount   int                        `json:"orders_count"`
	RefundAmount  decimal.Decimal            `json:"refund_amount"`
	VoidAmount    decimal.Decimal            `json:"void_amount"`
	PaymentLines  []ClosurePaymentSummary    `json:"payment_lines"`
	TopItems      []ClosureItemSummary       `json:"top_items"`
	Adjustments   []entity.ClosureAdjustment `json:"adjustments,omitempty"`
}

// GetCurrentPreview computes the live snapshot over the open period
// without touching the cursor. Its numbers are a point-in-time view and
// take no locks.
func (s *ClosureService) GetCurrentPreview(ctx context.Context) (*ClosureSnapshot, error) {
	state, err := s.closureRepo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, apperror.NewNotFoundError(apperror.CodeClosureNotFound, "Closure period state")
	}
	return s.computeSnapshot(ctx, state.CurrentPeriodStartAt, time.Now(), s.taxRate)
}

// AdjustmentInput represents one post-lock correction.
type AdjustmentInput struct {
	Type          enum.AdjustmentType
	Amount        float64
	Note          string
	PaymentMethod *enum.PaymentMethod
}

// ConfirmClosureInput represents a closure confirmation request.
type ConfirmClosureInput struct {
	TaxRate     *float64
	Adjustments []AdjustmentInput
}

// ConfirmDailyClosure locks the period cursor, snapshots all income in
// [periodStartAt, now), writes the immutable closure record with its
// children, and advances the cursor to the period end inside the same
// transaction. The row lock serializes concurrent confirmations so no two
// closures can capture the same window or the same sequence number.
func (s *ClosureService) ConfirmDailyClosure(ctx context.Context, input *ConfirmClosureInput) (*ClosureSnapshot, error) {
	taxRate := s.taxRate
	if input != nil && input.TaxRate != nil {
		taxRate = decimal.NewFromFloat(*input.TaxRate)
	}

	var snapshot *ClosureSnapshot
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		state, err := s.closureRepo.LockState(ctx)
		if err != nil {
			return err
		}
		if state == nil {
			return apperror.NewNotFoundError(apperror.CodeClosureNotFound, "Closure period state")
		}

		periodEnd := time.Now()
		snap, err := s.computeSnapshot(ctx, state.CurrentPeriodStartAt, periodEnd, taxRate)
		if err != nil {
			return err
		}

		closure := &entity.DailyClosure{
			BusinessDate:  businessDate(periodEnd),
			SequenceNo:    state.NextSequenceNo,
			PeriodStartAt: state.CurrentPeriodStartAt,
			PeriodEndAt:   periodEnd,
			TaxRate:       taxRate,
			GrossRevenue:  snap.GrossRevenue,
			NetRevenue:    snap.NetRevenue,
			OrdersCount:   snap.OrdersCount,
			RefundAmount:  decimal.Zero,
			VoidAmount:    decimal.Zero,
			LockedAt:      periodEnd,
		}
		for _, line := range snap.PaymentLines {
			closure.PaymentLines = append(closure.PaymentLines, entity.ClosurePaymentLine{
				Method:         line.Method,
				Group:          line.Group,
				ExpectedAmount: line.ExpectedAmount,
				TxCount:        line.TxCount,
			})
		}
		for _, item := range snap.TopItems {
			closure.ItemLines = append(closure.ItemLines, entity.ClosureItemLine{
				MenuItemID:     item.MenuItemID,
				Name:           item.Name,
				Category:       item.Category,
				QuantitySold:   item.QuantitySold,
				Revenue:        item.Revenue,
				DiscountImpact: item.DiscountImpact,
			})
		}
		if input != nil {
			for _, adj := range input.Adjustments {
				if err := validateAdjustment(&adj); err != nil {
					return err
				}
				closure.Adjustments = append(closure.Adjustments, entity.ClosureAdjustment{
					Type:          adj.Type,
					Amount:        money.FromFloat(adj.Amount),
					Note:          adj.Note,
					PaymentMethod: adj.PaymentMethod,
				})
			}
		}

		if err := s.closureRepo.Create(ctx, closure); err != nil {
			return err
		}

		state.CurrentPeriodStartAt = periodEnd
		state.NextSequenceNo++
		if err := s.closureRepo.SaveState(ctx, state); err != nil {
			return err
		}

		snap.Locked = true
		snap.ClosureID = &closure.ID
		seq := closure.SequenceNo
		snap.SequenceNo = &seq
		snap.Adjustments = closure.Adjustments
		applyAdjustments(snap)
		snapshot = snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// AddAdjustment appends a signed correction to an already locked closure.
func (s *ClosureService) AddAdjustment(ctx context.Context, closureID uuid.UUID, input *AdjustmentInput) (*entity.ClosureAdjustment, error) {
	if err := validateAdjustment(input); err != nil {
		return nil, err
	}

	closure, err := s.closureRepo.GetByID(ctx, closureID)
	if err != nil {
		return nil, err
	}
	if closure == nil {
		return nil, apperror.NewNotFoundError(apperror.CodeClosureNotFound, "Closure")
	}

	adj := &entity.ClosureAdjustment{
		ClosureID:     closure.ID,
		Type:          input.Type,
		Amount:        money.FromFloat(input.Amount),
		Note:          input.Note,
		PaymentMethod: input.PaymentMethod,
	}
	if err := s.closureRepo.AddAdjustment(ctx, adj); err != nil {
		return nil, err
	}
	return adj, nil
}

// GetClosure returns one confirmed closure as a snapshot, with every
// payment method's actual amount reflecting its tagged adjustments.
func (s *ClosureService) GetClosure(ctx context.Context, id uuid.UUID) (*ClosureSnapshot, error) {
	closure, err := s.closureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if closure == nil {
		return nil, apperror.NewNotFoundError(apperror.CodeClosureNotFound, "Closure")
	}
	return closureToSnapshot(closure), nil
}

// ListClosures returns the confirmed closure history page.
func (s *ClosureService) ListClosures(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.DailyClosure], error) {
	closures, total, err := s.closureRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &pagination.PaginatedResult[entity.DailyClosure]{
		Items:      closures,
		Pagination: pagination.NewPagination(params.Page, params.PerPage, total),
	}, nil
}

// computeSnapshot aggregates all income in [from, to): totals per payment
// method, per-item sales with order discounts allocated pro-rata by each
// line's share of its order's pre-discount subtotal, and the top items by
// revenue.
func (s *ClosureService) computeSnapshot(ctx context.Context, from, to time.Time, taxRate decimal.Decimal) (*ClosureSnapshot, error) {
	paymentRows, err := s.reportRepo.IncomeByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	itemRows, err := s.reportRepo.SettledItems(ctx, from, to)
	if err != nil {
		return nil, err
	}
	ordersCount, err := s.reportRepo.IncomeOrdersCount(ctx, from, to)
	if err != nil {
		return nil, err
	}

	gross := decimal.Zero
	paymentLines := make([]ClosurePaymentSummary, 0, len(paymentRows))
	for _, row := range paymentRows {
		gross = gross.Add(row.Amount)
		paymentLines = append(paymentLines, ClosurePaymentSummary{
			Method:         row.Method,
			Group:          row.Method.Group(),
			ExpectedAmount: money.Round2(row.Amount),
			ActualAmount:   money.Round2(row.Amount),
			TxCount:        row.TxCount,
		})
	}
	gross = money.Round2(gross)

	items := aggregateItemSales(itemRows)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Revenue.GreaterThan(items[j].Revenue)
	})
	if len(items) > s.topItems {
		items = items[:s.topItems]
	}

	tax := money.Percent(gross, taxRate)
	return &ClosureSnapshot{
		BusinessDate:  businessDate(to),
		PeriodStartAt: from,
		PeriodEndAt:   to,
		TaxRate:       taxRate,
		GrossRevenue:  gross,
		NetRevenue:    money.Round2(gross.Sub(tax)),
		OrdersCount:   int(ordersCount),
		RefundAmount:  decimal.Zero,
		VoidAmount:    decimal.Zero,
		PaymentLines:  paymentLines,
		TopItems:      items,
	}, nil
}

// aggregateItemSales folds per-transaction-item rows into per-menu-item
// totals. A zero-subtotal order contributes no discount allocation.
func aggregateItemSales(rows []repository.ItemSaleRow) []ClosureItemSummary {
	byMenuItem := make(map[uuid.UUID]*ClosureItemSummary)
	order := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		sum, ok := byMenuItem[row.MenuItemID]
		if !ok {
			sum = &ClosureItemSummary{
				MenuItemID:     row.MenuItemID,
				Name:           row.Name,
				Category:       row.Category,
				Revenue:        decimal.Zero,
				DiscountImpact: decimal.Zero,
			}
			byMenuItem[row.MenuItemID] = sum
			order = append(order, row.MenuItemID)
		}
		sum.QuantitySold += row.Quantity
		sum.Revenue = sum.Revenue.Add(row.Revenue)
		if row.OrderDiscount.IsPositive() && row.OrderSubtotal.IsPositive() {
			share := row.Revenue.Div(row.OrderSubtotal)
			sum.DiscountImpact = sum.DiscountImpact.Add(row.OrderDiscount.Mul(share))
		}
	}

	items := make([]ClosureItemSummary, 0, len(order))
	for _, id := range order {
		sum := byMenuItem[id]
		sum.Revenue = money.Round2(sum.Revenue)
		sum.DiscountImpact = money.Round2(sum.DiscountImpact)
		items = append(items, *sum)
	}
	return items
}

// applyAdjustments folds a closure's adjustments into the payment lines:
// a tagged adjustment moves its method's actual amount, an untagged one
// only the gross total.
func applyAdjustments(snap *ClosureSnapshot) {
	for _, adj := range snap.Adjustments {
		snap.GrossRevenue = money.Round2(snap.GrossRevenue.Add(adj.Amount))
		if adj.PaymentMethod == nil {
			continue
		}
		for i := range snap.PaymentLines {
			if snap.PaymentLines[i].Method == *adj.PaymentMethod {
				snap.PaymentLines[i].ActualAmount = money.Round2(snap.PaymentLines[i].ActualAmount.Add(adj.Amount))
				break
			}
		}
	}
}

func closureToSnapshot(closure *entity.DailyClosure) *ClosureSnapshot {
	snap := &ClosureSnapshot{
		Locked:        true,
		ClosureID:     &closure.ID,
		BusinessDate:  closure.BusinessDate,
		PeriodStartAt: closure.PeriodStartAt,
		PeriodEndAt:   closure.PeriodEndAt,
		TaxRate:       closure.TaxRate,
		GrossRevenue:  closure.GrossRevenue,
		NetRevenue:    closure.NetRevenue,
		OrdersCount:   closure.OrdersCount,
		RefundAmount:  closure.RefundAmount,
		VoidAmount:    closure.VoidAmount,
		Adjustments:   closure.Adjustments,
	}
	seq := closure.SequenceNo
	snap.SequenceNo = &seq
	for _, line := range closure.PaymentLines {
		snap.PaymentLines = append(snap.PaymentLines, ClosurePaymentSummary{
			Method:         line.Method,
			Group:          line.Group,
			ExpectedAmount: line.ExpectedAmount,
			ActualAmount:   line.ExpectedAmount,
			TxCount:        line.TxCount,
		})
	}
	for _, item := range closure.ItemLines {
		snap.TopItems = append(snap.TopItems, ClosureItemSummary{
			MenuItemID:     item.MenuItemID,
			Name:           item.Name,
			Category:       item.Category,
			QuantitySold:   item.QuantitySold,
			Revenue:        item.Revenue,
			DiscountImpact: item.DiscountImpact,
		})
	}
	applyAdjustments(snap)
	return snap
}

func validateAdjustment(input *AdjustmentInput) error {
	if !input.Type.Valid() {
		return apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Adjustment type must be fee, rounding or other")
	}
	if input.Note == "" {
		return apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Adjustment note is required")
	}
	if input.PaymentMethod != nil && !input.PaymentMethod.Valid() {
		return apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Unknown payment method")
	}
	return nil
}
