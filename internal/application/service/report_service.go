package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
	"github.com/tavolo-pos/tavolo-api/pkg/money"
)

// ReportService produces informational revenue reports. These are
// point-in-time reads outside any settlement transaction.
type ReportService struct {
	reportRepo repository.ClosureReportRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ClosureReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// RevenueReport summarizes income and expense over a date range.
type RevenueReport struct {
	From         time.Time                    `json:"from"`
	To           time.Time                    `json:"to"`
	TotalIncome  decimal.Decimal              `json:"total_income"`
	TotalExpense decimal.Decimal              `json:"total_expense"`
	NetAmount    decimal.Decimal              `json:"net_amount"`
	Days         []repository.DailyRevenueRow `json:"days"`
}

// GetRevenueReport aggregates the ledger per day over [from, to).
func (s *ReportService) GetRevenueReport(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	if !to.After(from) {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Report range end must be after start")
	}

	days, err := s.reportRepo.RevenueByDay(ctx, from, to)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, day := range days {
		income = income.Add(day.Income)
		expense = expense.Add(day.Expense)
	}

	return &RevenueReport{
		From:         from,
		To:           to,
		TotalIncome:  money.Round2(income),
		TotalExpense: money.Round2(expense),
		NetAmount:    money.Round2(income.Sub(expense)),
		Days:         days,
	}, nil
}

// PaymentBreakdown reports settled income per payment method over a range.
func (s *ReportService) PaymentBreakdown(ctx context.Context, from, to time.Time) ([]repository.PaymentTotalRow, error) {
	if !to.After(from) {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Report range end must be after start")
	}
	return s.reportRepo.IncomeByMethod(ctx, from, to)
}
