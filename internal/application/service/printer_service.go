package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
	"github.com/tavolo-pos/tavolo-api/pkg/printer"
	"github.com/tavolo-pos/tavolo-api/pkg/utils"
)

// PrinterService renders settlement receipts and closure reports to the
// configured thermal printer.
type PrinterService struct {
	printer         printer.Printer
	transactionRepo repository.TransactionRepository
	orderRepo       repository.OrderRepository
	tableRepo       repository.TableRepository
	shopName        string
	currency        string
	charWidth       int
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	transactionRepo repository.TransactionRepository,
	orderRepo repository.OrderRepository,
	tableRepo repository.TableRepository,
	shopName, currency string,
) *PrinterService {
	return &PrinterService{
		printer:         p,
		transactionRepo: transactionRepo,
		orderRepo:       orderRepo,
		tableRepo:       tableRepo,
		shopName:        shopName,
		currency:        currency,
		charWidth:       32,
	}
}

// IsConnected reports whether the printer hardware is reachable.
func (s *PrinterService) IsConnected() bool {
	return s.printer.IsConnected()
}

// PrintSettlementReceipt prints the receipt for one settled transaction
// and kicks the cash drawer for cash payments.
func (s *PrinterService) PrintSettlementReceipt(ctx context.Context, transactionID uuid.UUID) error {
	tx, err := s.transactionRepo.GetWithItems(ctx, transactionID)
	if err != nil {
		return err
	}
	if tx == nil {
		return apperror.NewNotFoundError(apperror.CodeTransactionNotFound, "Transaction")
	}
	if tx.Type != enum.TransactionTypeIncome || len(tx.Items) == 0 {
		return apperror.NewBadRequestError(apperror.CodeInvalidTransaction, "Transaction has no printable settlement")
	}

	var tableNumber *int
	if tx.OrderID != nil {
		order, err := s.orderRepo.GetByID(ctx, *tx.OrderID)
		if err != nil {
			return err
		}
		if order != nil && order.TableID != nil {
			table, err := s.tableRepo.GetByID(ctx, *order.TableID)
			if err != nil {
				return err
			}
			if table != nil {
				tableNumber = &table.Number
			}
		}
	}

	doc := printer.NewDocument(s.charWidth)
	doc.SetAlign(printer.AlignCenter).
		SetFontSize(printer.FontDouble).
		Text(s.shopName).
		SetFontSize(printer.FontNormal).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.KeyValue("Receipt", utils.GenerateReceiptNo())
	doc.KeyValue("Date", tx.CreatedAt.Format("2006-01-02 15:04"))
	if tableNumber != nil {
		doc.TextF("Table %d", *tableNumber)
	}
	doc.Separator('-')

	for _, item := range tx.Items {
		total := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		doc.ItemLine(item.Quantity, item.Name, s.currency+" "+total.StringFixed(2))
	}

	doc.Separator('-')
	doc.SetBold(true)
	doc.KeyValue("Total", s.currency+" "+tx.Amount.StringFixed(2))
	doc.SetBold(false)
	doc.KeyValue("Paid by", string(tx.PaymentMethod))

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you!").
		TextF("%s", time.Now().Format("2006-01-02 15:04:05")).
		FeedLines(3)

	if tx.PaymentMethod == enum.PaymentMethodCash {
		doc.OpenDrawer()
	}
	doc.Cut()

	return s.printer.Print(doc.Bytes())
}

// PrintClosureReport prints a confirmed closure's reconciliation summary.
func (s *PrinterService) PrintClosureReport(snapshot *ClosureSnapshot) error {
	doc := printer.NewDocument(s.charWidth)
	doc.SetAlign(printer.AlignCenter).
		SetFontSize(printer.FontDouble).
		Text(s.shopName).
		SetFontSize(printer.FontNormal).
		Text("Daily Closure").
		LineFeed().
		SetAlign(printer.AlignLeft)

	if snapshot.SequenceNo != nil {
		doc.KeyValue("Closure #", strconv.Itoa(*snapshot.SequenceNo))
	}
	doc.KeyValue("From", snapshot.PeriodStartAt.Format("01-02 15:04"))
	doc.KeyValue("To", snapshot.PeriodEndAt.Format("01-02 15:04"))
	doc.Separator('-')

	for _, line := range snapshot.PaymentLines {
		doc.KeyValue(string(line.Method), s.currency+" "+line.ActualAmount.StringFixed(2))
	}

	doc.Separator('-')
	doc.SetBold(true)
	doc.KeyValue("Gross", s.currency+" "+snapshot.GrossRevenue.StringFixed(2))
	doc.SetBold(false)
	doc.KeyValue("Net", s.currency+" "+snapshot.NetRevenue.StringFixed(2))
	doc.KeyValue("Orders", strconv.Itoa(snapshot.OrdersCount))
	doc.FeedLines(3).Cut()

	return s.printer.Print(doc.Bytes())
}
