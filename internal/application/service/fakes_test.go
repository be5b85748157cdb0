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
	"github.com/tavolo-pos/tavolo-api/pkg/pagination"
)

// ledgerStore is a shared in-memory backing store for the fake
// repositories, so cross-repository aggregates see one consistent state.
type ledgerStore struct {
	tables       map[uuid.UUID]entity.DiningTable
	orders       map[uuid.UUID]entity.Order
	orderItems   map[uuid.UUID]entity.OrderItem
	transactions map[uuid.UUID]entity.Transaction
	closures     map[uuid.UUID]entity.DailyClosure
	state        *entity.DailyClosureState
	menuItems    map[uuid.UUID]entity.MenuItem
	clock        time.Time
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{
		tables:       make(map[uuid.UUID]entity.DiningTable),
		orders:       make(map[uuid.UUID]entity.Order),
		orderItems:   make(map[uuid.UUID]entity.OrderItem),
		transactions: make(map[uuid.UUID]entity.Transaction),
		closures:     make(map[uuid.UUID]entity.DailyClosure),
		menuItems:    make(map[uuid.UUID]entity.MenuItem),
		clock:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick advances the store clock so inserted rows get distinct timestamps.
func (s *ledgerStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *ledgerStore) addTable(number int) entity.DiningTable {
	table := entity.DiningTable{
		ID:     uuid.New(),
		Number: number,
		Seats:  4,
		Status: enum.TableStatusIdle,
		Amount: decimal.Zero,
	}
	s.tables[table.ID] = table
	return table
}

func (s *ledgerStore) addMenuItem(name string, price float64) entity.MenuItem {
	item := entity.MenuItem{
		ID:     uuid.New(),
		Name:   name,
		Price:  decimal.NewFromFloat(price),
		Active: true,
	}
	s.menuItems[item.ID] = item
	return item
}

// fakeTxManager runs the unit of work directly; the fakes have no
// transactional semantics to enforce.
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTableRepo struct{ store *ledgerStore }

func (r *fakeTableRepo) Create(ctx context.Context, table *entity.DiningTable) error {
	if table.ID == uuid.Nil {
		table.ID = uuid.New()
	}
	r.store.tables[table.ID] = *table
	return nil
}

func (r *fakeTableRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	table, ok := r.store.tables[id]
	if !ok {
		return nil, nil
	}
	copied := table
	return &copied, nil
}

func (r *fakeTableRepo) GetByNumber(ctx context.Context, number int) (*entity.DiningTable, error) {
	for _, table := range r.store.tables {
		if table.Number == number {
			copied := table
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTableRepo) List(ctx context.Context) ([]entity.DiningTable, error) {
	tables := make([]entity.DiningTable, 0, len(r.store.tables))
	for _, table := range r.store.tables {
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

func (r *fakeTableRepo) Update(ctx context.Context, table *entity.DiningTable) error {
	r.store.tables[table.ID] = *table
	return nil
}

func (r *fakeTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.tables, id)
	return nil
}

type fakeOrderRepo struct{ store *ledgerStore }

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = r.store.tick()
	r.store.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	copied := order
	return &copied, nil
}

func (r *fakeOrderRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) GetOpenByTableID(ctx context.Context, tableID uuid.UUID) (*entity.Order, error) {
	var found *entity.Order
	for id := range r.store.orders {
		order := r.store.orders[id]
		if order.TableID != nil && *order.TableID == tableID && order.Status == enum.OrderStatusOpen {
			if found == nil || order.CreatedAt.After(found.CreatedAt) {
				copied := order
				found = &copied
			}
		}
	}
	return found, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.store.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.orders, id)
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	orders := make([]entity.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		if params.Status != nil && order.Status != *params.Status {
			continue
		}
		orders = append(orders, order)
	}
	return orders, int64(len(orders)), nil
}

type fakeOrderItemRepo struct{ store *ledgerStore }

func (r *fakeOrderItemRepo) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CreatedAt = r.store.tick()
		r.store.orderItems[items[i].ID] = items[i]
	}
	return nil
}

func (r *fakeOrderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.OrderItem, error) {
	item, ok := r.store.orderItems[id]
	if !ok {
		return nil, nil
	}
	copied := item
	r.attachMenuItem(&copied)
	return &copied, nil
}

func (r *fakeOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	items := make([]entity.OrderItem, 0)
	for _, item := range r.store.orderItems {
		if item.OrderID == orderID {
			r.attachMenuItem(&item)
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].BatchNo != items[j].BatchNo {
			return items[i].BatchNo < items[j].BatchNo
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *fakeOrderItemRepo) attachMenuItem(item *entity.OrderItem) {
	if mi, ok := r.store.menuItems[item.MenuItemID]; ok {
		item.MenuItem = mi
	}
}

func (r *fakeOrderItemRepo) Update(ctx context.Context, item *entity.OrderItem) error {
	stored := *item
	stored.MenuItem = entity.MenuItem{}
	r.store.orderItems[item.ID] = stored
	return nil
}

func (r *fakeOrderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.orderItems, id)
	return nil
}

func (r *fakeOrderItemRepo) MaxBatchNo(ctx context.Context, orderID uuid.UUID) (int, error) {
	maxBatch := 0
	for _, item := range r.store.orderItems {
		if item.OrderID == orderID && item.BatchNo > maxBatch {
			maxBatch = item.BatchNo
		}
	}
	return maxBatch, nil
}

type fakeMenuItemRepo struct{ store *ledgerStore }

func (r *fakeMenuItemRepo) Create(ctx context.Context, item *entity.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.store.menuItems[item.ID] = *item
	return nil
}

func (r *fakeMenuItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	item, ok := r.store.menuItems[id]
	if !ok {
		return nil, nil
	}
	copied := item
	return &copied, nil
}

func (r *fakeMenuItemRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MenuItem, error) {
	items := make([]entity.MenuItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.store.menuItems[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeMenuItemRepo) List(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) ([]entity.MenuItem, error) {
	items := make([]entity.MenuItem, 0, len(r.store.menuItems))
	for _, item := range r.store.menuItems {
		if activeOnly && !item.Active {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *fakeMenuItemRepo) Update(ctx context.Context, item *entity.MenuItem) error {
	r.store.menuItems[item.ID] = *item
	return nil
}

func (r *fakeMenuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.menuItems, id)
	return nil
}

type fakeTransactionRepo struct{ store *ledgerStore }

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = r.store.tick()
	for i := range tx.Items {
		if tx.Items[i].ID == uuid.Nil {
			tx.Items[i].ID = uuid.New()
		}
		tx.Items[i].TransactionID = tx.ID
	}
	r.store.transactions[tx.ID] = *tx
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	tx, ok := r.store.transactions[id]
	if !ok {
		return nil, nil
	}
	copied := tx
	return &copied, nil
}

func (r *fakeTransactionRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.transactions, id)
	return nil
}

func (r *fakeTransactionRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	txs := make([]entity.Transaction, 0, len(r.store.transactions))
	for _, tx := range r.store.transactions {
		if params.Type != nil && tx.Type != *params.Type {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, int64(len(txs)), nil
}

func (r *fakeTransactionRepo) SumIncomeByOrderID(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range r.store.transactions {
		if tx.Type == enum.TransactionTypeIncome && tx.OrderID != nil && *tx.OrderID == orderID {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

type fakeClosureRepo struct{ store *ledgerStore }

func (r *fakeClosureRepo) GetState(ctx context.Context) (*entity.DailyClosureState, error) {
	if r.store.state == nil {
		return nil, nil
	}
	copied := *r.store.state
	return &copied, nil
}

func (r *fakeClosureRepo) LockState(ctx context.Context) (*entity.DailyClosureState, error) {
	return r.GetState(ctx)
}

func (r *fakeClosureRepo) SaveState(ctx context.Context, state *entity.DailyClosureState) error {
	copied := *state
	r.store.state = &copied
	return nil
}

func (r *fakeClosureRepo) Create(ctx context.Context, closure *entity.DailyClosure) error {
	if closure.ID == uuid.Nil {
		closure.ID = uuid.New()
	}
	for i := range closure.Adjustments {
		if closure.Adjustments[i].ID == uuid.Nil {
			closure.Adjustments[i].ID = uuid.New()
		}
		closure.Adjustments[i].ClosureID = closure.ID
	}
	r.store.closures[closure.ID] = *closure
	return nil
}

func (r *fakeClosureRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DailyClosure, error) {
	closure, ok := r.store.closures[id]
	if !ok {
		return nil, nil
	}
	copied := closure
	return &copied, nil
}

func (r *fakeClosureRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.DailyClosure, int64, error) {
	closures := make([]entity.DailyClosure, 0, len(r.store.closures))
	for _, closure := range r.store.closures {
		closures = append(closures, closure)
	}
	sort.Slice(closures, func(i, j int) bool { return closures[i].SequenceNo > closures[j].SequenceNo })
	return closures, int64(len(closures)), nil
}

func (r *fakeClosureRepo) AddAdjustment(ctx context.Context, adj *entity.ClosureAdjustment) error {
	if adj.ID == uuid.Nil {
		adj.ID = uuid.New()
	}
	closure := r.store.closures[adj.ClosureID]
	closure.Adjustments = append(closure.Adjustments, *adj)
	r.store.closures[adj.ClosureID] = closure
	return nil
}

// fakeReportRepo derives the closure aggregates from the shared store the
// same way the SQL queries do.
type fakeReportRepo struct{ store *ledgerStore }

func (r *fakeReportRepo) inWindow(tx entity.Transaction, from, to time.Time) bool {
	return !tx.CreatedAt.Before(from) && tx.CreatedAt.Before(to)
}

func (r *fakeReportRepo) IncomeByMethod(ctx context.Context, from, to time.Time) ([]repository.PaymentTotalRow, error) {
	byMethod := make(map[enum.PaymentMethod]*repository.PaymentTotalRow)
	for _, tx := range r.store.transactions {
		if tx.Type != enum.TransactionTypeIncome || !r.inWindow(tx, from, to) {
			continue
		}
		row, ok := byMethod[tx.PaymentMethod]
		if !ok {
			row = &repository.PaymentTotalRow{Method: tx.PaymentMethod, Amount: decimal.Zero}
			byMethod[tx.PaymentMethod] = row
		}
		row.Amount = row.Amount.Add(tx.Amount)
		row.TxCount++
	}
	rows := make([]repository.PaymentTotalRow, 0, len(byMethod))
	for _, row := range byMethod {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Method < rows[j].Method })
	return rows, nil
}

func (r *fakeReportRepo) SettledItems(ctx context.Context, from, to time.Time) ([]repository.ItemSaleRow, error) {
	rows := make([]repository.ItemSaleRow, 0)
	for _, tx := range r.store.transactions {
		if tx.Type != enum.TransactionTypeIncome || tx.OrderID == nil || !r.inWindow(tx, from, to) {
			continue
		}
		order := r.store.orders[*tx.OrderID]
		for _, item := range tx.Items {
			var category string
			if mi, ok := r.store.menuItems[item.MenuItemID]; ok && mi.Category != nil {
				category = mi.Category.Name
			}
			rows = append(rows, repository.ItemSaleRow{
				MenuItemID:    item.MenuItemID,
				Name:          item.Name,
				Category:      category,
				Quantity:      item.Quantity,
				Revenue:       item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
				OrderID:       order.ID,
				OrderDiscount: order.Discount,
				OrderSubtotal: order.Subtotal,
			})
		}
	}
	return rows, nil
}

func (r *fakeReportRepo) IncomeOrdersCount(ctx context.Context, from, to time.Time) (int64, error) {
	orders := make(map[uuid.UUID]bool)
	for _, tx := range r.store.transactions {
		if tx.Type == enum.TransactionTypeIncome && tx.OrderID != nil && r.inWindow(tx, from, to) {
			orders[*tx.OrderID] = true
		}
	}
	return int64(len(orders)), nil
}

func (r *fakeReportRepo) RevenueByDay(ctx context.Context, from, to time.Time) ([]repository.DailyRevenueRow, error) {
	byDay := make(map[time.Time]*repository.DailyRevenueRow)
	for _, tx := range r.store.transactions {
		if !r.inWindow(tx, from, to) {
			continue
		}
		day := tx.BusinessDate
		row, ok := byDay[day]
		if !ok {
			row = &repository.DailyRevenueRow{Day: day, Income: decimal.Zero, Expense: decimal.Zero}
			byDay[day] = row
		}
		if tx.Type == enum.TransactionTypeIncome {
			row.Income = row.Income.Add(tx.Amount)
		} else {
			row.Expense = row.Expense.Add(tx.Amount)
		}
	}
	rows := make([]repository.DailyRevenueRow, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day.Before(rows[j].Day) })
	return rows, nil
}

// ledgerFixture wires the full service stack over one shared store.
type ledgerFixture struct {
	store       *ledgerStore
	orders      *OrderService
	checkout    *CheckoutService
	transaction *TransactionService
	transfer    *TransferService
	closure     *ClosureService
}

func newLedgerFixture() *ledgerFixture {
	store := newLedgerStore()
	store.state = &entity.DailyClosureState{
		ID:                   entity.DailyClosureStateID,
		CurrentPeriodStartAt: store.clock,
		NextSequenceNo:       1,
	}

	txm := fakeTxManager{}
	tableRepo := &fakeTableRepo{store: store}
	orderRepo := &fakeOrderRepo{store: store}
	orderItemRepo := &fakeOrderItemRepo{store: store}
	menuItemRepo := &fakeMenuItemRepo{store: store}
	transactionRepo := &fakeTransactionRepo{store: store}
	closureRepo := &fakeClosureRepo{store: store}
	reportRepo := &fakeReportRepo{store: store}

	return &ledgerFixture{
		store:       store,
		orders:      NewOrderService(txm, tableRepo, orderRepo, orderItemRepo, menuItemRepo),
		checkout:    NewCheckoutService(txm, tableRepo, orderRepo, orderItemRepo, transactionRepo),
		transaction: NewTransactionService(txm, transactionRepo, orderRepo, orderItemRepo, tableRepo),
		transfer:    NewTransferService(txm, tableRepo, orderRepo, orderItemRepo),
		closure:     NewClosureService(txm, closureRepo, reportRepo, 10.0, 10),
	}
}
