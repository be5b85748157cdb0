package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
)

// TableService handles dining table management
type TableService struct {
	tableRepo repository.TableRepository
	orderRepo repository.OrderRepository
}

// NewTableService creates a new table service
func NewTableService(tableRepo repository.TableRepository, orderRepo repository.OrderRepository) *TableService {
	return &TableService{tableRepo: tableRepo, orderRepo: orderRepo}
}

// CreateTableInput represents the create table input
type CreateTableInput struct {
	Number int
	Area   string
	Seats  int
}

// CreateTable creates a new dining table
func (s *TableService) CreateTable(ctx context.Context, input *CreateTableInput) (*entity.DiningTable, error) {
	existing, err := s.tableRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("", "Table number already in use")
	}

	seats := input.Seats
	if seats <= 0 {
		seats = 4
	}
	table := &entity.DiningTable{
		Number: input.Number,
		Area:   input.Area,
		Seats:  seats,
		Status: enum.TableStatusIdle,
	}
	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// GetTable retrieves a table by ID
func (s *TableService) GetTable(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError(apperror.CodeTableNotFound, "Table")
	}
	return table, nil
}

// ListTables lists all dining tables
func (s *TableService) ListTables(ctx context.Context) ([]entity.DiningTable, error) {
	return s.tableRepo.List(ctx)
}

// UpdateTableInput represents the update table input
type UpdateTableInput struct {
	Number *int
	Area   *string
	Seats  *int
}

// UpdateTable updates a table's static attributes. Status, amount and
// guest count belong to the ledger and are not settable here.
func (s *TableService) UpdateTable(ctx context.Context, id uuid.UUID, input *UpdateTableInput) (*entity.DiningTable, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Number != nil && *input.Number != table.Number {
		existing, err := s.tableRepo.GetByNumber(ctx, *input.Number)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("", "Table number already in use")
		}
		table.Number = *input.Number
	}
	if input.Area != nil {
		table.Area = *input.Area
	}
	if input.Seats != nil && *input.Seats > 0 {
		table.Seats = *input.Seats
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// DeleteTable removes a table. A table with an open order cannot be
// deleted.
func (s *TableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return err
	}

	open, err := s.orderRepo.GetOpenByTableID(ctx, table.ID)
	if err != nil {
		return err
	}
	if open != nil {
		return apperror.NewConflictError(apperror.CodeTableHasOpenOrder, "Table has an open order")
	}

	return s.tableRepo.Delete(ctx, table.ID)
}
