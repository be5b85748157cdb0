package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	domainRepo "github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type closureRepository struct {
	db *gorm.DB
}

// NewClosureRepository creates a new daily closure repository
func NewClosureRepository(db *gorm.DB) domainRepo.ClosureRepository {
	return &closureRepository{db: db}
}

func (r *closureRepository) GetState(ctx context.Context) (*entity.DailyClosureState, error) {
	var state entity.DailyClosureState
	err := dbFor(ctx, r.db).First(&state, "id = ?", entity.DailyClosureStateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &state, err
}

func (r *closureRepository) LockState(ctx context.Context) (*entity.DailyClosureState, error) {
	var state entity.DailyClosureState
	err := dbFor(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&state, "id = ?", entity.DailyClosureStateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &state, err
}

func (r *closureRepository) SaveState(ctx context.Context, state *entity.DailyClosureState) error {
	return dbFor(ctx, r.db).Save(state).Error
}

func (r *closureRepository) Create(ctx context.Context, closure *entity.DailyClosure) error {
	// Children ride along through the association writer.
	return dbFor(ctx, r.db).Create(closure).Error
}

func (r *closureRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DailyClosure, error) {
	var closure entity.DailyClosure
	err := dbFor(ctx, r.db).
		Preload("PaymentLines").
		Preload("ItemLines").
		Preload("Adjustments").
		First(&closure, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &closure, err
}

func (r *closureRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.DailyClosure, int64, error) {
	var closures []entity.DailyClosure
	var total int64

	query := dbFor(ctx, r.db).Model(&entity.DailyClosure{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Adjustments").
		Order("sequence_no DESC").
		Find(&closures).Error

	return closures, total, err
}

func (r *closureRepository) AddAdjustment(ctx context.Context, adj *entity.ClosureAdjustment) error {
	return dbFor(ctx, r.db).Create(adj).Error
}
