package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
	"github.com/tavolo-pos/tavolo-api/pkg/money"
)

// MenuService handles the menu catalog: categories and sellable items.
type MenuService struct {
	menuItemRepo repository.MenuItemRepository
	categoryRepo repository.MenuCategoryRepository
}

// NewMenuService creates a new menu service
func NewMenuService(menuItemRepo repository.MenuItemRepository, categoryRepo repository.MenuCategoryRepository) *MenuService {
	return &MenuService{menuItemRepo: menuItemRepo, categoryRepo: categoryRepo}
}

// CreateMenuItemInput represents the create menu item input
type CreateMenuItemInput struct {
	CategoryID *uuid.UUID
	Name       string
	Price      float64
}

// CreateMenuItem creates a new menu item
func (s *MenuService) CreateMenuItem(ctx context.Context, input *CreateMenuItemInput) (*entity.MenuItem, error) {
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Price cannot be negative")
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("", "Category")
		}
	}

	item := &entity.MenuItem{
		CategoryID: input.CategoryID,
		Name:       input.Name,
		Price:      money.FromFloat(input.Price),
		Active:     true,
	}
	if err := s.menuItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetMenuItem retrieves a menu item by ID
func (s *MenuService) GetMenuItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError(apperror.CodeMenuItemNotFound, "Menu item")
	}
	return item, nil
}

// ListMenuItems lists menu items, optionally by category and active state
func (s *MenuService) ListMenuItems(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) ([]entity.MenuItem, error) {
	return s.menuItemRepo.List(ctx, categoryID, activeOnly)
}

// UpdateMenuItemInput represents the update menu item input
type UpdateMenuItemInput struct {
	CategoryID *uuid.UUID
	Name       *string
	Price      *float64
	Active     *bool
}

// UpdateMenuItem updates a menu item. Price changes never touch existing
// order lines, which keep the price snapshotted when they were added.
func (s *MenuService) UpdateMenuItem(ctx context.Context, id uuid.UUID, input *UpdateMenuItemInput) (*entity.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("", "Category")
		}
		item.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Price cannot be negative")
		}
		item.Price = money.FromFloat(*input.Price)
	}
	if input.Active != nil {
		item.Active = *input.Active
	}

	if err := s.menuItemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteMenuItem soft deletes a menu item
func (s *MenuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	return s.menuItemRepo.Delete(ctx, item.ID)
}

// CreateCategoryInput represents the create category input
type CreateCategoryInput struct {
	Name      string
	SortOrder int
}

// CreateCategory creates a new menu category
func (s *MenuService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.MenuCategory, error) {
	category := &entity.MenuCategory{
		Name:      input.Name,
		SortOrder: input.SortOrder,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lists all menu categories
func (s *MenuService) ListCategories(ctx context.Context) ([]entity.MenuCategory, error) {
	return s.categoryRepo.List(ctx)
}

// UpdateCategoryInput represents the update category input
type UpdateCategoryInput struct {
	Name      *string
	SortOrder *int
}

// UpdateCategory updates a menu category
func (s *MenuService) UpdateCategory(ctx context.Context, id uuid.UUID, input *UpdateCategoryInput) (*entity.MenuCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("", "Category")
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a menu category
func (s *MenuService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("", "Category")
	}
	return s.categoryRepo.Delete(ctx, category.ID)
}
