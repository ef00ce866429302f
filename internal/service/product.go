package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
)

type productAdminService struct {
	tx          repository.Transactor
	productRepo repository.ProductRepository
}

func NewProductAdminService(tx repository.Transactor, productRepo repository.ProductRepository) ProductAdminService {
	return &productAdminService{
		tx:          tx,
		productRepo: productRepo,
	}
}

func (s *productAdminService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductSummary, int, error) {
	if filter.Condition != "" && !filter.Condition.Valid() {
		return nil, 0, domain.Validation("Invalid condition: %s", filter.Condition)
	}
	return s.productRepo.ListWithStats(ctx, filter)
}

func (s *productAdminService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrProductNotFound)
	}
	return p, nil
}

func (s *productAdminService) Create(ctx context.Context, actor domain.Actor, in ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" || in.DailyPrice.IsZero() || in.DepositAmount == nil || in.CategoryID == "" {
		return nil, domain.Validation("Name, daily_price, deposit_amount, and category_id are required")
	}
	if !in.DailyPrice.IsPositive() {
		return nil, domain.Validation("Daily price must be greater than 0")
	}
	if in.DepositAmount.IsNegative() {
		return nil, domain.Validation("Deposit amount must not be negative")
	}
	if in.Condition == "" {
		in.Condition = domain.ProductConditionGood
	}
	if !in.Condition.Valid() {
		return nil, domain.Validation("Invalid condition: %s", in.Condition)
	}
	if in.TotalQuantity == 0 {
		in.TotalQuantity = 1
	}
	if in.TotalQuantity < 0 {
		return nil, domain.Validation("Total quantity must not be negative")
	}

	p := &domain.Product{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		CharacterName:     in.CharacterName,
		CategoryID:        in.CategoryID,
		Description:       in.Description,
		Size:              in.Size,
		Images:            in.Images,
		DailyPrice:        in.DailyPrice,
		WeeklyPrice:       in.WeeklyPrice,
		DepositAmount:     *in.DepositAmount,
		TotalQuantity:     in.TotalQuantity,
		AvailableQuantity: in.TotalQuantity,
		Condition:         in.Condition,
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Products().Create(ctx, p); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return uow.Activity().Create(ctx, actor.Activity(domain.ActionCreateProduct, "product", p.ID, map[string]any{
			"name":        p.Name,
			"daily_price": p.DailyPrice,
		}))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Product created", "productID", p.ID, "adminID", actor.AdminID)
	return p, nil
}

func validatePatch(patch repository.ProductPatch) error {
	if patch.Empty() {
		return ErrNoFieldsToUpdate
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Validation("Name must not be empty")
	}
	if patch.DailyPrice != nil && !patch.DailyPrice.IsPositive() {
		return domain.Validation("Daily price must be greater than 0")
	}
	if patch.DepositAmount != nil && patch.DepositAmount.IsNegative() {
		return domain.Validation("Deposit amount must not be negative")
	}
	if patch.TotalQuantity != nil && *patch.TotalQuantity < 0 {
		return domain.Validation("Total quantity must not be negative")
	}
	if patch.Condition != nil && !patch.Condition.Valid() {
		return domain.Validation("Invalid condition: %s", *patch.Condition)
	}
	return nil
}

// Update applies a partial update. A new total quantity shifts the available quantity by
// the same amount, clamped to [0, total].
func (s *productAdminService) Update(ctx context.Context, actor domain.Actor, id string, patch repository.ProductPatch) (*domain.Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var updated *domain.Product
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		current, err := uow.Products().GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrProductNotFound)
		}
		if patch.TotalQuantity != nil && patch.AvailableQuantity == nil {
			available := clampAvailable(current.AvailableQuantity+*patch.TotalQuantity-current.TotalQuantity, *patch.TotalQuantity)
			patch.AvailableQuantity = &available
		}
		if patch.AvailableQuantity != nil {
			total := current.TotalQuantity
			if patch.TotalQuantity != nil {
				total = *patch.TotalQuantity
			}
			if *patch.AvailableQuantity < 0 || *patch.AvailableQuantity > total {
				return domain.Validation("Available quantity must be between 0 and %d", total)
			}
		}

		if err := uow.Products().Update(ctx, id, patch); err != nil {
			return notFound(err, domain.ErrProductNotFound)
		}
		if err := uow.Activity().Create(ctx, actor.Activity(domain.ActionUpdateProduct, "product", id, patchDetails(patch))); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		updated, err = uow.Products().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func clampAvailable(available, total int) int {
	if available < 0 {
		return 0
	}
	if available > total {
		return total
	}
	return available
}

// patchDetails lists the changed fields for the audit entry.
func patchDetails(patch repository.ProductPatch) map[string]any {
	details := map[string]any{}
	if patch.Name != nil {
		details["name"] = *patch.Name
	}
	if patch.DailyPrice != nil {
		details["daily_price"] = *patch.DailyPrice
	}
	if patch.DepositAmount != nil {
		details["deposit_amount"] = *patch.DepositAmount
	}
	if patch.TotalQuantity != nil {
		details["total_quantity"] = *patch.TotalQuantity
	}
	if patch.AvailableQuantity != nil {
		details["available_quantity"] = *patch.AvailableQuantity
	}
	if patch.Condition != nil {
		details["condition"] = *patch.Condition
	}
	if patch.CategoryID != nil {
		details["category_id"] = *patch.CategoryID
	}
	return details
}

// Delete refuses while any order line for the product is still out or about to go out.
func (s *productAdminService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		p, err := uow.Products().GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrProductNotFound)
		}
		active, err := uow.Products().CountActiveRentals(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count active rentals: %w", err)
		}
		if active > 0 {
			return ErrProductInUse
		}
		if err := uow.Products().Delete(ctx, id); err != nil {
			return notFound(err, domain.ErrProductNotFound)
		}
		return uow.Activity().Create(ctx, actor.Activity(domain.ActionDeleteProduct, "product", id, map[string]any{
			"name": p.Name,
		}))
	})
	if err != nil {
		return err
	}
	logger.Info("Product deleted", "productID", id, "adminID", actor.AdminID)
	return nil
}

func (s *productAdminService) Stats(ctx context.Context, id string) (*domain.ProductStats, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.productRepo.Stats(ctx, id)
}

// BulkUpdate applies one patch to many products. Quantity fields are not accepted.
func (s *productAdminService) BulkUpdate(ctx context.Context, actor domain.Actor, ids []string, patch repository.ProductPatch) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.Validation("Product ids are required")
	}
	if err := validatePatch(patch); err != nil {
		return 0, err
	}
	if patch.TotalQuantity != nil || patch.AvailableQuantity != nil {
		return 0, domain.Validation("Quantities cannot be bulk updated")
	}

	var affected int64
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		n, err := uow.Products().BulkUpdate(ctx, ids, patch)
		if err != nil {
			return fmt.Errorf("failed to bulk update products: %w", err)
		}
		affected = n
		details := patchDetails(patch)
		details["product_ids"] = ids
		details["updated"] = n
		return uow.Activity().Create(ctx, actor.Activity(domain.ActionBulkUpdateProducts, "product", "", details))
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
