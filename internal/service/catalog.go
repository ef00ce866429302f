package service

import (
	"context"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/utils"
)

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrProductNotFound)
	}
	return p, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.productRepo.ListCategories(ctx)
}

// CheckAvailability asks the store whether quantity units are free between the two dates.
func (s *catalogService) CheckAvailability(ctx context.Context, productID string, quantity int, startDate, endDate string) (bool, error) {
	if startDate == "" || endDate == "" {
		return false, domain.Validation("Start date and end date are required")
	}
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return false, ErrInvalidRentalDates
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return false, ErrInvalidRentalDates
	}
	if utils.RentalDays(start, end) < 1 {
		return false, ErrRentalDateOrder
	}
	if quantity < 1 {
		quantity = 1
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return false, notFound(err, domain.ErrProductNotFound)
	}
	return s.productRepo.CheckAvailability(ctx, productID, quantity, start, end)
}
