package service

import (
	"context"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) List(ctx context.Context, userID string) ([]domain.CartLine, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

// Add puts quantity units of the product in the cart, merging with an existing line.
func (s *cartService) Add(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error) {
	if productID == "" {
		return nil, domain.Validation("Product id is required")
	}
	if quantity < 1 {
		return nil, domain.Validation("Quantity must be at least 1")
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, domain.ErrProductNotFound)
	}
	if product.AvailableQuantity < quantity {
		return nil, domain.Conflict("Only %d unit(s) of %s available", product.AvailableQuantity, product.Name)
	}
	return s.cartRepo.Upsert(ctx, userID, productID, quantity)
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error) {
	if quantity < 1 {
		return nil, domain.Validation("Quantity must be at least 1")
	}
	line, err := s.cartRepo.UpdateQuantity(ctx, userID, lineID, quantity)
	if err != nil {
		return nil, notFound(err, domain.ErrCartLineMissing)
	}
	return line, nil
}

func (s *cartService) Remove(ctx context.Context, userID, lineID string) error {
	removed, err := s.cartRepo.Remove(ctx, userID, lineID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrCartLineMissing
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	return s.cartRepo.Clear(ctx, userID)
}
