package service

import (
	"context"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	return s.wishlistRepo.ListByUser(ctx, userID)
}

// Add is idempotent; adding a product twice returns the existing entry.
func (s *wishlistService) Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	if productID == "" {
		return nil, domain.Validation("Product id is required")
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, notFound(err, domain.ErrProductNotFound)
	}
	return s.wishlistRepo.Add(ctx, userID, productID)
}

func (s *wishlistService) Remove(ctx context.Context, userID, productID string) error {
	removed, err := s.wishlistRepo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound("Wishlist item not found")
	}
	return nil
}
