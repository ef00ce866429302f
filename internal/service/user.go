package service

import (
	"context"
	"fmt"
	"strings"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
)

const recentOrdersLimit = 10

type customerAdminService struct {
	tx        repository.Transactor
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

func NewCustomerAdminService(tx repository.Transactor, userRepo repository.UserRepository, orderRepo repository.OrderRepository) CustomerAdminService {
	return &customerAdminService{
		tx:        tx,
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

func (s *customerAdminService) List(ctx context.Context, filter repository.UserFilter) ([]domain.CustomerSummary, int, error) {
	return s.userRepo.List(ctx, filter)
}

func (s *customerAdminService) Get(ctx context.Context, id string) (*CustomerDetail, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	orders, err := s.orderRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(orders) > recentOrdersLimit {
		orders = orders[:recentOrdersLimit]
	}
	return &CustomerDetail{User: *user, RecentOrders: orders}, nil
}

func (s *customerAdminService) Update(ctx context.Context, actor domain.Actor, id string, patch repository.UserPatch) (*domain.User, error) {
	if patch.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	if patch.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*patch.Email))
		if email == "" {
			return nil, domain.Validation("Email must not be empty")
		}
		patch.Email = &email
	}

	var user *domain.User
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Users().Update(ctx, id, patch); err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}
		details := map[string]any{}
		if patch.Name != nil {
			details["name"] = *patch.Name
		}
		if patch.Email != nil {
			details["email"] = *patch.Email
		}
		if patch.Phone != nil {
			details["phone"] = *patch.Phone
		}
		if patch.Address != nil {
			details["address"] = *patch.Address
		}
		if err := uow.Activity().Create(ctx, actor.Activity(domain.ActionUpdateUser, "user", id, details)); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		var err error
		user, err = uow.Users().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *customerAdminService) ResetPassword(ctx context.Context, actor domain.Actor, id, newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	err = s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Users().UpdatePassword(ctx, id, hash); err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}
		return uow.Activity().Create(ctx, actor.Activity(domain.ActionResetUserPassword, "user", id, nil))
	})
	if err != nil {
		return err
	}
	logger.Info("Customer password reset", "userID", id, "adminID", actor.AdminID)
	return nil
}

// Delete refuses while the customer has an order between confirmation and return.
func (s *customerAdminService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		user, err := uow.Users().GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}
		active, err := uow.Orders().CountByUserInStatuses(ctx, id, domain.UserBlockingStatuses)
		if err != nil {
			return fmt.Errorf("failed to count active orders: %w", err)
		}
		if active > 0 {
			return ErrUserHasRentals
		}
		if err := uow.Users().Delete(ctx, id); err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}
		return uow.Activity().Create(ctx, actor.Activity(domain.ActionDeleteUser, "user", id, map[string]any{
			"email": user.Email,
		}))
	})
	if err != nil {
		return err
	}
	logger.Info("Customer deleted", "userID", id, "adminID", actor.AdminID)
	return nil
}

func (s *customerAdminService) Stats(ctx context.Context, id string) (*domain.CustomerStats, error) {
	stats, err := s.userRepo.Stats(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return stats, nil
}
