package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/security"
)

type adminAuthService struct {
	tx        repository.Transactor
	adminRepo repository.AdminRepository
	tokens    security.TokenManager
	now       func() time.Time
}

func NewAdminAuthService(tx repository.Transactor, adminRepo repository.AdminRepository, tokens security.TokenManager) AdminAuthService {
	return &adminAuthService{
		tx:        tx,
		adminRepo: adminRepo,
		tokens:    tokens,
		now:       time.Now,
	}
}

// Login accepts either the username or the e-mail address. meta carries the request origin
// for the audit entry; its AdminID is ignored.
func (s *adminAuthService) Login(ctx context.Context, login, password string, meta domain.Actor) (*domain.AdminUser, string, error) {
	logger.EnterMethod("adminAuthService.Login", "login", login)
	if strings.TrimSpace(login) == "" || password == "" {
		return nil, "", domain.Validation("Username and password are required")
	}

	admin, err := s.adminRepo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, "", notFound(err, domain.ErrInvalidCredentials)
	}
	if !admin.IsActive {
		return nil, "", ErrAdminInactive
	}
	if !checkPassword(admin.PasswordHash, password) {
		logger.Warn("Admin login rejected", "login", login, "ip", meta.IPAddress)
		return nil, "", domain.ErrInvalidCredentials
	}

	at := s.now().UTC()
	err = s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Admins().TouchLastLogin(ctx, admin.ID, at); err != nil {
			return fmt.Errorf("failed to stamp last login: %w", err)
		}
		meta.AdminID, meta.Role = admin.ID, admin.Role
		return uow.Activity().Create(ctx, meta.Activity(domain.ActionAdminLogin, "admin", admin.ID, nil))
	})
	if err != nil {
		return nil, "", err
	}
	admin.LastLogin = &at

	token, err := s.tokens.GenerateAdminToken(admin.ID, admin.Username, string(admin.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	logger.Info("Admin logged in", "adminID", admin.ID, "role", admin.Role)
	return admin, token, nil
}

func (s *adminAuthService) Me(ctx context.Context, adminID string) (*domain.AdminUser, error) {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, notFound(err, domain.ErrAdminNotFound)
	}
	return admin, nil
}

func (s *adminAuthService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	admin, err := s.Me(ctx, adminID)
	if err != nil {
		return err
	}
	if !checkPassword(admin.PasswordHash, currentPassword) {
		return ErrWrongPassword
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.adminRepo.UpdatePassword(ctx, adminID, hash)
}

func (s *adminAuthService) CreateAdmin(ctx context.Context, actor domain.Actor, in CreateAdminInput) (*domain.AdminUser, error) {
	if actor.Role != domain.AdminRoleSuperAdmin {
		return nil, ErrInsufficientRole
	}
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.Validation("Username, email, and password are required")
	}
	if in.Role == "" {
		in.Role = domain.AdminRoleStaff
	}
	if !in.Role.Valid() {
		return nil, domain.Validation("Invalid role")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	admin := &domain.AdminUser{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(strings.ToLower(in.Email)),
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
		IsActive:     true,
	}
	err = s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Admins().Create(ctx, admin); err != nil {
			return err
		}
		return uow.Activity().Create(ctx, actor.Activity(domain.ActionCreateAdmin, "admin", admin.ID, map[string]any{
			"username": admin.Username,
			"role":     admin.Role,
		}))
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *adminAuthService) ListAdmins(ctx context.Context) ([]domain.AdminUser, error) {
	return s.adminRepo.List(ctx)
}

func (s *adminAuthService) UpdateAdmin(ctx context.Context, actor domain.Actor, adminID string, patch repository.AdminPatch) (*domain.AdminUser, error) {
	if actor.Role != domain.AdminRoleSuperAdmin {
		return nil, ErrInsufficientRole
	}
	if patch.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, domain.Validation("Invalid role")
	}
	if adminID == actor.AdminID && patch.IsActive != nil && !*patch.IsActive {
		return nil, domain.Validation("Cannot deactivate your own account")
	}

	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Admins().Update(ctx, adminID, patch); err != nil {
			return notFound(err, domain.ErrAdminNotFound)
		}
		details := map[string]any{}
		if patch.Role != nil {
			details["role"] = *patch.Role
		}
		if patch.IsActive != nil {
			details["is_active"] = *patch.IsActive
		}
		return uow.Activity().Create(ctx, actor.Activity(domain.ActionUpdateAdmin, "admin", adminID, details))
	})
	if err != nil {
		return nil, err
	}
	return s.Me(ctx, adminID)
}
