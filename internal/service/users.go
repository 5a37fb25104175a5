package service

import (
	"context"
	"fmt"

	"github.com/mmeshcher/homeservices/internal/model"
)

// Users возвращает всех пользователей.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	return s.api.Users(ctx)
}

// ChangeRole назначает пользователю роль.
func (s *Service) ChangeRole(ctx context.Context, email string, role model.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if err := s.api.UpdateUserRole(ctx, email, role); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return nil
}

// DeleteUser удаляет пользователя.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
