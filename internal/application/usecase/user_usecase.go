package usecase

import (
	"context"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/domain"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

// UserUseCase administración de cuentas (solo admin).
type UserUseCase struct {
	repo  repository.UserRepository
	trail *audit.Trail
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, trail *audit.Trail) *UserUseCase {
	return &UserUseCase{repo: repo, trail: trail}
}

// List lista todas las cuentas.
func (uc *UserUseCase) List(ctx context.Context) ([]*entity.User, error) {
	_ = ctx
	return uc.repo.List()
}

// UpdateRole cambia el rol de una cuenta con dos resguardos:
//   - nadie puede degradarse a sí mismo (quedaría fuera de la administración
//     que está usando), y
//   - no se puede degradar al último admin del sistema: siempre debe quedar
//     al menos uno.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actorUsername, targetID, newRole string) error {
	_ = ctx
	if newRole != entity.RoleAdmin && newRole != entity.RoleViewer {
		return domain.ErrInvalidInput
	}
	target, err := uc.repo.GetByID(targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrUserNotFound
	}
	if target.Username == actorUsername && newRole != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if target.Role == entity.RoleAdmin && newRole != entity.RoleAdmin {
		admins, err := uc.repo.CountAdmins()
		if err != nil {
			return err
		}
		if admins <= 1 {
			return domain.ErrLastAdmin
		}
	}
	if err := uc.repo.UpdateRole(targetID, newRole); err != nil {
		return err
	}
	uc.trail.Record(actorUsername, "update_permissions", map[string]any{
		"username": target.Username,
		"newRole":  newRole,
	})
	return nil
}
