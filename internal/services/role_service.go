package services

import (
	"context"
	"fmt"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

type roleService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewRoleService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) RoleService {
	return &roleService{repo: repo, validator: v, logger: logger}
}

func (s *roleService) Create(ctx context.Context, req RoleCreateRequest) (*models.Role, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if _, err := s.repo.Role().GetByName(ctx, nil, req.Name); err == nil {
		return nil, ErrRoleTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}

	role := &models.Role{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Role().Create(ctx, nil, role); err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}
		if len(req.PermissionIDs) > 0 {
			if err := s.verifyPermissions(ctx, txRepo, req.PermissionIDs); err != nil {
				return err
			}
			if err := txRepo.Role().ReplacePermissions(ctx, nil, role.ID, req.PermissionIDs); err != nil {
				return fmt.Errorf("failed to attach permissions: %w", err)
			}
		}
		if len(req.UserIDs) > 0 {
			if err := txRepo.Role().ReplaceUsers(ctx, nil, role.ID, req.UserIDs); err != nil {
				return fmt.Errorf("failed to attach users: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Role created", "role_id", role.ID, "name", role.Name)
	return s.repo.Role().GetByIDWithDetails(ctx, nil, role.ID)
}

func (s *roleService) Update(ctx context.Context, id uint, req RoleUpdateRequest) (*models.Role, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	role, err := s.repo.Role().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to look up role: %w", err)
	}

	if req.DisplayName != nil {
		role.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		role.Description = *req.Description
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Role().Update(ctx, nil, role); err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}
		if req.PermissionIDs != nil {
			if err := s.verifyPermissions(ctx, txRepo, req.PermissionIDs); err != nil {
				return err
			}
			if err := txRepo.Role().ReplacePermissions(ctx, nil, role.ID, req.PermissionIDs); err != nil {
				return fmt.Errorf("failed to replace permissions: %w", err)
			}
		}
		if req.UserIDs != nil {
			if err := txRepo.Role().ReplaceUsers(ctx, nil, role.ID, req.UserIDs); err != nil {
				return fmt.Errorf("failed to replace users: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Role().GetByIDWithDetails(ctx, nil, role.ID)
}

// Delete removes a role and its assignments. The super_admin role is
// protected and can never be deleted, not even by a super_admin.
func (s *roleService) Delete(ctx context.Context, id uint) error {
	role, err := s.repo.Role().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to look up role: %w", err)
	}

	if role.IsProtected() {
		return ErrProtectedRole
	}

	if err := s.repo.Role().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.logger.Info("Role deleted", "role_id", id, "name", role.Name)
	return nil
}

func (s *roleService) Get(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.repo.Role().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	return role, nil
}

func (s *roleService) List(ctx context.Context, filters repositories.RoleFilters) ([]*models.Role, int64, error) {
	return s.repo.Role().List(ctx, nil, filters)
}

func (s *roleService) Permissions(ctx context.Context) ([]*models.Permission, error) {
	return s.repo.Permission().List(ctx, nil)
}

func (s *roleService) verifyPermissions(ctx context.Context, repo repositories.Repository, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	perms, err := repo.Permission().GetByIDs(ctx, nil, ids)
	if err != nil {
		return fmt.Errorf("failed to load permissions: %w", err)
	}
	if len(perms) != len(ids) {
		return NewValidationError("permission_ids", "contains unknown permission ids", ids)
	}
	return nil
}
