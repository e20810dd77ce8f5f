package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

type userService struct {
	repo       repositories.Repository
	validator  *validator.Validator
	logger     utils.Logger
	bcryptCost int
}

func NewUserService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) UserService {
	return &userService{
		repo:       repo,
		validator:  v,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *userService) Create(ctx context.Context, req UserCreateRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if len(req.RoleIDs) > 0 {
			if err := s.verifyRoles(ctx, txRepo, req.RoleIDs); err != nil {
				return err
			}
			if err := txRepo.User().ReplaceRoles(ctx, nil, user.ID, req.RoleIDs); err != nil {
				return fmt.Errorf("failed to assign roles: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID, "email", user.Email)
	return s.repo.User().GetByIDWithRoles(ctx, nil, user.ID)
}

func (s *userService) Update(ctx context.Context, id uint, req UserUpdateRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.repo.User().ExistsByEmail(ctx, nil, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Update(ctx, nil, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if req.RoleIDs != nil {
			if err := s.verifyRoles(ctx, txRepo, req.RoleIDs); err != nil {
				return err
			}
			if err := txRepo.User().ReplaceRoles(ctx, nil, user.ID, req.RoleIDs); err != nil {
				return fmt.Errorf("failed to replace roles: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.User().GetByIDWithRoles(ctx, nil, id)
}

// Delete refuses self-deletion so an admin cannot lock themselves out
// mid-session.
func (s *userService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return NewBusinessRuleError("user_self_delete", "cannot delete your own account")
	}

	if _, err := s.repo.User().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.repo.User().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", "user_id", id)
	return nil
}

func (s *userService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByIDWithRoles(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return s.repo.User().List(ctx, nil, filters)
}

func (s *userService) verifyRoles(ctx context.Context, repo repositories.Repository, ids []uint) error {
	for _, id := range ids {
		if _, err := repo.Role().GetByID(ctx, nil, id); err != nil {
			if repositories.IsNotFoundError(err) {
				return NewValidationError("role_ids", "contains unknown role ids", ids)
			}
			return fmt.Errorf("failed to load role %d: %w", id, err)
		}
	}
	return nil
}
