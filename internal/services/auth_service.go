package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/config"
	"github.com/pesantren-digital/school-service/internal/events"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

// TokenClaims are the JWT claims issued at login. The jti is what the
// logout blacklist keys on.
type TokenClaims struct {
	UserID uint   `json:"uid"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// BootstrapPolicy decides whether a first-time student login may provision
// its backing user account.
type BootstrapPolicy interface {
	Allow(student *models.Student, password string) error
}

// codeMatchPolicy is the default: the supplied password must equal the
// school-issued student identifier.
type codeMatchPolicy struct{}

func (codeMatchPolicy) Allow(student *models.Student, password string) error {
	if password != student.StudentCode {
		return ErrInvalidCredentials
	}
	return nil
}

func DefaultBootstrapPolicy() BootstrapPolicy {
	return codeMatchPolicy{}
}

type authService struct {
	repo       repositories.Repository
	validator  *validator.Validator
	cache      *cache.CacheManager
	publisher  events.EventPublisher
	logger     utils.Logger
	jwtConfig  config.JWTConfig
	bootstrap  BootstrapPolicy
	bcryptCost int
}

func NewAuthService(
	repo repositories.Repository,
	v *validator.Validator,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	logger utils.Logger,
	jwtConfig config.JWTConfig,
	bootstrap BootstrapPolicy,
) AuthService {
	if bootstrap == nil {
		bootstrap = DefaultBootstrapPolicy()
	}
	return &authService{
		repo:       repo,
		validator:  v,
		cache:      cacheManager,
		publisher:  publisher,
		logger:     logger,
		jwtConfig:  jwtConfig,
		bootstrap:  bootstrap,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Login authenticates a staff user by email and password.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login rejected", "email", req.Email, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	// Reload with roles so the response carries the full authorization set.
	user, err = s.repo.User().GetByIDWithRoles(ctx, nil, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.publishAuthEvent(ctx, events.EventUserLoggedIn, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})

	s.logger.Info("User logged in", "user_id", user.ID)
	return resp, nil
}

// StudentLogin authenticates a student by class and school-issued
// identifier. On first login the account is provisioned automatically: a
// user record is created with the student role and the identifier as the
// initial password.
func (s *authService) StudentLogin(ctx context.Context, req StudentLoginRequest) (*LoginResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	student, err := s.repo.Student().GetByClassAndCode(ctx, nil, req.Class, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	if student.Status != models.StudentActive {
		return nil, ErrStudentInactive
	}

	var user *models.User
	if student.UserID == nil {
		user, err = s.provisionStudentUser(ctx, student, req.Password)
		if err != nil {
			return nil, err
		}
	} else {
		user, err = s.repo.User().GetByIDWithRoles(ctx, nil, *student.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load student account: %w", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.publishAuthEvent(ctx, events.EventUserLoggedIn, map[string]any{
		"user_id":    user.ID,
		"student_id": student.ID,
		"class":      student.Class,
	})

	return resp, nil
}

// provisionStudentUser creates the backing user account on first login,
// gated by the bootstrap policy. The accepted password becomes the initial
// credential.
func (s *authService) provisionStudentUser(ctx context.Context, student *models.Student, password string) (*models.User, error) {
	if err := s.bootstrap.Allow(student, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         student.Name,
		Email:        studentEmail(student),
		PasswordHash: string(hash),
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			return fmt.Errorf("failed to create student account: %w", err)
		}

		role, err := txRepo.Role().GetByName(ctx, nil, models.StudentRole)
		if err != nil {
			return fmt.Errorf("student role is not seeded: %w", err)
		}
		if err := txRepo.User().AssignRole(ctx, nil, user.ID, role.ID); err != nil {
			return fmt.Errorf("failed to assign student role: %w", err)
		}

		return txRepo.Student().LinkUser(ctx, nil, student.ID, user.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishAuthEvent(ctx, events.EventStudentProvisioned, map[string]any{
		"user_id":    user.ID,
		"student_id": student.ID,
		"class":      student.Class,
	})
	s.logger.Info("Student account provisioned", "student_id", student.ID, "user_id", user.ID)

	return s.repo.User().GetByIDWithRoles(ctx, nil, user.ID)
}

// Logout blacklists the token id until the token would have expired anyway.
func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time, userID uint) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Auth.SetString(ctx, blacklistKey(tokenID), "revoked", ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.publishAuthEvent(ctx, events.EventUserLoggedOut, map[string]any{
		"user_id": userID,
	})
	return nil
}

// VerifyToken parses and validates a bearer token, rejects revoked tokens,
// and resolves the acting user with the current role and permission set.
func (s *authService) VerifyToken(ctx context.Context, token string) (*models.User, *TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithIssuer(s.jwtConfig.Issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, nil, ErrUnauthenticated
	}

	revoked, err := s.cache.Auth.Exists(ctx, blacklistKey(claims.ID))
	if err == nil && revoked {
		return nil, nil, ErrTokenRevoked
	}

	// Roles and permissions are resolved fresh on every request so that
	// role changes take effect without re-login.
	user, err := s.repo.User().GetByIDWithRoles(ctx, nil, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return user, claims, nil
}

func (s *authService) issueToken(user *models.User) (*LoginResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.jwtConfig.TokenTTL)

	claims := TokenClaims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *authService) publishAuthEvent(ctx context.Context, eventType string, data map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Error("Failed to publish auth event", "error", err, "type", eventType)
	}
}

func blacklistKey(tokenID string) string {
	return "blacklist:" + tokenID
}

// studentEmail derives a synthetic address for provisioned student accounts;
// students authenticate by class and identifier, never by this address.
func studentEmail(student *models.Student) string {
	return fmt.Sprintf("%s.%s@students.local", student.Class, student.StudentCode)
}
