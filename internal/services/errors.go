package services

import (
	"errors"
	"fmt"

	"github.com/pesantren-digital/school-service/internal/validator"
)

// ValidationErrors re-exports the validator's error list so handlers can map
// it without importing the validator package directly.
type ValidationErrors = validator.ValidationErrors

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message, Value: value}}
}

// ===== SENTINEL ERRORS =====

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")

	ErrUserNotFound    = errors.New("user not found")
	ErrRoleNotFound    = errors.New("role not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrExamNotFound    = errors.New("exam not found")
	ErrGradeNotFound   = errors.New("grade not found")
	ErrPageNotFound    = errors.New("page not found")
	ErrContentNotFound = errors.New("content entry not found")

	ErrEmailTaken   = errors.New("email already in use")
	ErrSlugTaken    = errors.New("slug already in use")
	ErrRoleTaken    = errors.New("role name already in use")
	ErrStudentTaken = errors.New("student identifier already in use for this class")

	// ErrProtectedRole guards super_admin from the standard delete and
	// deactivate actions.
	ErrProtectedRole = errors.New("role is protected and cannot be removed")

	ErrStudentInactive = errors.New("student is not active")
)

// ===== TYPED ERRORS =====

// PermissionError is an authorization denial for an authenticated identity.
type PermissionError struct {
	UserID   uint
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s: %s", e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{UserID: userID, Resource: resource, Action: action, Reason: reason}
}

// BusinessRuleError is a request that is well-formed but violates a domain
// rule.
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}
