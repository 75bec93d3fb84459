package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/outing-api/internal/apperrors"
	"github.com/gdg-garage/outing-api/internal/auth"
	"github.com/gdg-garage/outing-api/internal/validation"
)

func details(messages []string) []error {
	out := make([]error, 0, len(messages))
	for _, m := range messages {
		out = append(out, &huma.ErrorDetail{Message: m})
	}
	return out
}

// apiError turns a domain error into the matching HTTP problem response.
func apiError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *apperrors.ValidationError
	var conflictErr *apperrors.ConflictError
	var unsupportedErr *apperrors.UnsupportedOperationError

	switch {
	case errors.As(err, &validationErr):
		return huma.Error422UnprocessableEntity("Validation failed", details(validationErr.Messages())...)
	case errors.As(err, &conflictErr):
		return huma.Error409Conflict("Conflict", details(conflictErr.Messages())...)
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return huma.Error409Conflict(err.Error())
	case errors.As(err, &unsupportedErr):
		return huma.Error405MethodNotAllowed(unsupportedErr.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return huma.Error404NotFound("Not found")
	default:
		log.Printf("Request failed: %v", err)
		return huma.Error500InternalServerError("Internal server error")
	}
}

func invalid(field, message string) error {
	res := validation.New()
	res.AddFieldError(field, message)
	return apiError(&apperrors.ValidationError{Result: res})
}

func requirePrincipal(ctx context.Context) (auth.Principal, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return auth.Principal{}, huma.Error401Unauthorized("Unauthorized")
	}
	return principal, nil
}

func requireAdmin(ctx context.Context) (auth.Principal, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return principal, err
	}
	if !principal.IsAdmin() {
		return principal, huma.Error403Forbidden("Access denied: admin role required")
	}
	return principal, nil
}

// requireOwner allows the user that owns a record and admins.
func requireOwner(ctx context.Context, ownerID uint) (auth.Principal, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return principal, err
	}
	if principal.UserID != ownerID && !principal.IsAdmin() {
		return principal, huma.Error403Forbidden("Access denied")
	}
	return principal, nil
}

// actingUser resolves the user a request acts for: the caller unless an admin names
// another user.
func actingUser(principal auth.Principal, requested uint) (uint, error) {
	if requested == 0 || requested == principal.UserID {
		return principal.UserID, nil
	}
	if !principal.IsAdmin() {
		return 0, huma.Error403Forbidden("Access denied: cannot act for another user")
	}
	return requested, nil
}
