package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/directory"
	"github.com/spec-kit/wealthguard/internal/repository"
	"github.com/spec-kit/wealthguard/internal/service"
	"github.com/spec-kit/wealthguard/internal/session"
	apperrors "github.com/spec-kit/wealthguard/pkg/util/errorutil"
)

var coreErrors = apperrors.NewTranslator().
	Register(apperrors.CodeNotFound, directory.ErrIdentityNotFound, repository.ErrNotFound).
	Register(apperrors.CodeUnauthorized, session.ErrNoSession).
	Register(apperrors.CodeForbidden, service.ErrForbidden, session.ErrImpersonationDenied).
	Register(apperrors.CodeConflict,
		directory.ErrDuplicateIdentity,
		directory.ErrIdentityReferenced,
		repository.ErrDuplicate,
		session.ErrNotImpersonating,
	).
	Register(apperrors.CodeValidation,
		directory.ErrInvalidAssignment,
		directory.ErrInvalidIdentity,
		service.ErrInvalidInput,
	)

// translateError maps core sentinel errors and router errors onto DomainErrors.
func translateError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.FromStatus(fiberErr.Code, fiberErr.Message)
	}
	return coreErrors.Translate(err)
}
