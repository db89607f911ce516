package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to API clients.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeValidation:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
}

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// FromStatus builds a DomainError for a bare HTTP status, such as one raised by the router.
func FromStatus(status int, message string) *DomainError {
	code := CodeInternal
	for c, s := range statusByCode {
		if s == status {
			code = c
			break
		}
	}
	return NewDomainError(code, message, status, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Unknown errors become INTERNAL_ERROR.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}

type rule struct {
	code    string
	targets []error
}

// Translator maps sentinel errors of the core onto client-facing codes.
// Rules are tried in registration order.
type Translator struct {
	rules []rule
}

// NewTranslator returns an empty translator.
func NewTranslator() *Translator {
	return &Translator{}
}

// Register maps every target to code. Unknown codes are treated as INTERNAL_ERROR.
func (t *Translator) Register(code string, targets ...error) *Translator {
	if _, ok := statusByCode[code]; !ok {
		code = CodeInternal
	}
	t.rules = append(t.rules, rule{code: code, targets: targets})
	return t
}

// Translate returns the DomainError for err. DomainErrors pass through unchanged and the
// message of a matched sentinel is kept as the reason.
func (t *Translator) Translate(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for _, r := range t.rules {
		for _, target := range r.targets {
			if !errors.Is(err, target) {
				continue
			}
			if r.code == CodeNotFound {
				return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, map[string]any{"reason": err.Error()})
			}
			return NewDomainError(r.code, err.Error(), statusByCode[r.code], nil)
		}
	}
	return ToDomainError(err)
}
