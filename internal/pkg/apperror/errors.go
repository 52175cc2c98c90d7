package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidState      ErrorCode = "INVALID_STATE"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeAlreadyExists     ErrorCode = "ALREADY_EXISTS"
	ErrCodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeInvalidTier       ErrorCode = "INVALID_TIER"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusForbidden
	case ErrCodeInvalidState, ErrCodeAlreadyExists:
		return http.StatusConflict
	case ErrCodeInvalidInput, ErrCodeInvalidTier:
		return http.StatusBadRequest
	case ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// Is проверяет, что ошибка несёт указанный код.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool      { return Is(err, ErrCodeNotFound) }
func IsUnauthorized(err error) bool  { return Is(err, ErrCodeUnauthorized) }
func IsInvalidState(err error) bool  { return Is(err, ErrCodeInvalidState) }
func IsAlreadyExists(err error) bool { return Is(err, ErrCodeAlreadyExists) }

var (
	ErrProfileNotFound   = New(ErrCodeNotFound, "профиль не найден")
	ErrListingNotFound   = New(ErrCodeNotFound, "объявление не найдено")
	ErrEscrowNotFound    = New(ErrCodeNotFound, "сделка не найдена")
	ErrDisputeNotFound   = New(ErrCodeNotFound, "спор не найден")
	ErrUnauthorized      = New(ErrCodeUnauthorized, "недостаточно прав")
	ErrInsufficientFunds = New(ErrCodeInsufficientFunds, "недостаточно средств на балансе")
)
