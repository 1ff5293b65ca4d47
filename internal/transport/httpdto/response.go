package httpdto

import (
	"errors"

	apperrors "salestrack/pkg/errors"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// ErrorCode maps a service error to the wire code clients branch on.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return "unauthenticated"
	case errors.Is(err, apperrors.ErrForbidden):
		return "permission-denied"
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrTooLarge), errors.Is(err, apperrors.ErrUnsupportedType):
		return "invalid-argument"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not-found"
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		return "already-exists"
	default:
		return "internal"
	}
}
