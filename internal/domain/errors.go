package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Se usan como Kind de Error.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInternal          = errors.New("error interno")
)

// Error es el error tipado que cruza la frontera del motor de pedidos.
// Kind es uno de los sentinels de arriba; Cause conserva el error original para diagnóstico.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Kind.Error()
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock) y errors.As sobre la causa.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Invalid construye un error de validación (400).
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound construye un error de recurso inexistente (404).
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock construye el error de stock insuficiente con nombres legibles.
// Los nombres pueden venir vacíos si la búsqueda auxiliar falló.
func InsufficientStock(productName, warehouseName string) *Error {
	return &Error{
		Kind:    ErrInsufficientStock,
		Message: fmt.Sprintf("cantidad insuficiente del producto %q en la bodega %q", productName, warehouseName),
	}
}

// Internal envuelve un fallo inesperado (500) conservando el mensaje original.
// Si err ya es un *Error lo devuelve tal cual.
func Internal(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: ErrInternal, Message: msg, Cause: err}
}

// IsClientError indica si el error es atribuible al cliente (4xx).
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}
