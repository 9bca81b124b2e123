package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

// ErrNoUninvoicedShipments la semana pedida no tiene envíos pendientes de facturar.
// Envuelve ErrInvalidInput: los handlers responden 400.
var ErrNoUninvoicedShipments = fmt.Errorf("no hay envíos sin facturar en el período: %w", ErrInvalidInput)
