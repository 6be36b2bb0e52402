package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrMovementNotFound = fmt.Errorf("%w: Product movement not found.", ErrNotFound)
	ErrTenantNotFound   = errors.New("el usuario no pertenece a ninguna empresa")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrBadReference     = errors.New("referencia inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
)

// Mensajes de negocio visibles para el usuario. Se conservan literalmente porque los clientes
// existentes los comparan.
const (
	MsgBarcodeTaken        = "La referencia ya tiene el código de barras asignado"
	MsgSkuNameSupplier     = "La referencia ya existe con el mismo nombre y proveedor"
	MsgSkuCreated          = "Referencia creada exitosamente"
	MsgUserExists          = "El usuario ya existe en la empresa"
	MsgEPCTaken            = "El EPC ya está registrado"
	MsgTypeMovementExists  = "El tipo de movimiento ya existe"
	MsgMovementUpdated     = "Product movement updated successfully."
	MsgMovementNotFound    = "Product movement not found."
	MsgCompanyNotFound     = "La empresa no existe"
	MsgLocationNotFound    = "La ubicación no existe"
	MsgTypeMovementUnknown = "El tipo de movimiento no existe"
	MsgStatusNotFound      = "El estado no existe"
	MsgInstanceNotFound    = "La instancia de producto no existe"
	MsgSkuNotFound         = "La referencia no existe"
	MsgEmailOtherTenant    = "El email ya está asociado a otra empresa"
	MsgTenantStoreTaken    = "La empresa ya está registrada con otro almacén"
)

// ConflictError violación de unicidad detectada antes de escribir. Reason es el mensaje de negocio.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// Is permite errors.Is(err, ErrConflict).
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NewConflict construye un ConflictError con el mensaje indicado.
func NewConflict(reason string) error { return &ConflictError{Reason: reason} }

// BadReferenceError referencia a un padre inexistente en el alcance del tenant.
type BadReferenceError struct {
	Reason string
}

func (e *BadReferenceError) Error() string { return e.Reason }

// Is permite errors.Is(err, ErrBadReference).
func (e *BadReferenceError) Is(target error) bool { return target == ErrBadReference }

// NewBadReference construye un BadReferenceError con el mensaje indicado.
func NewBadReference(reason string) error { return &BadReferenceError{Reason: reason} }

// Reason devuelve el mensaje de negocio de un error de dominio tipado, o "" si no lo tiene.
func Reason(err error) string {
	var c *ConflictError
	if errors.As(err, &c) {
		return c.Reason
	}
	var b *BadReferenceError
	if errors.As(err, &b) {
		return b.Reason
	}
	return ""
}
