// Package apperr define los tipos de error que el core devuelve a la capa HTTP.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindAuthorization Kind = "authorization"
	KindPersistence   Kind = "persistence"
)

// Sentinels por tipo, para usar con errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAuthorization = errors.New("not authorized")
	ErrPersistence   = errors.New("persistence failure")
)

// Error lleva el tipo, la operación y el detalle que la capa HTTP necesita para responder.
type Error struct {
	Kind Kind
	Op   string
	Msg  string

	// Fields: errores por campo (solo validation).
	Fields map[string]string

	// RequestID: id de la solicitud existente cuando el conflicto es un pending duplicado.
	RequestID string

	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	if e.Msg != "" {
		sb.WriteString(e.Msg)
	} else {
		sb.WriteString(sentinel(e.Kind).Error())
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(parts, "; "))
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, apperr.ErrConflict) sin importar el mensaje.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func sentinel(k Kind) error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindAuthorization:
		return ErrAuthorization
	default:
		return ErrPersistence
	}
}

// Validation con un solo campo usa su mensaje como mensaje principal.
func Validation(op string, fields map[string]string) *Error {
	msg := "invalid input"
	if len(fields) == 1 {
		for _, m := range fields {
			msg = m
		}
	}
	return &Error{Kind: KindValidation, Op: op, Msg: msg, Fields: fields}
}

func InvalidField(op, field, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg, Fields: map[string]string{field: msg}}
}

func NotFound(op, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

func Conflict(op, msg string) *Error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg}
}

// DuplicatePending es el conflicto de "ya tienes una solicitud pendiente", con el id existente.
func DuplicatePending(op, requestID string) *Error {
	return &Error{
		Kind:      KindConflict,
		Op:        op,
		Msg:       "you already have a pending request for this pet",
		RequestID: requestID,
	}
}

func Unauthorized(op, msg string) *Error {
	return &Error{Kind: KindAuthorization, Op: op, Msg: msg}
}

func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Op: op, Msg: "store operation failed", Err: err}
}

// KindOf devuelve el tipo del error; cualquier error desconocido cuenta como persistence.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// As es un atajo para extraer *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
