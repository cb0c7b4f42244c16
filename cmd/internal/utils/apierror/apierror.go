package apierror

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what every service operation returns on failure. The
// concrete value is JSON-marshaled as-is into the response body.
type ErrorResponse interface {
	Code() int
}

type SimpleError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *SimpleError) Code() int { return e.Status }

func NewSimple(status int, message string) *SimpleError {
	return &SimpleError{Status: status, Message: message}
}

func NewMissingParamError(param string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Falta el parámetro obligatorio '%s'", param))
}

func NewInvalidParamTypeError(param, expected string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("El parámetro '%s' debe ser de tipo %s", param, expected))
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Error interno del servidor")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "El cuerpo de la petición no es válido")
	NotFoundError         = NewSimple(http.StatusNotFound, "Recurso no encontrado")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Token de autenticación inválido")

	// Booking-specific conditions. A slot rejection is the one error the
	// caller is expected to branch on (it can retry with "force": true).
	SlotNotAvailableError  = NewSimple(http.StatusConflict, "El horario seleccionado no está disponible")
	TurnoOverlapError      = NewSimple(http.StatusConflict, "El turno se solapa con otro turno activo")
	UserAlreadyExistsError = NewSimple(http.StatusConflict, "Ya existe un usuario con ese email")
	CredentialsError       = NewSimple(http.StatusUnauthorized, "Email o contraseña incorrectos")
)

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields"`
}

func (e *ValidationError) Code() int { return http.StatusBadRequest }

// FromValidationError converts a validator.Struct failure into a 400
// response listing the offending fields and the rule each one broke.
func FromValidationError(err error) ErrorResponse {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return MalformedBodyError
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fe.Field(), Rule: fe.Tag()}
	}
	return &ValidationError{Message: "Datos inválidos", Fields: fields}
}
