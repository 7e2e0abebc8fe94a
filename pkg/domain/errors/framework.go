package errors

import (
	"fmt"
	"strings"
)

// Erros de infraestrutura HTTP que não pertencem à hierarquia de negócio.
// São traduzidos apenas pelo handler global, nunca na lógica de negócio.

// AccessDeniedError indica falha de autorização (usuário autenticado sem permissão)
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	if e.Reason == "" {
		return "access denied"
	}
	return "access denied: " + e.Reason
}

// NoRouteError indica que nenhuma rota/recurso corresponde à requisição
type NoRouteError struct {
	Method string
	Path   string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

// IllegalArgumentError indica argumento inválido vindo de biblioteca ou framework
type IllegalArgumentError struct {
	Message string
	Err     error
}

// NewIllegalArgument cria um IllegalArgumentError com mensagem formatada
func NewIllegalArgument(format string, args ...any) *IllegalArgumentError {
	return &IllegalArgumentError{Message: fmt.Sprintf(format, args...)}
}

func (e *IllegalArgumentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *IllegalArgumentError) Unwrap() error {
	return e.Err
}

// FieldError representa a falha de um campo
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// ValidationError agrega falhas de validação do corpo da requisição.
// A ordem dos campos é a ordem reportada pelo validador.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + joinFields(e.Fields)
}

// BindError agrega falhas ao vincular parâmetros nome/valor a uma struct
type BindError struct {
	Fields []FieldError
	Err    error
}

func (e *BindError) Error() string {
	if len(e.Fields) == 0 && e.Err != nil {
		return "binding failed: " + e.Err.Error()
	}
	return "binding failed: " + joinFields(e.Fields)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// TypeMismatchError indica que um parâmetro não pôde ser convertido para o tipo esperado
type TypeMismatchError struct {
	Name  string
	Value string
	Err   error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %q has invalid value %q", e.Name, e.Value)
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}

// PanicError encapsula um panic recuperado durante o processamento
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func joinFields(fields []FieldError) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, ", ")
}
