package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Kind identifica a intenção da exceção de negócio.
// O handler global decide a política de log pelo Kind, não pelo status HTTP.
type Kind int

const (
	KindBusiness Kind = iota
	KindEntityNotFound
	KindResourceNotFound
	KindDuplicate
	KindInvalidValue
	KindBusinessRuleViolation
	KindUnauthorized
	KindForbidden
	KindExternalService
)

func (k Kind) String() string {
	switch k {
	case KindEntityNotFound:
		return "EntityNotFoundException"
	case KindResourceNotFound:
		return "ResourceNotFoundException"
	case KindDuplicate:
		return "DuplicateException"
	case KindInvalidValue:
		return "InvalidValueException"
	case KindBusinessRuleViolation:
		return "BusinessRuleViolationException"
	case KindUnauthorized:
		return "UnauthorizedException"
	case KindForbidden:
		return "ForbiddenException"
	case KindExternalService:
		return "ExternalServiceException"
	default:
		return "BusinessException"
	}
}

// DefaultStatus retorna a família de status que os códigos deste Kind
// normalmente carregam. É apenas informativo: o status da resposta
// vem sempre do ErrorCodeProvider.
func (k Kind) DefaultStatus() int {
	switch k {
	case KindEntityNotFound, KindResourceNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

const maxStackDepth = 32

// BusinessException representa uma falha de negócio esperada, sempre
// associada a exatamente um ErrorCodeProvider.
//
// Quando nenhuma mensagem customizada é informada, message recebe a própria
// message key do código. O handler global usa essa igualdade para decidir
// se deve resolver a mensagem via i18n ou usar o texto informado.
type BusinessException struct {
	kind      Kind
	errorCode ErrorCodeProvider
	message   string
	cause     error
	stack     []uintptr
}

// Option configura uma BusinessException na construção
type Option func(*BusinessException)

// WithMessage define uma mensagem customizada
func WithMessage(message string) Option {
	return func(e *BusinessException) {
		e.message = message
	}
}

// WithMessagef define uma mensagem customizada formatada
func WithMessagef(format string, args ...any) Option {
	return func(e *BusinessException) {
		e.message = fmt.Sprintf(format, args...)
	}
}

// WithCause registra o erro de origem para encadeamento
func WithCause(cause error) Option {
	return func(e *BusinessException) {
		e.cause = cause
	}
}

// New cria uma exceção do Kind informado.
// Panics se errorCode for nil: toda exceção carrega exatamente um código.
func New(kind Kind, errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	if errorCode == nil {
		panic("errors: BusinessException requires a non-nil ErrorCodeProvider")
	}

	e := &BusinessException{
		kind:      kind,
		errorCode: errorCode,
		message:   errorCode.MessageKey(),
	}
	for _, opt := range opts {
		opt(e)
	}

	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(3, pcs)
	e.stack = pcs[:n]

	return e
}

func NewBusiness(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindBusiness, errorCode, opts...)
}

func NewEntityNotFound(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindEntityNotFound, errorCode, opts...)
}

func NewResourceNotFound(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindResourceNotFound, errorCode, opts...)
}

func NewDuplicate(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindDuplicate, errorCode, opts...)
}

func NewInvalidValue(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindInvalidValue, errorCode, opts...)
}

func NewBusinessRuleViolation(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindBusinessRuleViolation, errorCode, opts...)
}

func NewUnauthorized(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindUnauthorized, errorCode, opts...)
}

func NewForbidden(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindForbidden, errorCode, opts...)
}

func NewExternalService(errorCode ErrorCodeProvider, opts ...Option) *BusinessException {
	return New(KindExternalService, errorCode, opts...)
}

func (e *BusinessException) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.kind, e.errorCode.Code(), e.message, e.cause)
	}
	return fmt.Sprintf("%s [%s]: %s", e.kind, e.errorCode.Code(), e.message)
}

func (e *BusinessException) Unwrap() error {
	return e.cause
}

// Is permite errors.Is(err, NewX(code)) comparando Kind e código
func (e *BusinessException) Is(target error) bool {
	t, ok := target.(*BusinessException)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.errorCode == e.errorCode
}

func (e *BusinessException) Kind() Kind {
	return e.kind
}

func (e *BusinessException) ErrorCode() ErrorCodeProvider {
	return e.errorCode
}

// Message retorna a mensagem armazenada (customizada ou a message key)
func (e *BusinessException) Message() string {
	return e.message
}

// HasCustomMessage indica se o chamador informou um texto próprio.
// Só a igualdade com a message key conta; WithMessage("") é customizada.
func (e *BusinessException) HasCustomMessage() bool {
	return e.message != e.errorCode.MessageKey()
}

func (e *BusinessException) Cause() error {
	return e.cause
}

// StackTrace formata a pilha capturada na construção
func (e *BusinessException) StackTrace() string {
	return formatStack(e.stack)
}

// AsBusiness procura uma BusinessException na cadeia de erros
func AsBusiness(err error) (*BusinessException, bool) {
	var be *BusinessException
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsKind verifica se a cadeia contém uma BusinessException do Kind informado
func IsKind(err error, kind Kind) bool {
	be, ok := AsBusiness(err)
	return ok && be.kind == kind
}

// HasCode verifica se a cadeia contém uma BusinessException com o código informado
func HasCode(err error, errorCode ErrorCodeProvider) bool {
	be, ok := AsBusiness(err)
	return ok && be.errorCode == errorCode
}

func formatStack(pcs []uintptr) string {
	if len(pcs) == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
