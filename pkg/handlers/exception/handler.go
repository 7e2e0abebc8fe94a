package exception

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/domain/ports"
	"github.com/rafabene/avantpro-core/pkg/handlers/dto"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
)

// Nomes das regras na ordem de avaliação
const (
	RuleEntityNotFound   = "EntityNotFound"
	RuleExternalService  = "ExternalService"
	RuleUnauthorized     = "Unauthorized"
	RuleBusiness         = "Business"
	RuleAccessDenied     = "AccessDenied"
	RuleNoRoute          = "NoRoute"
	RuleIllegalArgument  = "IllegalArgument"
	RuleValidation       = "Validation"
	RuleBind             = "Bind"
	RuleTypeMismatch     = "TypeMismatch"
	RuleUnexpected       = "Unexpected"
	invalidValueFallback = "invalid value"
	typeMismatchFallback = "'{0}' parameter value is invalid."
)

// rule aplica-se ao erro quando retorna ok=true; a primeira que casar vence
type rule struct {
	name   string
	handle func(ctx context.Context, err error) (status int, body dto.APIResponse[any], ok bool)
}

// GlobalExceptionHandler converte qualquer erro em status HTTP + envelope padrão
type GlobalExceptionHandler struct {
	resolver *i18n.MessageResolver
	logger   ports.Logger
	rules    []rule
}

// NewGlobalExceptionHandler cria o handler com a lista ordenada de regras
func NewGlobalExceptionHandler(resolver *i18n.MessageResolver, logger ports.Logger) *GlobalExceptionHandler {
	h := &GlobalExceptionHandler{
		resolver: resolver,
		logger:   logger,
	}

	h.rules = []rule{
		{RuleEntityNotFound, h.handleEntityNotFound},
		{RuleExternalService, h.handleExternalService},
		{RuleUnauthorized, h.handleUnauthorized},
		{RuleBusiness, h.handleBusiness},
		{RuleAccessDenied, h.handleAccessDenied},
		{RuleNoRoute, h.handleNoRoute},
		{RuleIllegalArgument, h.handleIllegalArgument},
		{RuleValidation, h.handleValidation},
		{RuleBind, h.handleBind},
		{RuleTypeMismatch, h.handleTypeMismatch},
	}

	return h
}

// Rules retorna os nomes das regras na ordem de avaliação
func (h *GlobalExceptionHandler) Rules() []string {
	names := make([]string, 0, len(h.rules)+1)
	for _, r := range h.rules {
		names = append(names, r.name)
	}
	return append(names, RuleUnexpected)
}

// Resolve avalia as regras em ordem e retorna status e corpo da resposta.
// Erros nil não deveriam chegar aqui; são tratados como inesperados.
func (h *GlobalExceptionHandler) Resolve(ctx context.Context, err error) (int, dto.APIResponse[any]) {
	if err == nil {
		err = stderrors.New("nil error reached exception handler")
	}

	for _, r := range h.rules {
		if status, body, ok := r.handle(ctx, err); ok {
			return status, body
		}
	}
	return h.handleUnexpected(ctx, err)
}

// Regras 1-4: família BusinessException

func (h *GlobalExceptionHandler) handleEntityNotFound(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	e, ok := errors.AsBusiness(err)
	if !ok || e.Kind() != errors.KindEntityNotFound {
		return 0, dto.APIResponse[any]{}, false
	}
	h.logBusiness(e)
	status, body := h.businessResponse(ctx, e)
	return status, body, true
}

func (h *GlobalExceptionHandler) handleExternalService(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	e, ok := errors.AsBusiness(err)
	if !ok || e.Kind() != errors.KindExternalService {
		return 0, dto.APIResponse[any]{}, false
	}

	h.logger.Error("ExternalServiceException",
		"code", e.ErrorCode().Code(),
		"kind", e.Kind().String(),
		"message", e.Message(),
		"error", err.Error(),
		"stack", e.StackTrace(),
	)

	status, body := h.businessResponse(ctx, e)
	return status, body, true
}

func (h *GlobalExceptionHandler) handleUnauthorized(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	e, ok := errors.AsBusiness(err)
	if !ok || e.Kind() != errors.KindUnauthorized {
		return 0, dto.APIResponse[any]{}, false
	}
	h.logBusiness(e)
	status, body := h.businessResponse(ctx, e)
	return status, body, true
}

func (h *GlobalExceptionHandler) handleBusiness(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	e, ok := errors.AsBusiness(err)
	if !ok {
		return 0, dto.APIResponse[any]{}, false
	}
	h.logBusiness(e)
	status, body := h.businessResponse(ctx, e)
	return status, body, true
}

func (h *GlobalExceptionHandler) logBusiness(e *errors.BusinessException) {
	h.logger.Warn(e.Kind().String(),
		"code", e.ErrorCode().Code(),
		"kind", e.Kind().String(),
		"message", e.Message(),
	)
}

func (h *GlobalExceptionHandler) businessResponse(ctx context.Context, e *errors.BusinessException) (int, dto.APIResponse[any]) {
	code := e.ErrorCode()
	return errors.HTTPStatusCode(code), dto.Error(code.Code(), h.resolveMessage(ctx, e))
}

// resolveMessage usa a mensagem customizada quando o chamador a informou;
// caso contrário traduz a message key do código no idioma da requisição.
func (h *GlobalExceptionHandler) resolveMessage(ctx context.Context, e *errors.BusinessException) string {
	if e.HasCustomMessage() {
		return e.Message()
	}
	return h.resolver.ResolveCode(ctx, e.ErrorCode())
}

// Regras 5-10: erros de framework

func (h *GlobalExceptionHandler) handleAccessDenied(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	var denied *errors.AccessDeniedError
	if !stderrors.As(err, &denied) {
		return 0, dto.APIResponse[any]{}, false
	}

	h.logger.Warn("AccessDeniedException", "message", denied.Error())

	body := dto.Error(errors.Forbidden.Code(), h.resolver.ResolveCode(ctx, errors.Forbidden))
	return http.StatusForbidden, body, true
}

func (h *GlobalExceptionHandler) handleNoRoute(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	var noRoute *errors.NoRouteError
	if !stderrors.As(err, &noRoute) {
		return 0, dto.APIResponse[any]{}, false
	}

	h.logger.Warn("Invalid resource access", "method", noRoute.Method, "path", noRoute.Path)

	body := dto.Error(errors.NotFound.Code(), h.resolver.ResolveKey(ctx, errors.MessageCommon404))
	return http.StatusNotFound, body, true
}

func (h *GlobalExceptionHandler) handleIllegalArgument(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	var illegal *errors.IllegalArgumentError
	if !stderrors.As(err, &illegal) {
		return 0, dto.APIResponse[any]{}, false
	}

	h.logger.Warn("IllegalArgumentException", "message", illegal.Error())

	message := illegal.Message
	if strings.TrimSpace(message) == "" {
		message = h.resolver.ResolveCode(ctx, errors.InvalidInput)
	}
	return http.StatusBadRequest, dto.Error(errors.InvalidInput.Code(), message), true
}

func (h *GlobalExceptionHandler) handleValidation(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	// BindError embrulha os ValidationErrors do validator; pertence à regra de binding
	var bind *errors.BindError
	if stderrors.As(err, &bind) {
		return 0, dto.APIResponse[any]{}, false
	}

	var fields []errors.FieldError

	var validation *errors.ValidationError
	var ve validator.ValidationErrors
	switch {
	case stderrors.As(err, &validation):
		fields = validation.Fields
	case stderrors.As(err, &ve):
		fields = dto.FieldErrors(ve)
	default:
		return 0, dto.APIResponse[any]{}, false
	}

	message := h.joinFields(ctx, fields)
	h.logger.Warn("MethodArgumentNotValidException", "message", message)

	return http.StatusBadRequest, dto.Error(errors.InvalidInput.Code(), message), true
}

func (h *GlobalExceptionHandler) handleBind(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	var bind *errors.BindError
	if !stderrors.As(err, &bind) {
		return 0, dto.APIResponse[any]{}, false
	}

	message := h.joinFields(ctx, bind.Fields)
	if message == "" {
		message = h.resolver.ResolveCode(ctx, errors.InvalidInput)
	}
	h.logger.Warn("BindException", "message", message)

	return http.StatusBadRequest, dto.Error(errors.InvalidInput.Code(), message), true
}

func (h *GlobalExceptionHandler) handleTypeMismatch(ctx context.Context, err error) (int, dto.APIResponse[any], bool) {
	var mismatch *errors.TypeMismatchError
	if !stderrors.As(err, &mismatch) {
		return 0, dto.APIResponse[any]{}, false
	}

	message := h.resolver.ResolveOrDefault(ctx,
		errors.MessageCommonInvalidParameterType.Key(), typeMismatchFallback, mismatch.Name)
	h.logger.Warn("MethodArgumentTypeMismatchException", "message", message, "value", mismatch.Value)

	return http.StatusBadRequest, dto.Error(errors.InvalidInput.Code(), message), true
}

// Regra 11: qualquer outro erro. O texto original nunca vai para o corpo.
func (h *GlobalExceptionHandler) handleUnexpected(ctx context.Context, err error) (int, dto.APIResponse[any]) {
	h.logger.Error("Unexpected Exception",
		"type", fmt.Sprintf("%T", err),
		"error", err.Error(),
		"stack", stackOf(err),
	)

	code := errors.InternalServerError
	return http.StatusInternalServerError, dto.Error(code.Code(), h.resolver.ResolveCode(ctx, code))
}

// joinFields monta "campo: mensagem" na ordem reportada, separados por ", "
func (h *GlobalExceptionHandler) joinFields(ctx context.Context, fields []errors.FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		msg := f.Message
		if msg == "" {
			msg = h.resolver.ResolveOrDefault(ctx, errors.ValidationMessagePrefix+f.Tag, invalidValueFallback, f.Param)
		}
		if f.Field == "" {
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, f.Field+": "+msg)
	}
	return strings.Join(parts, ", ")
}

type stackTracer interface {
	StackTrace() string
}

func stackOf(err error) string {
	var p *errors.PanicError
	if stderrors.As(err, &p) && len(p.Stack) > 0 {
		return string(p.Stack)
	}

	var st stackTracer
	if stderrors.As(err, &st) {
		return st.StackTrace()
	}

	return string(debug.Stack())
}
