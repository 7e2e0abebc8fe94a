package exception_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/handlers/dto"
	"github.com/rafabene/avantpro-core/pkg/handlers/exception"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
)

var orderNotFound = errors.NewErrorCode("ORDER_001", "error.order.not.found", http.StatusNotFound)

type listQuery struct {
	Size int `form:"size" binding:"max=100"`
}

type createUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

var _ = Describe("GlobalExceptionHandler", func() {
	var (
		handler *exception.GlobalExceptionHandler
		logger  *captureLogger
		ctx     context.Context
	)

	BeforeEach(func() {
		service, err := i18n.NewDefaultService("ko")
		Expect(err).NotTo(HaveOccurred())
		service.AddMessages("en", map[string]string{"error.order.not.found": "Order not found."})

		logger = newCaptureLogger()
		handler = exception.NewGlobalExceptionHandler(i18n.NewMessageResolver(service), logger)
		ctx = i18n.WithLanguage(context.Background(), "en")
	})

	It("avalia as regras na ordem declarada", func() {
		Expect(handler.Rules()).To(Equal([]string{
			exception.RuleEntityNotFound,
			exception.RuleExternalService,
			exception.RuleUnauthorized,
			exception.RuleBusiness,
			exception.RuleAccessDenied,
			exception.RuleNoRoute,
			exception.RuleIllegalArgument,
			exception.RuleValidation,
			exception.RuleBind,
			exception.RuleTypeMismatch,
			exception.RuleUnexpected,
		}))
	})

	Describe("família BusinessException", func() {
		It("traduz EntityNotFound sem mensagem customizada", func() {
			status, body := handler.Resolve(ctx, errors.NewEntityNotFound(errors.NotFound))

			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body.Success).To(BeFalse())
			Expect(body.Code).To(Equal("COMMON_404"))
			Expect(body.Message).To(Equal("Not found."))
			Expect(body.Data).To(BeNil())

			entry := logger.Last()
			Expect(entry.Level).To(Equal("WARN"))
			Expect(entry.Attrs).To(HaveKeyWithValue("code", "COMMON_404"))
			Expect(entry.Attrs).NotTo(HaveKey("stack"))
		})

		It("usa a mensagem customizada sem consultar o catálogo", func() {
			err := errors.NewInvalidValue(errors.InvalidInput, errors.WithMessage("age must be >= 0"))

			status, body := handler.Resolve(ctx, err)

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body.Code).To(Equal("COMMON_400"))
			Expect(body.Message).To(Equal("age must be >= 0"))
		})

		It("devolve a mensagem vazia informada pelo chamador", func() {
			status, body := handler.Resolve(ctx, errors.NewInvalidValue(errors.InvalidInput, errors.WithMessage("")))

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body.Code).To(Equal("COMMON_400"))
			Expect(body.Message).To(BeEmpty())
		})

		It("traduz a message key no idioma do contexto", func() {
			koCtx := i18n.WithLanguage(context.Background(), "ko")

			_, body := handler.Resolve(koCtx, errors.NewEntityNotFound(errors.NotFound))

			Expect(body.Message).To(Equal("대상을 찾을 수 없습니다."))
		})

		It("usa o idioma padrão quando o contexto não tem idioma", func() {
			_, body := handler.Resolve(context.Background(), errors.NewForbidden(errors.Forbidden))

			Expect(body.Message).To(Equal("접근 권한이 없습니다."))
		})

		It("aceita catálogos de outros módulos", func() {
			status, body := handler.Resolve(ctx, errors.NewEntityNotFound(orderNotFound))

			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body.Code).To(Equal("ORDER_001"))
			Expect(body.Message).To(Equal("Order not found."))
		})

		It("devolve o código quando a chave não existe em nenhum idioma", func() {
			missing := errors.NewErrorCode("ORDER_999", "error.order.missing", http.StatusConflict)

			status, body := handler.Resolve(ctx, errors.NewDuplicate(missing))

			Expect(status).To(Equal(http.StatusConflict))
			Expect(body.Message).To(Equal("ORDER_999"))
		})

		It("trata Duplicate, InvalidValue, Forbidden e ResourceNotFound pela regra genérica", func() {
			cases := []*errors.BusinessException{
				errors.NewDuplicate(errors.InvalidInput),
				errors.NewInvalidValue(errors.InvalidParameter),
				errors.NewBusinessRuleViolation(errors.InvalidDateRange),
				errors.NewForbidden(errors.Forbidden),
				errors.NewResourceNotFound(errors.FileNotFound),
				errors.NewBusiness(errors.UnsupportedType),
			}

			for _, err := range cases {
				status, body := handler.Resolve(ctx, err)
				Expect(status).To(Equal(errors.HTTPStatusCode(err.ErrorCode())))
				Expect(body.Code).To(Equal(err.ErrorCode().Code()))

				entry := logger.Last()
				Expect(entry.Level).To(Equal("WARN"))
				Expect(entry.Attrs).To(HaveKeyWithValue("kind", err.Kind().String()))
			}
		})

		It("encontra a exceção dentro de erros embrulhados", func() {
			wrapped := fmt.Errorf("loading user: %w", errors.NewEntityNotFound(errors.NotFound))

			status, body := handler.Resolve(ctx, wrapped)

			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body.Code).To(Equal("COMMON_404"))
		})

		It("registra ExternalService em ERROR com stack trace", func() {
			cause := stderrors.New("connection refused")
			err := errors.NewExternalService(
				errors.NewErrorCode("MAIL_001", "error.mail.send", http.StatusBadGateway),
				errors.WithMessage("mail delivery failed"),
				errors.WithCause(cause),
			)

			status, body := handler.Resolve(ctx, err)

			Expect(status).To(Equal(http.StatusBadGateway))
			Expect(body.Message).To(Equal("mail delivery failed"))

			entry := logger.Last()
			Expect(entry.Level).To(Equal("ERROR"))
			Expect(entry.Attrs).To(HaveKey("stack"))
			Expect(entry.Attrs["error"]).To(ContainSubstring("connection refused"))
		})

		It("registra Unauthorized em WARN", func() {
			status, body := handler.Resolve(ctx, errors.NewUnauthorized(errors.Unauthorized))

			Expect(status).To(Equal(http.StatusUnauthorized))
			Expect(body.Code).To(Equal("COMMON_411"))
			Expect(logger.Last().Level).To(Equal("WARN"))
		})
	})

	Describe("erros de framework", func() {
		It("converte acesso negado em 403 com a mensagem de Forbidden", func() {
			status, body := handler.Resolve(ctx, &errors.AccessDeniedError{Reason: "missing users.delete"})

			Expect(status).To(Equal(http.StatusForbidden))
			Expect(body.Code).To(Equal("COMMON_412"))
			Expect(body.Message).To(Equal("You do not have permission to access this resource."))
		})

		It("converte rota inexistente em 404 sem stack trace", func() {
			status, body := handler.Resolve(ctx, &errors.NoRouteError{Method: "GET", Path: "/wp-admin"})

			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body.Code).To(Equal("COMMON_404"))
			Expect(body.Message).To(Equal("The requested resource does not exist."))

			entry := logger.Last()
			Expect(entry.Level).To(Equal("WARN"))
			Expect(entry.Attrs).To(HaveKeyWithValue("path", "/wp-admin"))
			Expect(entry.Attrs).NotTo(HaveKey("stack"))
		})

		It("usa o texto do argumento inválido quando presente", func() {
			_, body := handler.Resolve(ctx, errors.NewIllegalArgument("page must be positive"))

			Expect(body.Code).To(Equal("COMMON_400"))
			Expect(body.Message).To(Equal("page must be positive"))
		})

		It("usa a mensagem genérica quando o argumento inválido não tem texto", func() {
			status, body := handler.Resolve(ctx, &errors.IllegalArgumentError{Err: stderrors.New("unexpected EOF")})

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body.Message).To(Equal("Invalid input."))
		})

		It("junta erros do validador na ordem reportada", func() {
			v := validator.New()
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			})
			err := v.Struct(createUserRequest{Email: "not-an-email"})
			Expect(err).To(HaveOccurred())

			status, body := handler.Resolve(ctx, err)

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body.Code).To(Equal("COMMON_400"))
			Expect(body.Message).To(Equal("name: must not be blank, email: must be a well-formed email"))
		})

		It("preserva mensagens já definidas em ValidationError", func() {
			err := &errors.ValidationError{Fields: []errors.FieldError{
				{Field: "name", Message: "must not be blank"},
				{Field: "email", Message: "must be a well-formed email"},
			}}

			_, body := handler.Resolve(ctx, err)

			Expect(body.Message).To(Equal("name: must not be blank, email: must be a well-formed email"))
		})

		It("formata falhas de binding como campo: mensagem", func() {
			err := &errors.BindError{Fields: []errors.FieldError{
				{Field: "size", Tag: "max", Param: "100"},
				{Field: "sort", Tag: "unknown"},
			}}

			status, body := handler.Resolve(ctx, err)

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body.Message).To(Equal("size: size must be at most 100, sort: invalid value"))
		})

		It("trata falha de validação da query string pela regra de binding", func() {
			gin.SetMode(gin.TestMode)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?size=500", nil)

			var query listQuery
			err := dto.BindQuery(c, &query)
			Expect(err).To(HaveOccurred())

			status, body := handler.Resolve(ctx, err)

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body.Code).To(Equal("COMMON_400"))
			Expect(body.Message).To(Equal("size: size must be at most 100"))
			Expect(logger.Last().Message).To(Equal("BindException"))
		})

		It("interpola o nome do parâmetro em type mismatch", func() {
			err := &errors.TypeMismatchError{Name: "id", Value: "abc"}

			_, body := handler.Resolve(ctx, err)
			Expect(body.Message).To(Equal("'id' parameter value is invalid."))

			_, body = handler.Resolve(i18n.WithLanguage(context.Background(), "ko"), err)
			Expect(body.Message).To(Equal("'id' 파라미터의 값이 유효하지 않습니다."))
		})
	})

	Describe("catch-all", func() {
		It("retorna 500 sem expor o texto original", func() {
			status, body := handler.Resolve(ctx, stderrors.New("nil pointer dereference at repo.go:42"))

			Expect(status).To(Equal(http.StatusInternalServerError))
			Expect(body.Code).To(Equal("COMMON_500"))
			Expect(body.Message).To(Equal("An internal server error occurred."))
			Expect(body.Message).NotTo(ContainSubstring("nil pointer"))

			entry := logger.Last()
			Expect(entry.Level).To(Equal("ERROR"))
			Expect(entry.Attrs).To(HaveKey("stack"))
		})

		It("usa o stack do panic recuperado", func() {
			err := &errors.PanicError{Value: "boom", Stack: []byte("goroutine 1 [running]:")}

			status, _ := handler.Resolve(ctx, err)

			Expect(status).To(Equal(http.StatusInternalServerError))
			Expect(logger.Last().Attrs).To(HaveKeyWithValue("stack", "goroutine 1 [running]:"))
		})

		It("continua respondendo sem catálogo", func() {
			bare := exception.NewGlobalExceptionHandler(i18n.NewMessageResolver(nil), logger)

			status, body := bare.Resolve(ctx, errors.NewEntityNotFound(errors.NotFound))

			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body.Message).To(Equal("COMMON_404"))
		})
	})
})
