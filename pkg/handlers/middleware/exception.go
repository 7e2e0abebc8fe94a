package middleware

import (
	"io"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/handlers/dto"
	"github.com/rafabene/avantpro-core/pkg/handlers/exception"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/config"
)

// Renderer escreve o corpo de erro já resolvido pelo handler global
type Renderer interface {
	Render(c *gin.Context, status int, body dto.APIResponse[any])
}

// EnvelopeRenderer escreve o envelope padrão {success, code, message, data}
type EnvelopeRenderer struct{}

func (EnvelopeRenderer) Render(c *gin.Context, status int, body dto.APIResponse[any]) {
	c.AbortWithStatusJSON(status, body)
}

// ProblemRenderer escreve RFC 7807 (application/problem+json)
type ProblemRenderer struct {
	BaseURL string
}

func (r ProblemRenderer) Render(c *gin.Context, status int, body dto.APIResponse[any]) {
	problem := dto.NewProblem(r.BaseURL, c.Request.URL.Path, status, body)
	c.Header("Content-Type", dto.ProblemMediaType)
	c.AbortWithStatusJSON(status, problem)
}

// NewRenderer escolhe o renderer pelo formato configurado (ERROR_FORMAT)
func NewRenderer(format, baseURL string) Renderer {
	if format == config.ErrorFormatProblem {
		return ProblemRenderer{BaseURL: baseURL}
	}
	return EnvelopeRenderer{}
}

// ExceptionMiddleware é o único ponto onde erros viram respostas HTTP
type ExceptionMiddleware struct {
	handler  *exception.GlobalExceptionHandler
	renderer Renderer
}

// NewExceptionMiddleware cria o middleware; renderer nil usa o envelope padrão
func NewExceptionMiddleware(handler *exception.GlobalExceptionHandler, renderer Renderer) *ExceptionMiddleware {
	if renderer == nil {
		renderer = EnvelopeRenderer{}
	}
	return &ExceptionMiddleware{
		handler:  handler,
		renderer: renderer,
	}
}

// Handle renderiza o último erro registrado com c.Error pelos handlers.
// Se algum corpo já foi escrito, não faz nada.
func (m *ExceptionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		m.Render(c, c.Errors.Last().Err)
	}
}

// Recovery converte panics em PanicError (tratado pela regra catch-all)
func (m *ExceptionMiddleware) Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		m.Render(c, &errors.PanicError{Value: recovered, Stack: debug.Stack()})
	})
}

// NoRoute trata caminhos sem rota registrada
func (m *ExceptionMiddleware) NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.Render(c, &errors.NoRouteError{Method: c.Request.Method, Path: c.Request.URL.Path})
	}
}

// NoMethod trata métodos não suportados em rotas existentes como rota inexistente
func (m *ExceptionMiddleware) NoMethod() gin.HandlerFunc {
	return m.NoRoute()
}

// Render resolve o erro e escreve a resposta, abortando a cadeia
func (m *ExceptionMiddleware) Render(c *gin.Context, err error) {
	status, body := m.handler.Resolve(c.Request.Context(), err)
	m.renderer.Render(c, status, body)
}
