package errors

import (
	"fmt"
	"net/http"
)

// HTTPStatus representa o status HTTP associado a um código de erro
type HTTPStatus int

// Value retorna o valor numérico do status
func (s HTTPStatus) Value() int {
	return int(s)
}

// ReasonPhrase retorna o texto padrão do status (ex: "Not Found")
func (s HTTPStatus) ReasonPhrase() string {
	return http.StatusText(int(s))
}

// Is5xx indica se o status pertence à família de erros de servidor
func (s HTTPStatus) Is5xx() bool {
	return s >= 500 && s < 600
}

// ErrorCodeProvider é o contrato de qualquer catálogo de erros.
// Módulos diferentes podem definir seus próprios códigos e reaproveitar
// a mesma hierarquia de exceções e o mesmo handler global.
type ErrorCodeProvider interface {
	// Code retorna o identificador estável (ex: "COMMON_400", "USER_001")
	Code() string
	// MessageKey retorna a chave do catálogo de mensagens i18n
	MessageKey() string
	// HTTPStatus retorna o status HTTP da resposta
	HTTPStatus() HTTPStatus
}

// HTTPStatusCode retorna o status numérico de um provider.
// Sempre derivado de HTTPStatus(), nunca armazenado separadamente.
func HTTPStatusCode(p ErrorCodeProvider) int {
	return p.HTTPStatus().Value()
}

// ErrorCode é uma entrada imutável de catálogo.
// Comparação é por identidade (ponteiro), não por valor.
type ErrorCode struct {
	code       string
	messageKey string
	httpStatus HTTPStatus
}

// NewErrorCode cria uma nova entrada de catálogo.
// Deve ser usado apenas na declaração de variáveis de pacote.
func NewErrorCode(code, messageKey string, status int) *ErrorCode {
	return &ErrorCode{
		code:       code,
		messageKey: messageKey,
		httpStatus: HTTPStatus(status),
	}
}

func (c *ErrorCode) Code() string {
	return c.code
}

func (c *ErrorCode) MessageKey() string {
	return c.messageKey
}

func (c *ErrorCode) HTTPStatus() HTTPStatus {
	return c.httpStatus
}

func (c *ErrorCode) String() string {
	return fmt.Sprintf("%s(%s, %d)", c.code, c.messageKey, c.httpStatus)
}

// ValidateCatalog verifica que nenhum código se repete entre catálogos.
// Serviços que definem catálogos próprios devem chamar na inicialização.
func ValidateCatalog(providers ...ErrorCodeProvider) error {
	seen := make(map[string]ErrorCodeProvider, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		if p.Code() == "" {
			return fmt.Errorf("error code with message key %q has empty code", p.MessageKey())
		}
		if prev, ok := seen[p.Code()]; ok && prev != p {
			return fmt.Errorf("duplicate error code %q (message keys %q and %q)",
				p.Code(), prev.MessageKey(), p.MessageKey())
		}
		seen[p.Code()] = p
	}
	return nil
}
