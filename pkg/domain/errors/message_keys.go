package errors

// MessageKey é uma chave simbólica do catálogo de mensagens.
// Usada para mensagens que não são modeladas como ErrorCodeProvider
// (ex: 404 de rota inexistente).
type MessageKey string

// Key retorna a chave do bundle de mensagens
func (k MessageKey) Key() string {
	return string(k)
}

const (
	// FILE
	MessageFileNotFound  MessageKey = "error.file.notfound"
	MessageFileRead      MessageKey = "error.file.read"
	MessageFileCopy      MessageKey = "error.file.copy"
	MessageFileMove      MessageKey = "error.file.move"
	MessageFileSaveError MessageKey = "error.file.save"

	// COMMON
	MessageCommonSuccess              MessageKey = "error.common.success"
	MessageCommonInvalidInput         MessageKey = "error.common.invalid.input"
	MessageCommonUnauthorized         MessageKey = "error.common.unauthorized"
	MessageCommonForbidden            MessageKey = "error.common.forbidden"
	MessageCommonNotFound             MessageKey = "error.common.not.found"
	MessageCommon404                  MessageKey = "error.common.404"
	MessageCommonInternalServer       MessageKey = "error.common.internal.server"
	MessageCommonInvalidParameterType MessageKey = "error.common.invalid.parameter.type"
)

// AllMessageKeys retorna as chaves do catálogo na ordem de declaração
func AllMessageKeys() []MessageKey {
	return []MessageKey{
		MessageFileNotFound,
		MessageFileRead,
		MessageFileCopy,
		MessageFileMove,
		MessageFileSaveError,
		MessageCommonSuccess,
		MessageCommonInvalidInput,
		MessageCommonUnauthorized,
		MessageCommonForbidden,
		MessageCommonNotFound,
		MessageCommon404,
		MessageCommonInternalServer,
		MessageCommonInvalidParameterType,
	}
}

// ValidationMessagePrefix prefixa as chaves das mensagens de validação por tag
// (ex: "validation.required", "validation.email")
const ValidationMessagePrefix = "validation."

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeBadRequest   = "/problems/bad-request"
	ProblemTypeUpstream     = "/problems/upstream-error"
)

// ProblemTypeForStatus escolhe o tipo de problema pela família do status
func ProblemTypeForStatus(status int) string {
	switch {
	case status == 401:
		return ProblemTypeUnauthorized
	case status == 403:
		return ProblemTypeForbidden
	case status == 404:
		return ProblemTypeNotFound
	case status == 409:
		return ProblemTypeConflict
	case status == 422:
		return ProblemTypeValidation
	case status >= 400 && status < 500:
		return ProblemTypeBadRequest
	case status == 502 || status == 503 || status == 504:
		return ProblemTypeUpstream
	default:
		return ProblemTypeInternal
	}
}
