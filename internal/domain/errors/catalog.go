package errors

import (
	"net/http"

	core "github.com/rafabene/avantpro-core/pkg/domain/errors"
)

// Catálogo de erros do módulo de usuários.
// Nota: os códigos são contrato de API e nunca mudam de significado.
// As traduções devem estar em locales/*.yaml
var (
	UserNotFound       = core.NewErrorCode("USER_001", "error.user.not.found", http.StatusNotFound)
	EmailAlreadyExists = core.NewErrorCode("USER_002", "error.user.email.duplicate", http.StatusConflict)
	InvalidCredentials = core.NewErrorCode("USER_003", "error.user.invalid.credentials", http.StatusUnauthorized)
	InvalidEmail       = core.NewErrorCode("USER_004", "error.user.invalid.email", http.StatusBadRequest)
	CannotDeleteSelf   = core.NewErrorCode("USER_005", "error.user.delete.self", http.StatusBadRequest)
	AvatarUnavailable  = core.NewErrorCode("USER_006", "error.user.avatar.unavailable", http.StatusServiceUnavailable)
	InvalidUserData    = core.NewErrorCode("USER_007", "error.user.invalid.data", http.StatusBadRequest)
)

// Catalog retorna o catálogo de usuários na ordem de declaração
func Catalog() []core.ErrorCodeProvider {
	return []core.ErrorCodeProvider{
		UserNotFound,
		EmailAlreadyExists,
		InvalidCredentials,
		InvalidEmail,
		CannotDeleteSelf,
		AvatarUnavailable,
		InvalidUserData,
	}
}
