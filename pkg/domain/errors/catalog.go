package errors

import "net/http"

// Catálogo comum compartilhado por todos os serviços.
// Nota: os códigos são contrato de API e nunca mudam de significado.
// As traduções devem estar em pkg/infrastructure/i18n/locales/*.json
var (
	// COMMON
	Success             = NewErrorCode("COMMON_200", "error.common.success", http.StatusOK)
	InvalidInput        = NewErrorCode("COMMON_400", "error.common.invalid.input", http.StatusBadRequest)
	InvalidDateRange    = NewErrorCode("COMMON_401", "error.common.invalid.date.range", http.StatusBadRequest)
	InvalidParameter    = NewErrorCode("COMMON_402", "error.common.invalid.parameter", http.StatusBadRequest)
	UnsupportedType     = NewErrorCode("COMMON_403", "error.common.unsupported.type", http.StatusBadRequest)
	Unauthorized        = NewErrorCode("COMMON_411", "error.common.unauthorized", http.StatusUnauthorized)
	Forbidden           = NewErrorCode("COMMON_412", "error.common.forbidden", http.StatusForbidden)
	NotFound            = NewErrorCode("COMMON_404", "error.common.not.found", http.StatusNotFound)
	InternalServerError = NewErrorCode("COMMON_500", "error.common.internal.server", http.StatusInternalServerError)

	// FILE
	FileNotFound = NewErrorCode("FILE_001", "error.file.notfound", http.StatusNotFound)
)

// CommonCatalog retorna as entradas do catálogo comum na ordem de declaração
func CommonCatalog() []ErrorCodeProvider {
	return []ErrorCodeProvider{
		Success,
		InvalidInput,
		InvalidDateRange,
		InvalidParameter,
		UnsupportedType,
		Unauthorized,
		Forbidden,
		NotFound,
		InternalServerError,
		FileNotFound,
	}
}
