package dto

import (
	"github.com/rafabene/avantpro-core/pkg/domain/errors"
)

// APIResponse é o envelope padrão de todas as respostas da API
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK cria uma resposta de sucesso com dados
func OK[T any](data T, message string) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Code:    errors.Success.Code(),
		Message: message,
		Data:    data,
	}
}

// Error cria uma resposta de erro; data é sempre null
func Error(code, message string) APIResponse[any] {
	return APIResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
		Data:    nil,
	}
}
