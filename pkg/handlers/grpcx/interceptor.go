// Package grpcx aplica a mesma política do handler global a serviços gRPC.
package grpcx

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/handlers/exception"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
)

// ErrorCodeTrailer carrega o código do catálogo na resposta gRPC
const ErrorCodeTrailer = "x-error-code"

// UnaryServerInterceptor converte erros dos handlers em status gRPC.
// Erros que já são status gRPC passam sem alteração.
func UnaryServerInterceptor(handler *exception.GlobalExceptionHandler) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		ctx = languageFromMetadata(ctx)

		defer func() {
			if r := recover(); r != nil {
				resp = nil
				err = toStatus(ctx, handler, &errors.PanicError{Value: r, Stack: debug.Stack()})
			}
		}()

		resp, err = next(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return resp, err
		}
		return nil, toStatus(ctx, handler, err)
	}
}

func toStatus(ctx context.Context, handler *exception.GlobalExceptionHandler, err error) error {
	httpStatus, body := handler.Resolve(ctx, err)

	// fora de um stream de servidor o trailer não é enviado
	_ = grpc.SetTrailer(ctx, metadata.Pairs(ErrorCodeTrailer, body.Code))

	return status.Error(CodeFromHTTP(httpStatus), body.Message)
}

// languageFromMetadata usa accept-language quando o contexto ainda não tem idioma
func languageFromMetadata(ctx context.Context) context.Context {
	if _, ok := i18n.LanguageFromContext(ctx); ok {
		return ctx
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}

	values := md.Get("accept-language")
	if len(values) == 0 {
		return ctx
	}

	lang := strings.TrimSpace(strings.SplitN(values[0], ",", 2)[0])
	if idx := strings.Index(lang, ";"); idx != -1 {
		lang = lang[:idx]
	}
	if lang == "" {
		return ctx
	}
	return i18n.WithLanguage(ctx, lang)
}

// CodeFromHTTP mapeia o status HTTP para o código gRPC equivalente.
// Nunca retorna codes.OK: status.Error(codes.OK, ...) é nil e o erro se perderia.
func CodeFromHTTP(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusNotImplemented:
		return codes.Unimplemented
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	}

	switch {
	case httpStatus < 400:
		return codes.Unknown
	case httpStatus >= 400 && httpStatus < 500:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
