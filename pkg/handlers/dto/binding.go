package dto

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
)

var tagNamesOnce sync.Once

// RegisterTagNames faz o validador reportar o nome json/form do campo
// em vez do nome da struct Go. Chamado automaticamente pelos helpers de bind.
func RegisterTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// BindJSON vincula o corpo JSON.
// Falhas de validação retornam validator.ValidationErrors sem alteração;
// tipos incompatíveis viram TypeMismatchError; JSON malformado vira IllegalArgumentError.
func BindJSON(c *gin.Context, obj any) error {
	RegisterTagNames()

	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if stderrors.As(err, &ve) {
		return ve
	}

	return translateDecodeError(err)
}

// BindQuery vincula parâmetros da query string; falhas viram BindError
func BindQuery(c *gin.Context, obj any) error {
	RegisterTagNames()

	err := c.ShouldBindQuery(obj)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if stderrors.As(err, &ve) {
		return &errors.BindError{Fields: FieldErrors(ve), Err: err}
	}

	// o binding de formulário não informa o campo, só o valor rejeitado
	var numErr *strconv.NumError
	if stderrors.As(err, &numErr) {
		return &errors.BindError{
			Fields: []errors.FieldError{{Tag: "numeric", Param: numErr.Num}},
			Err:    err,
		}
	}

	return &errors.BindError{Err: err}
}

// ParamInt lê um parâmetro de rota inteiro
func ParamInt(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &errors.TypeMismatchError{Name: name, Value: raw, Err: err}
	}
	return n, nil
}

// QueryInt lê um parâmetro inteiro opcional da query string
func QueryInt(c *gin.Context, name string, def int64) (int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &errors.TypeMismatchError{Name: name, Value: raw, Err: err}
	}
	return n, nil
}

// FieldErrors converte erros do validador preservando a ordem reportada.
// Message fica vazio: o texto é resolvido via i18n pelo handler global.
func FieldErrors(ve validator.ValidationErrors) []errors.FieldError {
	fields := make([]errors.FieldError, len(ve))
	for i, fe := range ve {
		fields[i] = errors.FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		}
	}
	return fields
}

func translateDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		name := typeErr.Field
		if name == "" {
			name = typeErr.Value
		}
		return &errors.TypeMismatchError{Name: name, Value: typeErr.Value, Err: err}
	}

	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) || stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return &errors.IllegalArgumentError{Err: err}
	}

	return &errors.IllegalArgumentError{Err: err}
}
