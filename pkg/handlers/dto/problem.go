package dto

import (
	"github.com/moogar0880/problems"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
)

// ProblemMediaType é o content type de RFC 7807
const ProblemMediaType = "application/problem+json"

// Problem segue RFC 7807 (Problem Details for HTTP APIs) com o código do catálogo
type Problem struct {
	*problems.Problem
	Code string `json:"code"`
}

// NewProblem converte um envelope de erro em Problem Details.
// baseURL prefixa o tipo do problema; instance é o path da requisição.
func NewProblem(baseURL, instance string, status int, body APIResponse[any]) Problem {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	p := problems.NewDetailedProblem(status, body.Message)
	p.Type = baseURL + errors.ProblemTypeForStatus(status)
	p.Instance = instance

	return Problem{
		Problem: p,
		Code:    body.Code,
	}
}
