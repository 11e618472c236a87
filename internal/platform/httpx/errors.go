package httpx

import (
	"net/http"
)

// Fixed envelopes shared by the router and handlers.
var (
	NotFoundEnvelope = Envelope{
		Error:   "Endpoint não encontrado",
		Message: "Verifique a documentação da API em /",
	}
	InternalEnvelope = Envelope{
		Error:   "Erro interno do servidor",
		Message: "Algo deu errado!",
	}
	TooManyRequestsEnvelope = Envelope{
		Error: "Muitas requisições. Tente novamente em alguns minutos.",
	}
)

// BadRequest reports a payload the handler could not accept.
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, Envelope{Error: "Requisição inválida", Message: err.Error()})
}

// Internal writes the generic 500 envelope. Error text never reaches the client.
func Internal(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusInternalServerError, InternalEnvelope)
}

// NotFound writes the 404 envelope for unmatched routes and methods.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusNotFound, NotFoundEnvelope)
}

// TooManyRequests writes the 429 envelope used by the rate limiter.
func TooManyRequests(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusTooManyRequests, TooManyRequestsEnvelope)
}
