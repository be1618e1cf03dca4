package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ferreirogomes/lastro/services"
)

// statusForError mapeia os erros sentinela dos serviços em códigos HTTP.
// Erros não classificados viram 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyVerified),
		errors.Is(err, services.ErrNotVerified):
		return http.StatusConflict
	case errors.Is(err, services.ErrNullAddress),
		errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoShares),
		errors.Is(err, services.ErrNothingToWithdraw),
		errors.Is(err, services.ErrZeroSupply),
		errors.Is(err, services.ErrReceiverNotVerified):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrPayoutFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON serializa a resposta com o status informado.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
