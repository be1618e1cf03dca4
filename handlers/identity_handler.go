package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/lastro/services"

	"github.com/go-chi/chi/v5"
)

// IdentityHandler lida com requisições HTTP da allowlist de identidades.
type IdentityHandler struct {
	Service *services.IdentityService
}

// NewIdentityHandler cria uma nova instância do handler de identidades.
func NewIdentityHandler(s *services.IdentityService) *IdentityHandler {
	return &IdentityHandler{Service: s}
}

// AddVerifiedIdentity adiciona uma identidade à allowlist
// (restrito ao gerente de identidades).
// POST /identities
func (h *IdentityHandler) AddVerifiedIdentity(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		CallerAddress string `json:"caller_address"`
		Address       string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.AddVerifiedIdentity(requestBody.CallerAddress, requestBody.Address); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"address":  requestBody.Address,
		"verified": true,
	})
}

// RevokeVerifiedIdentity revoga a verificação de uma identidade
// (restrito ao gerente de identidades).
// DELETE /identities/{address}
func (h *IdentityHandler) RevokeVerifiedIdentity(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		http.Error(w, "Endereço da identidade é obrigatório", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		CallerAddress string `json:"caller_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.RevokeVerifiedIdentity(requestBody.CallerAddress, address); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":  address,
		"verified": false,
	})
}

// SetIdentityManager substitui o gerente de identidades (restrito ao owner).
// PUT /identities/manager
func (h *IdentityHandler) SetIdentityManager(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		CallerAddress string `json:"caller_address"`
		Address       string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.SetIdentityManager(requestBody.CallerAddress, requestBody.Address); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"identity_manager": requestBody.Address})
}

// GetIdentity consulta a situação de uma identidade na allowlist.
// GET /identities/{address}
func (h *IdentityHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		http.Error(w, "Endereço da identidade é obrigatório", http.StatusBadRequest)
		return
	}

	identity, found, err := h.Service.GetIdentity(address)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Identidade não encontrada", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, identity)
}
