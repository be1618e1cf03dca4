package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ferreirogomes/lastro/services"

	"github.com/go-chi/chi/v5"
)

// AssetHandler lida com requisições HTTP do ciclo de vida de ativos.
type AssetHandler struct {
	Service *services.AssetRegistryService
}

// NewAssetHandler cria uma nova instância do handler de ativos.
func NewAssetHandler(s *services.AssetRegistryService) *AssetHandler {
	return &AssetHandler{Service: s}
}

// RegisterAsset registra um novo ativo (restrito ao owner do registro).
// POST /assets
func (h *AssetHandler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		CallerAddress   string `json:"caller_address"`
		OwnerAddress    string `json:"owner_address"`
		MetadataRef     string `json:"metadata_ref"`
		PropertyAddress string `json:"property_address"`
		AppraisalValue  uint64 `json:"appraisal_value"`
		LegalDocsHash   string `json:"legal_docs_hash"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Service.RegisterAsset(
		requestBody.CallerAddress, requestBody.OwnerAddress,
		requestBody.MetadataRef, requestBody.PropertyAddress,
		requestBody.AppraisalValue, requestBody.LegalDocsHash,
	)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}

// GetAssetByID obtém o registro de um ativo pelo ID.
// GET /assets/{id}
func (h *AssetHandler) GetAssetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "ID do ativo inválido", http.StatusBadRequest)
		return
	}

	asset, found, err := h.Service.GetAsset(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Ativo não encontrado", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// VerifyAsset avança o ativo de Pending para Active (restrito ao verificador).
// POST /assets/{id}/verify
func (h *AssetHandler) VerifyAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "ID do ativo inválido", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		CallerAddress string `json:"caller_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Service.VerifyAsset(requestBody.CallerAddress, id)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// FreezeAsset congela um ativo Active (restrito ao owner do registro).
// POST /assets/{id}/freeze
func (h *AssetHandler) FreezeAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "ID do ativo inválido", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		CallerAddress string `json:"caller_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Service.FreezeAsset(requestBody.CallerAddress, id)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// UpdateAppraisal atualiza o valor de avaliação (restrito ao owner).
// PUT /assets/{id}/appraisal
func (h *AssetHandler) UpdateAppraisal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "ID do ativo inválido", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		CallerAddress  string `json:"caller_address"`
		AppraisalValue uint64 `json:"appraisal_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Service.UpdateAppraisal(requestBody.CallerAddress, id, requestBody.AppraisalValue)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// SetVerifier substitui o verificador do registro (restrito ao owner).
// PUT /roles/verifier
func (h *AssetHandler) SetVerifier(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		CallerAddress   string `json:"caller_address"`
		VerifierAddress string `json:"verifier_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.SetVerifier(requestBody.CallerAddress, requestBody.VerifierAddress); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"verifier": requestBody.VerifierAddress})
}
