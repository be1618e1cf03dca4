package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/lastro/services"
)

// TokenHandler lida com o fluxo prepare/complete de transferência de
// frações na Solana, com o guard de conformidade interposto.
type TokenHandler struct {
	Service *services.ShareTransferService
}

// NewTokenHandler cria uma nova instância do handler de tokens.
func NewTokenHandler(s *services.ShareTransferService) *TokenHandler {
	return &TokenHandler{Service: s}
}

// PrepareTransferRequest descreve a preparação de uma transferência.
type PrepareTransferRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     uint64 `json:"amount"`
}

// PrepareTransferResponse carrega a transação para assinatura do usuário.
type PrepareTransferResponse struct {
	SerializedTransaction string `json:"serialized_transaction"` // Transação em Base64 para assinatura
	DestinationATA        string `json:"destination_ata"`        // Endereço da ATA de destino
}

// PrepareTransfer prepara uma transação de transferência para assinatura
// do usuário. Destinatário fora da allowlist é vetado aqui, antes de
// qualquer transação ser construída.
// POST /tokens/transfer/prepare
func (h *TokenHandler) PrepareTransfer(w http.ResponseWriter, r *http.Request) {
	var req PrepareTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	serializedTx, destATA, err := h.Service.PrepareShareTransfer(req.FromUserID, req.ToUserID, req.Amount)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, PrepareTransferResponse{
		SerializedTransaction: serializedTx,
		DestinationATA:        destATA.String(),
	})
}

// CompleteTransferRequest descreve a conclusão de uma transferência.
type CompleteTransferRequest struct {
	FromUserID        string `json:"from_user_id"`
	ToUserID          string `json:"to_user_id"`
	Amount            uint64 `json:"amount"`
	SignedTransaction string `json:"signed_transaction"` // Transação assinada pelo usuário (Base64)
}

// CompleteTransfer envia a transação de transferência assinada para a Solana.
// POST /tokens/transfer/complete
func (h *TokenHandler) CompleteTransfer(w http.ResponseWriter, r *http.Request) {
	var req CompleteTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txID, err := h.Service.CompleteShareTransfer(req.FromUserID, req.ToUserID, req.SignedTransaction, req.Amount)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"transaction_id": txID.String()})
}
