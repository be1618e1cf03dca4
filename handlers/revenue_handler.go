package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/lastro/services"

	"github.com/go-chi/chi/v5"
)

// RevenueHandler lida com requisições HTTP do ledger de receita.
type RevenueHandler struct {
	Service *services.RevenueLedgerService
}

// NewRevenueHandler cria uma nova instância do handler de receita.
func NewRevenueHandler(s *services.RevenueLedgerService) *RevenueHandler {
	return &RevenueHandler{Service: s}
}

// Deposit registra um depósito de receita (restrito ao owner do registro).
// POST /revenue/deposits
func (h *RevenueHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		CallerAddress string `json:"caller_address"`
		Amount        uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.DepositRevenue(requestBody.CallerAddress, requestBody.Amount); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	summary, err := h.Service.Summary()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

// Withdraw paga ao chamador o que lhe é devido até aqui (pull-payment).
// POST /revenue/withdrawals
func (h *RevenueHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		CallerAddress string `json:"caller_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := h.Service.WithdrawRevenue(requestBody.CallerAddress)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]uint64{"amount": amount})
}

// GetWithdrawable informa quanto um holder poderia sacar agora.
// GET /revenue/withdrawable/{address}
func (h *RevenueHandler) GetWithdrawable(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		http.Error(w, "Endereço do holder é obrigatório", http.StatusBadRequest)
		return
	}

	amount, err := h.Service.GetWithdrawable(address)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]uint64{"amount": amount})
}

// Summary devolve os contadores acumulados do ledger.
// GET /revenue/summary
func (h *RevenueHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// WithdrawalsByHolder devolve o histórico de saques de um holder.
// GET /revenue/withdrawals/{address}
func (h *RevenueHandler) WithdrawalsByHolder(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		http.Error(w, "Endereço do holder é obrigatório", http.StatusBadRequest)
		return
	}

	withdrawals, err := h.Service.WithdrawalsByHolder(address)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, withdrawals)
}
