package models

import "time"

// LedgerSummary espelha os contadores acumulados do ledger de receita.
// TotalDeposited nunca decresce; neste desenho TotalReleased acompanha
// TotalDeposited (todo depósito é liberado integralmente).
type LedgerSummary struct {
	TotalDeposited uint64 `json:"total_deposited" db:"total_deposited"`
	TotalReleased  uint64 `json:"total_released" db:"total_released"`
}

// Withdrawal registra um saque bem-sucedido de um holder (histórico append-only).
type Withdrawal struct {
	ID            string    `json:"id" db:"id"`
	HolderAddress string    `json:"holder_address" db:"holder_address"`
	Amount        uint64    `json:"amount" db:"amount"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Deposit registra um depósito de receita feito pelo gestor do ativo.
type Deposit struct {
	ID        string    `json:"id" db:"id"`
	Amount    uint64    `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
