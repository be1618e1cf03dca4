package models

import (
	"encoding/json"
	"time"
)

// Tipos de evento emitidos pelas operações de mutação de estado.
const (
	EventAssetRegistered        = "asset_registered"
	EventAssetVerified          = "asset_verified"
	EventAssetFrozen            = "asset_frozen"
	EventAppraisalUpdated       = "appraisal_updated"
	EventVerifierChanged        = "verifier_changed"
	EventRevenueDeposited       = "revenue_deposited"
	EventRevenueWithdrawn       = "revenue_withdrawn"
	EventIdentityAdded          = "identity_added"
	EventIdentityRevoked        = "identity_revoked"
	EventIdentityManagerChanged = "identity_manager_changed"
)

// Event é o registro append-only de uma operação bem-sucedida, destinado
// a indexação/auditoria off-chain. Emitido exatamente uma vez por chamada
// bem-sucedida; nunca em falha.
type Event struct {
	ID        string          `json:"id" db:"id"`
	Type      string          `json:"type" db:"type"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// NewEventPayload serializa os identificadores-chave de uma operação.
// Falha de serialização aqui seria um bug de programação, então o erro
// é propagado para o chamador tratar como falha da operação.
func NewEventPayload(fields map[string]interface{}) (json.RawMessage, error) {
	return json.Marshal(fields)
}
