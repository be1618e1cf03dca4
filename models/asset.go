package models

import "time"

// AssetStatus representa o estado de um ativo no ciclo de vida on-chain.
type AssetStatus string

const (
	// AssetStatusPending indica um ativo registrado mas ainda não verificado.
	AssetStatusPending AssetStatus = "pending"
	// AssetStatusActive indica um ativo verificado e apto a gerar receita.
	AssetStatusActive AssetStatus = "active"
	// AssetStatusFrozen indica um ativo congelado (estado terminal).
	AssetStatusFrozen AssetStatus = "frozen"
)

// CanTransitionTo informa se a transição de status é permitida.
// O ciclo de vida é estritamente Pending -> Active -> Frozen.
func (s AssetStatus) CanTransitionTo(next AssetStatus) bool {
	switch s {
	case AssetStatusPending:
		return next == AssetStatusActive
	case AssetStatusActive:
		return next == AssetStatusFrozen
	default:
		return false
	}
}

// Asset representa o registro on-chain de um ativo do mundo real (imóvel).
// O deed (NFT) associado ao ID é um conceito paralelo: a posse do token
// pode mudar sem alterar o status do registro.
type Asset struct {
	ID              uint64      `json:"id" db:"id"`
	PropertyAddress string      `json:"property_address" db:"property_address"` // Endereço/descritor, imutável após criação
	MetadataRef     string      `json:"metadata_ref" db:"metadata_ref"`         // Referência de metadados off-chain
	AppraisalValue  uint64      `json:"appraisal_value" db:"appraisal_value"`   // Valor de avaliação, mutável pelo owner
	LegalDocsHash   string      `json:"legal_docs_hash" db:"legal_docs_hash"`   // Hash dos documentos legais, imutável
	Status          AssetStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	LastUpdated     time.Time   `json:"last_updated" db:"last_updated"` // Última mutação de status
}
