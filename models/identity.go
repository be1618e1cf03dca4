package models

import "time"

// Role é um papel administrativo concedido a uma identidade.
type Role string

const (
	// RoleOwner tem controle administrativo total (registro, congelamento, depósitos).
	RoleOwner Role = "owner"
	// RoleVerifier é a única autoridade que avança Pending -> Active.
	RoleVerifier Role = "verifier"
	// RoleIdentityManager gerencia a allowlist de identidades verificadas.
	RoleIdentityManager Role = "identity_manager"
)

// Identity representa uma entrada da allowlist de conformidade.
// Apenas identidades verificadas podem RECEBER tokens regulados;
// revogar não afeta tokens já em posse.
type Identity struct {
	Address   string    `json:"address" db:"address"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
