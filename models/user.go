package models

import "time"

// User representa um participante cadastrado no backend (investidor ou gestor).
// A identidade on-chain é a SolanaPubKey; o cadastro interno serve para
// consultas e reconciliação.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	SolanaPubKey string    `json:"solana_pub_key" db:"solana_pub_key"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
