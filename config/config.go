// Package config carrega a configuração do backend a partir de um
// arquivo YAML, com overrides por variáveis de ambiente para os
// segredos (DSN do banco e chave do FeePayer).
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config reúne toda a configuração do processo.
type Config struct {
	Port        int    `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`

	// Solana: se SolanaRPCURL for vazio, o backend roda com os ledgers
	// em memória (modo local/desenvolvimento).
	SolanaRPCURL             string `yaml:"solana_rpc_url"`
	SolanaWSURL              string `yaml:"solana_ws_url"`
	SolanaFeePayerPrivateKey string `yaml:"solana_fee_payer_private_key"`
	ShareMint                string `yaml:"share_mint"`

	// OwnerAddress é o deployer: recebe os papéis administrativos e a
	// primeira verificação da allowlist no bootstrap.
	OwnerAddress string `yaml:"owner_address"`
	// ShareSupply é a oferta cunhada na construção do ledger em memória.
	ShareSupply uint64 `yaml:"share_supply"`
}

// Load lê o arquivo YAML e aplica os overrides de ambiente.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler arquivo de configuração %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("falha ao parsear configuração: %w", err)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		cfg.SolanaRPCURL = v
	}
	if v := os.Getenv("SOLANA_WS_URL"); v != "" {
		cfg.SolanaWSURL = v
	}
	if v := os.Getenv("SOLANA_FEE_PAYER_PRIVATE_KEY"); v != "" {
		cfg.SolanaFeePayerPrivateKey = v
	}
	if v := os.Getenv("OWNER_ADDRESS"); v != "" {
		cfg.OwnerAddress = v
	}

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ShareSupply == 0 {
		cfg.ShareSupply = 1000
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("database_url é obrigatório (arquivo ou DATABASE_URL)")
	}
	if cfg.OwnerAddress == "" {
		return nil, errors.New("owner_address é obrigatório (arquivo ou OWNER_ADDRESS)")
	}
	return &cfg, nil
}
