package services

import (
	"fmt"

	"github.com/ferreirogomes/lastro/models"
)

// Store é o contrato de persistência consumido pelos serviços.
// A implementação de produção é storage.DB (PostgreSQL); data.MemDB
// cobre testes e execução local sem banco.
type Store interface {
	// Usuários
	SaveUser(user models.User) error
	GetUser(id string) (models.User, bool, error)
	GetUserBySolanaPubKey(pubKey string) (models.User, bool, error)

	// Ativos (registro + contador sequencial de ids, posse exclusiva do registro)
	NextAssetID() (uint64, error)
	SaveAsset(asset models.Asset) error
	GetAsset(id uint64) (models.Asset, bool, error)

	// Papéis (conjunto de identidades por papel)
	GrantRole(address string, role models.Role) error
	RevokeRole(address string, role models.Role) error
	HasRole(address string, role models.Role) (bool, error)
	ListRoleHolders(role models.Role) ([]string, error)

	// Allowlist de identidades
	SaveIdentity(identity models.Identity) error
	GetIdentity(address string) (models.Identity, bool, error)

	// Ledger de receita
	GetLedgerSummary() (models.LedgerSummary, error)
	SaveLedgerSummary(summary models.LedgerSummary) error
	GetWithdrawnByHolder(address string) (uint64, error)
	SetWithdrawnByHolder(address string, amount uint64) error
	SaveDeposit(deposit models.Deposit) error
	SaveWithdrawal(withdrawal models.Withdrawal) error
	ListWithdrawalsByHolder(address string) ([]models.Withdrawal, error)

	// Eventos (log append-only para auditoria off-chain)
	AppendEvent(event models.Event) error
}

// TransferHook é o ponto de extensão invocado em todo mint/transfer/burn
// dos ledgers de tokens. from vazio sinaliza mint; to vazio sinaliza burn.
// Um erro veta a operação subjacente.
type TransferHook func(from, to string, idOrAmount uint64) error

// DeedLedger é o ledger externo do deed (NFT) de cada ativo: uma unidade
// por id, consultável para checagem de existência.
type DeedLedger interface {
	MintDeed(to string, id uint64) error
	OwnerOf(id uint64) (string, bool, error)
	TransferDeed(from, to string, id uint64) error
}

// ShareLedger expõe as leituras do token fracionado consumidas pelo
// ledger de receita. A mecânica de transferência fica no colaborador
// externo (SPL na Solana ou ledger.ShareBook em memória).
type ShareLedger interface {
	BalanceOf(holder string) (uint64, error)
	TotalSupply() (uint64, error)
}

// PayoutRail envia valor a um holder durante um saque. A implementação
// de produção é o SolanaIntegrationService; ledger.MemoryRail cobre testes.
type PayoutRail interface {
	Send(to string, amount uint64) error
}

// requireRole verifica a precondição de autorização no início de cada
// operação, devolvendo ErrUnauthorized sem qualquer mutação de estado.
func requireRole(store Store, address string, role models.Role) error {
	ok, err := store.HasRole(address, role)
	if err != nil {
		return fmt.Errorf("falha ao consultar papel %s: %w", role, err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
