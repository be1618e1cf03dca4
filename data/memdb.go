// Package data traz o MemDB, uma implementação em memória do
// services.Store para testes e execução local sem PostgreSQL.
package data

import (
	"sort"
	"sync"

	"github.com/ferreirogomes/lastro/models"
)

// MemDB guarda todo o estado em mapas protegidos por mutex. Cada campo
// tem o serviço correspondente como único mutador lógico.
type MemDB struct {
	mu            sync.RWMutex
	users         map[string]models.User
	usersByPubKey map[string]string
	assets        map[uint64]models.Asset
	nextAssetID   uint64
	roles         map[models.Role]map[string]bool
	identities    map[string]models.Identity
	summary       models.LedgerSummary
	withdrawn     map[string]uint64
	deposits      []models.Deposit
	withdrawals   []models.Withdrawal
	events        []models.Event
}

// NewMemDB cria um MemDB vazio.
func NewMemDB() *MemDB {
	return &MemDB{
		users:         make(map[string]models.User),
		usersByPubKey: make(map[string]string),
		assets:        make(map[uint64]models.Asset),
		roles:         make(map[models.Role]map[string]bool),
		identities:    make(map[string]models.Identity),
		withdrawn:     make(map[string]uint64),
	}
}

// SaveUser insere ou atualiza um usuário.
func (d *MemDB) SaveUser(user models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = user
	if user.SolanaPubKey != "" {
		d.usersByPubKey[user.SolanaPubKey] = user.ID
	}
	return nil
}

// GetUser busca um usuário pelo id.
func (d *MemDB) GetUser(id string) (models.User, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[id]
	return user, ok, nil
}

// GetUserBySolanaPubKey busca um usuário pela chave pública Solana.
func (d *MemDB) GetUserBySolanaPubKey(pubKey string) (models.User, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.usersByPubKey[pubKey]
	if !ok {
		return models.User{}, false, nil
	}
	user, ok := d.users[id]
	return user, ok, nil
}

// NextAssetID aloca o próximo id sequencial (a partir de 0, nunca reutilizado).
func (d *MemDB) NextAssetID() (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextAssetID
	d.nextAssetID++
	return id, nil
}

// SaveAsset insere ou atualiza o registro de um ativo.
func (d *MemDB) SaveAsset(asset models.Asset) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assets[asset.ID] = asset
	return nil
}

// GetAsset busca o registro de um ativo pelo id.
func (d *MemDB) GetAsset(id uint64) (models.Asset, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	asset, ok := d.assets[id]
	return asset, ok, nil
}

// GrantRole concede um papel a uma identidade (idempotente).
func (d *MemDB) GrantRole(address string, role models.Role) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.roles[role] == nil {
		d.roles[role] = make(map[string]bool)
	}
	d.roles[role][address] = true
	return nil
}

// RevokeRole remove um papel de uma identidade.
func (d *MemDB) RevokeRole(address string, role models.Role) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.roles[role], address)
	return nil
}

// HasRole informa se a identidade possui o papel.
func (d *MemDB) HasRole(address string, role models.Role) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.roles[role][address], nil
}

// ListRoleHolders lista as identidades com o papel, em ordem estável.
func (d *MemDB) ListRoleHolders(role models.Role) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	holders := make([]string, 0, len(d.roles[role]))
	for address := range d.roles[role] {
		holders = append(holders, address)
	}
	sort.Strings(holders)
	return holders, nil
}

// SaveIdentity insere ou atualiza uma entrada da allowlist.
func (d *MemDB) SaveIdentity(identity models.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.identities[identity.Address] = identity
	return nil
}

// GetIdentity busca uma entrada da allowlist.
func (d *MemDB) GetIdentity(address string) (models.Identity, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	identity, ok := d.identities[address]
	return identity, ok, nil
}

// GetLedgerSummary devolve os contadores acumulados do ledger.
func (d *MemDB) GetLedgerSummary() (models.LedgerSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.summary, nil
}

// SaveLedgerSummary grava os contadores acumulados do ledger.
func (d *MemDB) SaveLedgerSummary(summary models.LedgerSummary) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.summary = summary
	return nil
}

// GetWithdrawnByHolder devolve o acumulado já sacado por um holder.
func (d *MemDB) GetWithdrawnByHolder(address string) (uint64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.withdrawn[address], nil
}

// SetWithdrawnByHolder grava o acumulado já sacado por um holder.
func (d *MemDB) SetWithdrawnByHolder(address string, amount uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.withdrawn[address] = amount
	return nil
}

// SaveDeposit registra um depósito (histórico append-only).
func (d *MemDB) SaveDeposit(deposit models.Deposit) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deposits = append(d.deposits, deposit)
	return nil
}

// SaveWithdrawal registra um saque (histórico append-only).
func (d *MemDB) SaveWithdrawal(withdrawal models.Withdrawal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.withdrawals = append(d.withdrawals, withdrawal)
	return nil
}

// ListWithdrawalsByHolder devolve o histórico de saques de um holder.
func (d *MemDB) ListWithdrawalsByHolder(address string) ([]models.Withdrawal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []models.Withdrawal
	for _, w := range d.withdrawals {
		if w.HolderAddress == address {
			out = append(out, w)
		}
	}
	return out, nil
}

// AppendEvent acrescenta um evento ao log append-only.
func (d *MemDB) AppendEvent(event models.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

// Events devolve uma cópia do log de eventos (útil em testes e auditoria).
func (d *MemDB) Events() []models.Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Event, len(d.events))
	copy(out, d.events)
	return out
}
