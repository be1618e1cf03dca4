package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferreirogomes/lastro/models"
)

// Métodos de persistência que satisfazem services.Store. Todos os upserts
// usam ON CONFLICT para que Save* sirva tanto para inserção quanto para
// atualização.

// SaveUser insere ou atualiza um usuário.
func (d *DB) SaveUser(user models.User) error {
	query := `INSERT INTO users (id, name, email, solana_pub_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = $2, email = $3, solana_pub_key = $4`
	_, err := d.Exec(query, user.ID, user.Name, user.Email, user.SolanaPubKey, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar usuário: %w", err)
	}
	return nil
}

// GetUser busca um usuário pelo id.
func (d *DB) GetUser(id string) (models.User, bool, error) {
	var user models.User
	err := d.Get(&user, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("falha ao buscar usuário: %w", err)
	}
	return user, true, nil
}

// GetUserBySolanaPubKey busca um usuário pela chave pública Solana.
func (d *DB) GetUserBySolanaPubKey(pubKey string) (models.User, bool, error) {
	var user models.User
	err := d.Get(&user, `SELECT * FROM users WHERE solana_pub_key = $1`, pubKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("falha ao buscar usuário por chave pública: %w", err)
	}
	return user, true, nil
}

// NextAssetID aloca o próximo id sequencial de ativo (a partir de 0).
// O contador é uma linha única de posse exclusiva do registro.
func (d *DB) NextAssetID() (uint64, error) {
	var next uint64
	err := d.Get(&next, `UPDATE asset_counter SET next_id = next_id + 1 WHERE id = 1 RETURNING next_id - 1`)
	if err != nil {
		return 0, fmt.Errorf("falha ao alocar id de ativo: %w", err)
	}
	return next, nil
}

// SaveAsset insere ou atualiza o registro de um ativo.
func (d *DB) SaveAsset(asset models.Asset) error {
	query := `INSERT INTO assets (id, property_address, metadata_ref, appraisal_value, legal_docs_hash, status, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET appraisal_value = $4, status = $6, last_updated = $8`
	_, err := d.Exec(query, asset.ID, asset.PropertyAddress, asset.MetadataRef, asset.AppraisalValue,
		asset.LegalDocsHash, asset.Status, asset.CreatedAt, asset.LastUpdated)
	if err != nil {
		return fmt.Errorf("falha ao salvar ativo: %w", err)
	}
	return nil
}

// GetAsset busca o registro de um ativo pelo id.
func (d *DB) GetAsset(id uint64) (models.Asset, bool, error) {
	var asset models.Asset
	err := d.Get(&asset, `SELECT * FROM assets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, false, nil
	}
	if err != nil {
		return models.Asset{}, false, fmt.Errorf("falha ao buscar ativo: %w", err)
	}
	return asset, true, nil
}

// GrantRole concede um papel a uma identidade (idempotente).
func (d *DB) GrantRole(address string, role models.Role) error {
	_, err := d.Exec(`INSERT INTO roles (address, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`, address, role)
	if err != nil {
		return fmt.Errorf("falha ao conceder papel: %w", err)
	}
	return nil
}

// RevokeRole remove um papel de uma identidade.
func (d *DB) RevokeRole(address string, role models.Role) error {
	_, err := d.Exec(`DELETE FROM roles WHERE address = $1 AND role = $2`, address, role)
	if err != nil {
		return fmt.Errorf("falha ao revogar papel: %w", err)
	}
	return nil
}

// HasRole informa se a identidade possui o papel.
func (d *DB) HasRole(address string, role models.Role) (bool, error) {
	var has bool
	err := d.Get(&has, `SELECT EXISTS(SELECT 1 FROM roles WHERE address = $1 AND role = $2)`, address, role)
	if err != nil {
		return false, fmt.Errorf("falha ao consultar papel: %w", err)
	}
	return has, nil
}

// ListRoleHolders lista as identidades com o papel.
func (d *DB) ListRoleHolders(role models.Role) ([]string, error) {
	var holders []string
	err := d.Select(&holders, `SELECT address FROM roles WHERE role = $1 ORDER BY address`, role)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar detentores do papel: %w", err)
	}
	return holders, nil
}

// SaveIdentity insere ou atualiza uma entrada da allowlist.
func (d *DB) SaveIdentity(identity models.Identity) error {
	query := `INSERT INTO identities (address, verified, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO UPDATE SET verified = $2`
	_, err := d.Exec(query, identity.Address, identity.Verified, identity.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar identidade: %w", err)
	}
	return nil
}

// GetIdentity busca uma entrada da allowlist.
func (d *DB) GetIdentity(address string) (models.Identity, bool, error) {
	var identity models.Identity
	err := d.Get(&identity, `SELECT * FROM identities WHERE address = $1`, address)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Identity{}, false, nil
	}
	if err != nil {
		return models.Identity{}, false, fmt.Errorf("falha ao buscar identidade: %w", err)
	}
	return identity, true, nil
}

// GetLedgerSummary devolve os contadores acumulados do ledger (linha única).
func (d *DB) GetLedgerSummary() (models.LedgerSummary, error) {
	var summary models.LedgerSummary
	err := d.Get(&summary, `SELECT total_deposited, total_released FROM ledger_summary WHERE id = 1`)
	if err != nil {
		return models.LedgerSummary{}, fmt.Errorf("falha ao consultar contadores do ledger: %w", err)
	}
	return summary, nil
}

// SaveLedgerSummary grava os contadores acumulados do ledger.
func (d *DB) SaveLedgerSummary(summary models.LedgerSummary) error {
	_, err := d.Exec(`UPDATE ledger_summary SET total_deposited = $1, total_released = $2 WHERE id = 1`,
		summary.TotalDeposited, summary.TotalReleased)
	if err != nil {
		return fmt.Errorf("falha ao salvar contadores do ledger: %w", err)
	}
	return nil
}

// GetWithdrawnByHolder devolve o acumulado já sacado por um holder.
func (d *DB) GetWithdrawnByHolder(address string) (uint64, error) {
	var amount uint64
	err := d.Get(&amount, `SELECT amount FROM withdrawn_by_holder WHERE holder_address = $1`, address)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar saques acumulados: %w", err)
	}
	return amount, nil
}

// SetWithdrawnByHolder grava o acumulado já sacado por um holder.
func (d *DB) SetWithdrawnByHolder(address string, amount uint64) error {
	query := `INSERT INTO withdrawn_by_holder (holder_address, amount)
		VALUES ($1, $2)
		ON CONFLICT (holder_address) DO UPDATE SET amount = $2`
	_, err := d.Exec(query, address, amount)
	if err != nil {
		return fmt.Errorf("falha ao gravar saques acumulados: %w", err)
	}
	return nil
}

// SaveDeposit registra um depósito (histórico append-only).
func (d *DB) SaveDeposit(deposit models.Deposit) error {
	_, err := d.Exec(`INSERT INTO deposits (id, amount, created_at) VALUES ($1, $2, $3)`,
		deposit.ID, deposit.Amount, deposit.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao registrar depósito: %w", err)
	}
	return nil
}

// SaveWithdrawal registra um saque (histórico append-only).
func (d *DB) SaveWithdrawal(withdrawal models.Withdrawal) error {
	_, err := d.Exec(`INSERT INTO withdrawals (id, holder_address, amount, created_at) VALUES ($1, $2, $3, $4)`,
		withdrawal.ID, withdrawal.HolderAddress, withdrawal.Amount, withdrawal.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao registrar saque: %w", err)
	}
	return nil
}

// ListWithdrawalsByHolder devolve o histórico de saques de um holder.
func (d *DB) ListWithdrawalsByHolder(address string) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := d.Select(&withdrawals, `SELECT * FROM withdrawals WHERE holder_address = $1 ORDER BY created_at`, address)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar saques: %w", err)
	}
	return withdrawals, nil
}

// AppendEvent acrescenta um evento ao log append-only de auditoria.
func (d *DB) AppendEvent(event models.Event) error {
	_, err := d.Exec(`INSERT INTO events (id, type, payload, created_at) VALUES ($1, $2, $3, $4)`,
		event.ID, event.Type, []byte(event.Payload), event.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao registrar evento: %w", err)
	}
	return nil
}
