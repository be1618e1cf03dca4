package services

import (
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/ferreirogomes/lastro/models"

	"github.com/google/uuid"
)

// RevenueLedgerService é o ledger de distribuição proporcional de receita
// (pull-payment): acumula depósitos, libera integralmente e paga cada
// holder sob demanda na proporção do saldo atual de frações.
//
// Invariante: para todo holder, withdrawn[holder] <= entitlement(holder),
// onde entitlement = floor(totalReleased * balanceOf(holder) / totalSupply()).
type RevenueLedgerService struct {
	store  Store
	shares ShareLedger
	rail   PayoutRail
}

// NewRevenueLedgerService cria o ledger de receita sobre o token fracionado.
func NewRevenueLedgerService(store Store, shares ShareLedger, rail PayoutRail) *RevenueLedgerService {
	return &RevenueLedgerService{store: store, shares: shares, rail: rail}
}

// DepositRevenue registra um depósito de receita do gestor do ativo.
// Todo depósito é liberado integralmente: TotalDeposited e TotalReleased
// avançam juntos, de forma monotônica.
func (s *RevenueLedgerService) DepositRevenue(caller string, amount uint64) error {
	if err := requireRole(s.store, caller, models.RoleOwner); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	summary, err := s.store.GetLedgerSummary()
	if err != nil {
		return fmt.Errorf("falha ao consultar contadores do ledger: %w", err)
	}
	summary.TotalDeposited += amount
	summary.TotalReleased += amount
	if err := s.store.SaveLedgerSummary(summary); err != nil {
		return fmt.Errorf("falha ao salvar contadores do ledger: %w", err)
	}
	if err := s.store.SaveDeposit(models.Deposit{
		ID:        uuid.New().String(),
		Amount:    amount,
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("falha ao registrar depósito: %w", err)
	}
	return s.appendRevenueEvent(models.EventRevenueDeposited, map[string]interface{}{
		"amount":         amount,
		"total_released": summary.TotalReleased,
	})
}

// WithdrawRevenue paga ao chamador o que lhe é devido até aqui.
//
// Disciplina checks-effects-interactions: o incremento de withdrawn é
// gravado ANTES de qualquer envio de valor, de modo que uma chamada
// reentrante disparada pelo rail observa o estado pós-incremento e
// computa owed <= 0. Se o envio falhar, o incremento é desfeito e a
// chamada inteira falha sem emitir evento.
func (s *RevenueLedgerService) WithdrawRevenue(caller string) (uint64, error) {
	balance, err := s.shares.BalanceOf(caller)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar saldo de frações de %s: %w", caller, err)
	}
	if balance == 0 {
		return 0, ErrNoShares
	}
	supply, err := s.shares.TotalSupply()
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar oferta total de frações: %w", err)
	}
	if supply == 0 {
		return 0, ErrZeroSupply
	}
	summary, err := s.store.GetLedgerSummary()
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar contadores do ledger: %w", err)
	}
	withdrawn, err := s.store.GetWithdrawnByHolder(caller)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar saques anteriores de %s: %w", caller, err)
	}

	total := entitlement(summary.TotalReleased, balance, supply)
	if total <= withdrawn {
		return 0, ErrNothingToWithdraw
	}
	owed := total - withdrawn

	// Efeito antes da interação: fecha a janela de reentrância.
	if err := s.store.SetWithdrawnByHolder(caller, total); err != nil {
		return 0, fmt.Errorf("falha ao atualizar saques de %s: %w", caller, err)
	}

	if err := s.rail.Send(caller, owed); err != nil {
		// Rollback integral: o saque não aconteceu, o direito permanece.
		if rbErr := s.store.SetWithdrawnByHolder(caller, withdrawn); rbErr != nil {
			log.Printf("ERRO: falha ao desfazer incremento de saque de %s após envio falho: %v", caller, rbErr)
			return 0, fmt.Errorf("%w (e falha ao desfazer incremento: %v): %v", ErrPayoutFailed, rbErr, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}

	if err := s.store.SaveWithdrawal(models.Withdrawal{
		ID:            uuid.New().String(),
		HolderAddress: caller,
		Amount:        owed,
		CreatedAt:     time.Now(),
	}); err != nil {
		return 0, fmt.Errorf("falha ao registrar saque de %s: %w", caller, err)
	}
	if err := s.appendRevenueEvent(models.EventRevenueWithdrawn, map[string]interface{}{
		"holder": caller,
		"amount": owed,
	}); err != nil {
		return 0, err
	}
	return owed, nil
}

// GetWithdrawable devolve o que um holder poderia sacar agora.
// Leitura pura: saldo zero devolve 0 em vez de falhar.
func (s *RevenueLedgerService) GetWithdrawable(holder string) (uint64, error) {
	balance, err := s.shares.BalanceOf(holder)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar saldo de frações de %s: %w", holder, err)
	}
	if balance == 0 {
		return 0, nil
	}
	supply, err := s.shares.TotalSupply()
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar oferta total de frações: %w", err)
	}
	if supply == 0 {
		return 0, nil
	}
	summary, err := s.store.GetLedgerSummary()
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar contadores do ledger: %w", err)
	}
	withdrawn, err := s.store.GetWithdrawnByHolder(holder)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar saques anteriores de %s: %w", holder, err)
	}
	total := entitlement(summary.TotalReleased, balance, supply)
	if total <= withdrawn {
		return 0, nil
	}
	return total - withdrawn, nil
}

// Summary devolve os contadores acumulados do ledger.
func (s *RevenueLedgerService) Summary() (models.LedgerSummary, error) {
	return s.store.GetLedgerSummary()
}

// WithdrawalsByHolder devolve o histórico de saques de um holder.
func (s *RevenueLedgerService) WithdrawalsByHolder(holder string) ([]models.Withdrawal, error) {
	return s.store.ListWithdrawalsByHolder(holder)
}

// entitlement calcula floor(totalReleased * balance / totalSupply) com
// produto intermediário em big.Int, já que totalReleased * balance pode
// estourar uint64. Divisão truncada; o resto nunca é redistribuído.
func entitlement(totalReleased, balance, totalSupply uint64) uint64 {
	num := new(big.Int).Mul(
		new(big.Int).SetUint64(totalReleased),
		new(big.Int).SetUint64(balance),
	)
	num.Quo(num, new(big.Int).SetUint64(totalSupply))
	return num.Uint64()
}

func (s *RevenueLedgerService) appendRevenueEvent(eventType string, fields map[string]interface{}) error {
	payload, err := models.NewEventPayload(fields)
	if err != nil {
		return fmt.Errorf("falha ao montar payload do evento: %w", err)
	}
	if err := s.store.AppendEvent(models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("falha ao registrar evento %s: %w", eventType, err)
	}
	return nil
}
