package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ferreirogomes/lastro/services"
)

// ShareBook é o ledger fungível em memória das frações de um ativo.
// A oferta é cunhada uma única vez na construção, com total positivo, e
// nunca é totalmente queimada — premissa do ledger de receita.
type ShareBook struct {
	mu       sync.RWMutex
	balances map[string]uint64
	supply   uint64
	hook     services.TransferHook
}

// NewShareBook cunha a oferta inteira para o holder inicial.
func NewShareBook(initialHolder string, supply uint64) (*ShareBook, error) {
	if initialHolder == "" {
		return nil, errors.New("holder inicial não pode ser vazio")
	}
	if supply == 0 {
		return nil, errors.New("oferta inicial deve ser positiva")
	}
	return &ShareBook{
		balances: map[string]uint64{initialHolder: supply},
		supply:   supply,
	}, nil
}

// SetTransferHook instala o hook invocado em toda transferência.
func (b *ShareBook) SetTransferHook(hook services.TransferHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = hook
}

// BalanceOf devolve o saldo atual de frações de um holder.
func (b *ShareBook) BalanceOf(holder string) (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[holder], nil
}

// TotalSupply devolve a oferta total de frações.
func (b *ShareBook) TotalSupply() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.supply, nil
}

// Transfer move frações entre holders. O hook veta antes de qualquer
// mutação; saldo insuficiente também veta. Invariante preservada:
// a soma dos saldos é sempre igual à oferta total.
func (b *ShareBook) Transfer(from, to string, amount uint64) error {
	if from == "" || to == "" {
		return errors.New("transferência exige remetente e destinatário")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[from] < amount {
		return fmt.Errorf("saldo insuficiente de %s: tem %d, quer transferir %d", from, b.balances[from], amount)
	}
	if b.hook != nil {
		if err := b.hook(from, to, amount); err != nil {
			return err
		}
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}
