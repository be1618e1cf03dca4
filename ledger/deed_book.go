// Package ledger traz implementações em memória dos colaboradores de
// token (deed por ativo e frações fungíveis), com o ponto de extensão de
// hook onde o TransferGuard é instalado. Usadas na execução local sem
// Solana e nos testes.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ferreirogomes/lastro/services"
)

// DeedBook é o ledger em memória dos deeds: uma unidade não fungível por
// id de ativo, nunca reutilizado.
type DeedBook struct {
	mu     sync.RWMutex
	owners map[uint64]string
	hook   services.TransferHook
}

// NewDeedBook cria um DeedBook vazio.
func NewDeedBook() *DeedBook {
	return &DeedBook{owners: make(map[uint64]string)}
}

// SetTransferHook instala o hook invocado em todo mint/transfer.
func (b *DeedBook) SetTransferHook(hook services.TransferHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = hook
}

// MintDeed emite o deed de um ativo para o dono inicial. O hook recebe
// from vazio (mint), então a checagem de allowlist não se aplica.
func (b *DeedBook) MintDeed(to string, id uint64) error {
	if to == "" {
		return errors.New("dono inicial do deed não pode ser vazio")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.owners[id]; exists {
		return fmt.Errorf("deed %d já emitido", id)
	}
	if b.hook != nil {
		if err := b.hook("", to, id); err != nil {
			return err
		}
	}
	b.owners[id] = to
	return nil
}

// OwnerOf devolve o dono atual do deed, se existir.
func (b *DeedBook) OwnerOf(id uint64) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	owner, ok := b.owners[id]
	return owner, ok, nil
}

// TransferDeed muda a posse do deed. O hook veta a operação antes de
// qualquer mutação; em caso de veto a posse permanece inalterada.
func (b *DeedBook) TransferDeed(from, to string, id uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	owner, ok := b.owners[id]
	if !ok {
		return fmt.Errorf("deed %d não existe", id)
	}
	if owner != from {
		return fmt.Errorf("deed %d não pertence a %s", id, from)
	}
	if b.hook != nil {
		if err := b.hook(from, to, id); err != nil {
			return err
		}
	}
	if to == "" {
		// Burn: o deed deixa de ter dono atual.
		delete(b.owners, id)
		return nil
	}
	b.owners[id] = to
	return nil
}
