package ledger

import "sync"

// MemoryRail é um PayoutRail em memória para execução local e testes:
// credita os pagamentos num mapa e permite interceptar o envio com um
// callback (para injetar falha ou simular uma chamada reentrante).
type MemoryRail struct {
	mu      sync.Mutex
	payouts map[string]uint64

	// OnSend, se definido, roda antes do crédito; um erro aborta o envio
	// sem creditar nada.
	OnSend func(to string, amount uint64) error
}

// NewMemoryRail cria um rail vazio.
func NewMemoryRail() *MemoryRail {
	return &MemoryRail{payouts: make(map[string]uint64)}
}

// Send credita o pagamento ao destinatário.
func (r *MemoryRail) Send(to string, amount uint64) error {
	if r.OnSend != nil {
		if err := r.OnSend(to, amount); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payouts[to] += amount
	return nil
}

// PaidTo devolve o total já creditado a um destinatário.
func (r *MemoryRail) PaidTo(to string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payouts[to]
}
