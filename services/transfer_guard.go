package services

import "fmt"

// TransferGuard interpõe a checagem de conformidade em toda transferência
// de tokens regulados: o destinatário precisa estar verificado na
// allowlist. Mints (from vazio) não passam pela checagem; burns (to vazio)
// tampouco, já que o guard só avalia o destinatário.
type TransferGuard struct {
	identities *IdentityService
}

// NewTransferGuard cria o guard sobre o serviço de identidades.
func NewTransferGuard(identities *IdentityService) *TransferGuard {
	return &TransferGuard{identities: identities}
}

// CheckTransfer é o TransferHook instalado nos ledgers de tokens.
// Devolver erro impede a transferência subjacente de ocorrer.
func (g *TransferGuard) CheckTransfer(from, to string, idOrAmount uint64) error {
	if from == "" || to == "" {
		return nil
	}
	verified, err := g.identities.IsVerified(to)
	if err != nil {
		return fmt.Errorf("falha ao consultar allowlist para %s: %w", to, err)
	}
	if !verified {
		return fmt.Errorf("%w: %s", ErrReceiverNotVerified, to)
	}
	return nil
}

// Hook expõe a checagem na forma esperada pelos ledgers.
func (g *TransferGuard) Hook() TransferHook {
	return g.CheckTransfer
}
