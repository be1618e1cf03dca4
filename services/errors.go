package services

import "errors"

// Erros sentinela das operações de domínio. Os handlers classificam com
// errors.Is para mapear em códigos HTTP; os serviços os envolvem com
// fmt.Errorf("...: %w", err) quando há contexto a acrescentar.
var (
	// ErrUnauthorized indica que o chamador não possui o papel exigido.
	ErrUnauthorized = errors.New("chamador não possui o papel exigido")
	// ErrNullAddress indica um endereço nulo onde um valor concreto é exigido.
	ErrNullAddress = errors.New("endereço nulo não é permitido")
	// ErrAssetNotFound indica um ativo inexistente ou deed sem dono atual.
	ErrAssetNotFound = errors.New("ativo não encontrado")
	// ErrInvalidTransition indica uma transição de status fora do ciclo
	// Pending -> Active -> Frozen.
	ErrInvalidTransition = errors.New("transição de status não permitida")
	// ErrInvalidAmount indica um valor de depósito menor ou igual a zero.
	ErrInvalidAmount = errors.New("valor deve ser maior que zero")
	// ErrNoShares indica um chamador sem frações do token.
	ErrNoShares = errors.New("chamador não possui frações")
	// ErrZeroSupply indica oferta total de frações igual a zero.
	ErrZeroSupply = errors.New("oferta total de frações é zero")
	// ErrNothingToWithdraw indica que o direito acumulado já foi sacado.
	ErrNothingToWithdraw = errors.New("nenhum valor disponível para saque")
	// ErrAlreadyVerified indica tentativa de verificar identidade já verificada.
	ErrAlreadyVerified = errors.New("identidade já verificada")
	// ErrNotVerified indica revogação de identidade que não está verificada.
	ErrNotVerified = errors.New("identidade não está verificada")
	// ErrReceiverNotVerified indica transferência para destinatário fora da allowlist.
	ErrReceiverNotVerified = errors.New("destinatário não está na allowlist")
	// ErrPayoutFailed indica falha na transferência externa de valor; o saque
	// inteiro é desfeito quando isso ocorre.
	ErrPayoutFailed = errors.New("falha na transferência externa de valor")
)
