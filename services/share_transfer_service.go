package services

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ShareTransferRail é a fatia do SolanaIntegrationService consumida pelo
// fluxo de transferência de frações (mockável em testes).
type ShareTransferRail interface {
	PrepareTransferTransaction(mintAddress, fromATA, toATA, fromOwnerPubKey solana.PublicKey, amount uint64) (string, error)
	SendSignedTransaction(signedTxBase64 string) (solana.Signature, error)
	GetTokenAccountBalance(tokenAccountAddress solana.PublicKey) (uint64, error)
}

// ShareTransferService conduz o fluxo prepare/complete de transferência
// de frações entre usuários, com a checagem de conformidade do
// TransferGuard interposta ANTES de qualquer transação ser construída:
// destinatário fora da allowlist veta a transferência.
type ShareTransferService struct {
	store     Store
	guard     *TransferGuard
	solanaS   ShareTransferRail
	shareMint solana.PublicKey
}

// NewShareTransferService cria o serviço de transferência de frações.
func NewShareTransferService(store Store, guard *TransferGuard, solanaS ShareTransferRail, shareMint solana.PublicKey) *ShareTransferService {
	return &ShareTransferService{store: store, guard: guard, solanaS: solanaS, shareMint: shareMint}
}

// PrepareShareTransfer constrói uma transação de transferência para ser
// assinada pelo usuário. Retorna a transação serializada em Base64 e a
// ATA de destino.
func (s *ShareTransferService) PrepareShareTransfer(
	fromUserID, toUserID string, amount uint64,
) (string, solana.PublicKey, error) {
	fromUser, foundFrom, err := s.store.GetUser(fromUserID)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("erro ao buscar usuário remetente: %w", err)
	}
	if !foundFrom || fromUser.SolanaPubKey == "" {
		return "", solana.PublicKey{}, errors.New("usuário remetente não encontrado ou sem chave pública Solana")
	}
	toUser, foundTo, err := s.store.GetUser(toUserID)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("erro ao buscar usuário destinatário: %w", err)
	}
	if !foundTo || toUser.SolanaPubKey == "" {
		return "", solana.PublicKey{}, errors.New("usuário destinatário não encontrado ou sem chave pública Solana")
	}

	// Checagem de conformidade antes de construir qualquer transação.
	if err := s.guard.CheckTransfer(fromUser.SolanaPubKey, toUser.SolanaPubKey, amount); err != nil {
		return "", solana.PublicKey{}, err
	}

	fromUserPubKey, err := solana.PublicKeyFromBase58(fromUser.SolanaPubKey)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("chave pública do remetente inválida: %w", err)
	}
	toUserPubKey, err := solana.PublicKeyFromBase58(toUser.SolanaPubKey)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("chave pública do destinatário inválida: %w", err)
	}

	fromATA, _, err := solana.FindAssociatedTokenAddress(fromUserPubKey, s.shareMint)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("falha ao encontrar ATA do remetente: %w", err)
	}
	toATA, _, err := solana.FindAssociatedTokenAddress(toUserPubKey, s.shareMint)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("falha ao encontrar ATA do destinatário: %w", err)
	}

	currentBalance, err := s.solanaS.GetTokenAccountBalance(fromATA)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("falha ao verificar saldo do remetente na Solana: %w", err)
	}
	if currentBalance < amount {
		return "", solana.PublicKey{}, errors.New("saldo insuficiente para transferência na Solana")
	}

	serializedTx, err := s.solanaS.PrepareTransferTransaction(s.shareMint, fromATA, toATA, fromUserPubKey, amount)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("falha ao preparar transação de transferência: %w", err)
	}

	return serializedTx, toATA, nil
}

// CompleteShareTransfer recebe a transação assinada e a envia para a
// Solana. A allowlist é checada de novo: a verificação do destinatário
// pode ter sido revogada entre o prepare e o complete.
func (s *ShareTransferService) CompleteShareTransfer(
	fromUserID, toUserID, signedTxBase64 string, amount uint64,
) (solana.Signature, error) {
	fromUser, foundFrom, err := s.store.GetUser(fromUserID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("erro ao buscar usuário remetente: %w", err)
	}
	if !foundFrom {
		return solana.Signature{}, errors.New("usuário remetente não encontrado")
	}
	toUser, foundTo, err := s.store.GetUser(toUserID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("erro ao buscar usuário destinatário: %w", err)
	}
	if !foundTo {
		return solana.Signature{}, errors.New("usuário destinatário não encontrado")
	}

	if err := s.guard.CheckTransfer(fromUser.SolanaPubKey, toUser.SolanaPubKey, amount); err != nil {
		return solana.Signature{}, err
	}

	txID, err := s.solanaS.SendSignedTransaction(signedTxBase64)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao enviar transação assinada para a Solana: %w", err)
	}
	return txID, nil
}
