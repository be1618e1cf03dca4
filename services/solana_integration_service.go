package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaIntegrationService concentra toda a interação com a Solana:
// leituras do token fracionado (SPL), preparação/envio de transferências
// assinadas pelo usuário e o pagamento de saques em lamports pelo FeePayer.
// Implementa ShareLedger (leituras) e PayoutRail (Send).
type SolanaIntegrationService struct {
	RPCClient *rpc.Client
	FeePayer  solana.PrivateKey
	ShareMint solana.PublicKey
}

// NewSolanaIntegrationService conecta ao RPC e carrega a chave do FeePayer.
func NewSolanaIntegrationService(rpcEndpoint, feePayerKeyBase58, shareMintBase58 string) (*SolanaIntegrationService, error) {
	feePayer, err := solana.PrivateKeyFromBase58(feePayerKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar chave privada do FeePayer: %w", err)
	}
	shareMint, err := solana.PublicKeyFromBase58(shareMintBase58)
	if err != nil {
		return nil, fmt.Errorf("endereço de Mint das frações inválido: %w", err)
	}
	return &SolanaIntegrationService{
		RPCClient: rpc.New(rpcEndpoint),
		FeePayer:  feePayer,
		ShareMint: shareMint,
	}, nil
}

// BalanceOf devolve o saldo de frações (unidades atômicas) do holder,
// resolvendo a ATA do holder para o mint das frações. Conta inexistente
// equivale a saldo zero.
func (s *SolanaIntegrationService) BalanceOf(holder string) (uint64, error) {
	holderPubKey, err := solana.PublicKeyFromBase58(holder)
	if err != nil {
		return 0, fmt.Errorf("chave pública do holder inválida: %w", err)
	}
	ata, _, err := solana.FindAssociatedTokenAddress(holderPubKey, s.ShareMint)
	if err != nil {
		return 0, fmt.Errorf("falha ao encontrar ATA do holder: %w", err)
	}
	balance, err := s.GetTokenAccountBalance(ata)
	if err != nil {
		// ATA ainda não criada: o holder simplesmente não possui frações.
		log.Printf("ATA %s não consultável (%v); tratando como saldo zero.", ata.String(), err)
		return 0, nil
	}
	return balance, nil
}

// TotalSupply devolve a oferta total do mint das frações.
func (s *SolanaIntegrationService) TotalSupply() (uint64, error) {
	return s.GetTokenSupply(s.ShareMint)
}

// Send paga um saque de receita em lamports, do FeePayer para o holder.
func (s *SolanaIntegrationService) Send(to string, amount uint64) error {
	toPubKey, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return fmt.Errorf("chave pública do destinatário inválida: %w", err)
	}
	resp, err := s.RPCClient.GetRecentBlockhash(context.Background(), rpc.CommitmentFinalized)
	if err != nil {
		return fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	transferInstruction := system.NewTransferInstruction(
		amount,
		s.FeePayer.PublicKey(),
		toPubKey,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		resp.Value.Blockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()),
	)
	if err != nil {
		return fmt.Errorf("falha ao criar transação de pagamento: %w", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("falha ao assinar transação de pagamento: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(context.Background(), tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return fmt.Errorf("falha ao enviar pagamento: %w", err)
	}
	log.Printf("Pagamento de %d lamports para %s enviado: %s", amount, to, txID)
	return nil
}

// MintTokensToAccount cunha frações para uma ATA (autoridade = FeePayer).
// Usado na emissão única de frações na construção do ledger.
func (s *SolanaIntegrationService) MintTokensToAccount(mintAddress, destinationATA solana.PublicKey, amount uint64) (solana.Signature, error) {
	resp, err := s.RPCClient.GetRecentBlockhash(context.Background(), rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	mintInstruction := token.NewMintToInstruction(
		amount,
		mintAddress,
		destinationATA,
		s.FeePayer.PublicKey(),
		nil,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{mintInstruction},
		resp.Value.Blockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao criar transação de cunhagem: %w", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao assinar transação de cunhagem: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(context.Background(), tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao enviar transação de cunhagem: %w", err)
	}
	log.Printf("Cunhadas %d frações para %s: %s", amount, destinationATA.String(), txID)
	return txID, nil
}

// PrepareTransferTransaction serializa uma transação de transferência de
// frações para assinatura pelo usuário. Esta função CONSTRÓI a transação,
// mas NÃO a assina com a chave privada do remetente; o FeePayer paga as
// taxas de rede e por isso já assina aqui.
func (s *SolanaIntegrationService) PrepareTransferTransaction(
	mintAddress, fromATA, toATA solana.PublicKey,
	fromOwnerPubKey solana.PublicKey,
	amount uint64,
) (string, error) {
	resp, err := s.RPCClient.GetRecentBlockhash(context.Background(), rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("falha ao obter blockhash: %w", err)
	}
	recentBlockhash := resp.Value.Blockhash

	transferInstruction := token.NewTransferInstruction(
		amount,
		fromATA,
		toATA,
		fromOwnerPubKey,
		nil,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			transferInstruction,
		},
		recentBlockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("falha ao criar transação de transferência: %w", err)
	}

	// O FeePayer PRECISA assinar, pois ele é o pagador da transação.
	// O remetente assinará no frontend.
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("falha ao assinar transação pelo FeePayer: %w", err)
	}

	serializedTx, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("falha ao serializar transação: %w", err)
	}

	return base64.StdEncoding.EncodeToString(serializedTx), nil
}

// SendSignedTransaction recebe uma transação já assinada e a envia para a rede.
func (s *SolanaIntegrationService) SendSignedTransaction(signedTxBase64 string) (solana.Signature, error) {
	signedTxBytes, err := base64.StdEncoding.DecodeString(signedTxBase64)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao decodificar transação assinada: %w", err)
	}

	var tx solana.Transaction
	if err := tx.UnmarshalWithDecoder(bin.NewBinDecoder(signedTxBytes)); err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao deserializar transação: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(context.Background(), &tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao enviar transação assinada: %w", err)
	}
	log.Printf("Transação assinada enviada: %s\n", txID)

	// Aguardar confirmação (opcional, mas recomendado para operações críticas)
	_, err = s.RPCClient.GetSignatureStatuses(context.Background(), true, txID)
	if err != nil {
		log.Printf("Erro ao verificar status da transação %s: %v\n", txID, err)
	} else {
		log.Printf("Transação %s confirmada.\n", txID)
	}

	return txID, nil
}

// GetTokenAccountBalance devolve o saldo (unidades atômicas) de uma conta de token.
func (s *SolanaIntegrationService) GetTokenAccountBalance(tokenAccountAddress solana.PublicKey) (uint64, error) {
	resp, err := s.RPCClient.GetTokenAccountBalance(context.Background(), tokenAccountAddress, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar saldo da conta de token: %w", err)
	}
	amount, err := strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("falha ao parsear saldo da conta de token: %w", err)
	}
	return amount, nil
}

// GetTokenSupply devolve a oferta total (unidades atômicas) de um mint.
func (s *SolanaIntegrationService) GetTokenSupply(mintAddress solana.PublicKey) (uint64, error) {
	resp, err := s.RPCClient.GetTokenSupply(context.Background(), mintAddress, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar oferta do mint: %w", err)
	}
	amount, err := strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("falha ao parsear oferta do mint: %w", err)
	}
	return amount, nil
}
