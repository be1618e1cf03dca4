// Package blockchain_listener escuta a Solana para manter o backend em
// sincronia com o que de fato aconteceu on-chain: cunhagens e
// transferências de frações do mint configurado. Transferência recebida
// por identidade fora da allowlist é apontada como divergência de
// conformidade (a fonte de verdade é a blockchain; o guard só consegue
// vetar as transferências que passam pelo backend).
package blockchain_listener

import (
	"context"
	"log"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"

	"github.com/ferreirogomes/lastro/services"
	"github.com/ferreirogomes/lastro/storage"
)

// BlockchainListener escuta por eventos na Solana para manter o DB sincronizado.
type BlockchainListener struct {
	RPCClient  *rpc.Client
	WSClient   *ws.Client
	DB         *storage.DB
	Identities *services.IdentityService
	ShareMint  solana.PublicKey
}

// NewBlockchainListener cria uma nova instância do listener.
func NewBlockchainListener(rpcEndpoint, wsEndpoint string, db *storage.DB, identities *services.IdentityService, shareMintBase58 string) *BlockchainListener {
	rpcClient := rpc.New(rpcEndpoint)
	wsClient, err := ws.Connect(context.Background(), wsEndpoint)
	if err != nil {
		log.Fatalf("Falha ao conectar ao WebSocket Solana: %v", err)
	}

	shareMint, err := solana.PublicKeyFromBase58(shareMintBase58)
	if err != nil {
		log.Fatalf("Endereço de Mint das frações inválido para o listener: %v", err)
	}

	return &BlockchainListener{
		RPCClient:  rpcClient,
		WSClient:   wsClient,
		DB:         db,
		Identities: identities,
		ShareMint:  shareMint,
	}
}

// StartListening inicia a escuta por transações que mencionam o mint das frações.
func (l *BlockchainListener) StartListening() {
	log.Println("Iniciando listener da blockchain...")

	sub, err := l.WSClient.LogsSubscribeMentions(l.ShareMint, rpc.CommitmentFinalized)
	if err != nil {
		log.Printf("Falha ao subscrever aos logs do mint: %v", err)
		return
	}
	defer sub.Unsubscribe()

	for {
		got, err := sub.Recv(context.Background())
		if err != nil {
			log.Printf("Erro ao receber log: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		if got.Value.Err == nil {
			log.Printf("Transação confirmada (Signature: %s). Processando...", got.Value.Signature)
			l.ProcessTransaction(got.Value.Signature)
		} else {
			log.Printf("Transação %s falhou on-chain: %v", got.Value.Signature, got.Value.Err)
		}
	}
}

// ProcessTransaction busca os detalhes de uma transação e reconcilia o DB.
func (l *BlockchainListener) ProcessTransaction(signature solana.Signature) {
	txResp, err := l.RPCClient.GetTransaction(context.Background(), signature, &rpc.GetTransactionOpts{
		Commitment: rpc.CommitmentFinalized,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		log.Printf("Falha ao obter detalhes da transação %s: %v", signature.String(), err)
		return
	}
	if txResp == nil || txResp.Transaction == nil {
		log.Printf("Detalhes da transação %s vazios.", signature.String())
		return
	}

	decoded, err := solana.TransactionFromDecoder(bin.NewBinDecoder(txResp.Transaction.GetBinary()))
	if err != nil {
		log.Printf("Falha ao decodificar transação %s: %v", signature.String(), err)
		return
	}

	for _, ix := range decoded.Message.Instructions {
		programID, err := decoded.Message.Program(ix.ProgramIDIndex)
		if err != nil || !programID.Equals(token.ProgramID) {
			continue
		}
		accounts, err := ix.ResolveInstructionAccounts(&decoded.Message)
		if err != nil {
			log.Printf("Falha ao resolver contas da instrução em %s: %v", signature.String(), err)
			continue
		}
		inst, err := token.DecodeInstruction(accounts, ix.Data)
		if err != nil {
			log.Printf("Instrução SPL Token não decodificável em %s: %v", signature.String(), err)
			continue
		}

		switch typed := inst.Impl.(type) {
		case *token.MintTo:
			l.handleMintTo(signature, typed)
		case *token.Transfer:
			l.handleTransfer(signature, typed)
		default:
			// Outras instruções SPL não interessam à reconciliação.
		}
	}
}

// handleMintTo registra a cunhagem de frações observada on-chain.
func (l *BlockchainListener) handleMintTo(signature solana.Signature, mintTo *token.MintTo) {
	if !mintTo.GetMintAccount().PublicKey.Equals(l.ShareMint) {
		return
	}
	amount := uint64(0)
	if mintTo.Amount != nil {
		amount = *mintTo.Amount
	}
	log.Printf("Cunhagem observada: %d frações para %s (TxID %s)",
		amount, mintTo.GetDestinationAccount().PublicKey.String(), signature.String())
}

// handleTransfer reconcilia uma transferência de frações observada
// on-chain, apontando divergência de conformidade quando o dono da conta
// de destino não está na allowlist.
func (l *BlockchainListener) handleTransfer(signature solana.Signature, transfer *token.Transfer) {
	destination := transfer.GetDestinationAccount().PublicKey

	destInfo, err := l.RPCClient.GetAccountInfo(context.Background(), destination)
	if err != nil {
		log.Printf("Falha ao obter info da conta de destino %s: %v", destination.String(), err)
		return
	}
	var destTokenAccount token.Account
	if err := bin.NewBinDecoder(destInfo.Value.Data.GetBinary()).Decode(&destTokenAccount); err != nil {
		log.Printf("Falha ao decodificar conta de destino %s: %v", destination.String(), err)
		return
	}
	if !destTokenAccount.Mint.Equals(l.ShareMint) {
		return
	}

	ownerPubKey := destTokenAccount.Owner.String()
	verified, err := l.Identities.IsVerified(ownerPubKey)
	if err != nil {
		log.Printf("Erro ao consultar allowlist para %s: %v", ownerPubKey, err)
		return
	}
	if !verified {
		log.Printf("ALERTA de conformidade: transferência on-chain %s entregou frações a %s, que NÃO está na allowlist.",
			signature.String(), ownerPubKey)
		return
	}

	toUser, found, err := l.DB.GetUserBySolanaPubKey(ownerPubKey)
	if err != nil {
		log.Printf("Erro ao buscar usuário destinatário por SolanaPubKey %s: %v", ownerPubKey, err)
		return
	}
	if !found {
		log.Printf("Destinatário %s verificado mas sem cadastro interno (TxID %s).", ownerPubKey, signature.String())
		return
	}

	amount := uint64(0)
	if transfer.Amount != nil {
		amount = *transfer.Amount
	}
	log.Printf("Transferência reconciliada: %d frações para %s (TxID %s)", amount, toUser.Name, signature.String())
}
