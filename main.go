package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ferreirogomes/lastro/blockchain_listener"
	"github.com/ferreirogomes/lastro/config"
	"github.com/ferreirogomes/lastro/handlers"
	"github.com/ferreirogomes/lastro/ledger"
	"github.com/ferreirogomes/lastro/services"
	"github.com/ferreirogomes/lastro/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Falha fatal ao carregar configuração: %v", err)
	}

	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Falha fatal ao conectar ao banco de dados e aplicar migrações: %v", err)
	}
	defer db.Close()

	identityService := services.NewIdentityService(db)
	if err := identityService.Bootstrap(cfg.OwnerAddress); err != nil {
		log.Fatalf("Falha no bootstrap do deployer %s: %v", cfg.OwnerAddress, err)
	}
	guard := services.NewTransferGuard(identityService)

	// O livro de matrículas dos ativos é sempre em memória; cada fração
	// cunhada passa pelo guard de conformidade.
	deedBook := ledger.NewDeedBook()
	deedBook.SetTransferHook(guard.Hook())
	assetService := services.NewAssetRegistryService(db, deedBook)

	var shares services.ShareLedger
	var rail services.PayoutRail

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	if cfg.SolanaRPCURL != "" {
		// Modo Solana: saldos, oferta e repasses vêm da chain.
		solanaIntegrationService, err := services.NewSolanaIntegrationService(cfg.SolanaRPCURL, cfg.SolanaFeePayerPrivateKey, cfg.ShareMint)
		if err != nil {
			log.Fatalf("Falha ao inicializar serviço Solana: %v", err)
		}
		shares = solanaIntegrationService
		rail = solanaIntegrationService

		shareTransferService := services.NewShareTransferService(db, guard, solanaIntegrationService, solanaIntegrationService.ShareMint)
		tokenHandler := handlers.NewTokenHandler(shareTransferService)
		r.Route("/tokens", func(r chi.Router) {
			r.Post("/transfer/prepare", tokenHandler.PrepareTransfer)
			r.Post("/transfer/complete", tokenHandler.CompleteTransfer)
		})

		listener := blockchain_listener.NewBlockchainListener(cfg.SolanaRPCURL, cfg.SolanaWSURL, db, identityService, cfg.ShareMint)
		go listener.StartListening()
		log.Println("Listener da blockchain iniciado.")
	} else {
		// Modo local: ledger de frações em memória, com toda a oferta
		// cunhada para o deployer e o guard interposto nas transferências.
		shareBook, err := ledger.NewShareBook(cfg.OwnerAddress, cfg.ShareSupply)
		if err != nil {
			log.Fatalf("Falha ao inicializar ledger de frações em memória: %v", err)
		}
		shareBook.SetTransferHook(guard.Hook())
		shares = shareBook
		rail = ledger.NewMemoryRail()
		log.Printf("Rodando em modo local: %d frações cunhadas para %s.", cfg.ShareSupply, cfg.OwnerAddress)
	}

	revenueService := services.NewRevenueLedgerService(db, shares, rail)

	assetHandler := handlers.NewAssetHandler(assetService)
	revenueHandler := handlers.NewRevenueHandler(revenueService)
	identityHandler := handlers.NewIdentityHandler(identityService)
	userHandler := handlers.NewUserHandler(db)

	r.Route("/assets", func(r chi.Router) {
		r.Post("/", assetHandler.RegisterAsset)
		r.Get("/{id}", assetHandler.GetAssetByID)
		r.Post("/{id}/verify", assetHandler.VerifyAsset)
		r.Post("/{id}/freeze", assetHandler.FreezeAsset)
		r.Put("/{id}/appraisal", assetHandler.UpdateAppraisal)
	})

	r.Put("/roles/verifier", assetHandler.SetVerifier)

	r.Route("/revenue", func(r chi.Router) {
		r.Post("/deposits", revenueHandler.Deposit)
		r.Post("/withdrawals", revenueHandler.Withdraw)
		r.Get("/withdrawable/{address}", revenueHandler.GetWithdrawable)
		r.Get("/summary", revenueHandler.Summary)
		r.Get("/withdrawals/{address}", revenueHandler.WithdrawalsByHolder)
	})

	r.Route("/identities", func(r chi.Router) {
		r.Post("/", identityHandler.AddVerifiedIdentity)
		r.Delete("/{address}", identityHandler.RevokeVerifiedIdentity)
		r.Put("/manager", identityHandler.SetIdentityManager)
		r.Get("/{address}", identityHandler.GetIdentity)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Get("/{id}", userHandler.GetUserByID)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("Servidor backend rodando na porta %s...\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
