package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/lastro/data"
	"github.com/ferreirogomes/lastro/handlers"
	"github.com/ferreirogomes/lastro/ledger"
	"github.com/ferreirogomes/lastro/services"
)

const ownerAddr = "owner-addr"

// testEnv reproduz a montagem do main em modo local: MemDB, ledgers em
// memória e todas as rotas HTTP.
type testEnv struct {
	router *chi.Mux
	db     *data.MemDB
	rail   *ledger.MemoryRail
	shares *ledger.ShareBook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := data.NewMemDB()
	identityService := services.NewIdentityService(db)
	require.NoError(t, identityService.Bootstrap(ownerAddr))
	guard := services.NewTransferGuard(identityService)

	deedBook := ledger.NewDeedBook()
	deedBook.SetTransferHook(guard.Hook())
	assetService := services.NewAssetRegistryService(db, deedBook)

	shareBook, err := ledger.NewShareBook(ownerAddr, 1000)
	require.NoError(t, err)
	shareBook.SetTransferHook(guard.Hook())
	rail := ledger.NewMemoryRail()
	revenueService := services.NewRevenueLedgerService(db, shareBook, rail)

	assetHandler := handlers.NewAssetHandler(assetService)
	revenueHandler := handlers.NewRevenueHandler(revenueService)
	identityHandler := handlers.NewIdentityHandler(identityService)
	userHandler := handlers.NewUserHandler(db)

	r := chi.NewRouter()
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

	return &testEnv{router: r, db: db, rail: rail, shares: shareBook}
}

// do executa uma requisição contra o router de teste, serializando o
// corpo como JSON quando presente.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

// registerAsset registra um ativo pela API e devolve o corpo decodificado.
func (e *testEnv) registerAsset(t *testing.T, owner string) map[string]interface{} {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/assets", map[string]interface{}{
		"caller_address":   ownerAddr,
		"owner_address":    owner,
		"metadata_ref":     "ipfs://meta",
		"property_address": "Rua das Laranjeiras, 100",
		"appraisal_value":  500000,
		"legal_docs_hash":  "hash-docs",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var body map[string]interface{}
	decodeJSON(t, rr, &body)
	return body
}
