package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/lastro/models"
)

// distributeShares reparte frações do deployer via allowlist + ledger,
// como aconteceria no fluxo real.
func (e *testEnv) distributeShares(t *testing.T, holder string, amount uint64) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/identities", map[string]string{
		"caller_address": ownerAddr,
		"address":        holder,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NoError(t, e.shares.Transfer(ownerAddr, holder, amount))
}

func TestDepositEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/revenue/deposits", map[string]interface{}{
		"caller_address": ownerAddr,
		"amount":         1000,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var summary models.LedgerSummary
	decodeJSON(t, rr, &summary)
	assert.Equal(t, uint64(1000), summary.TotalDeposited)
	assert.Equal(t, uint64(1000), summary.TotalReleased)
}

func TestDepositEndpoint_Validation(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/revenue/deposits", map[string]interface{}{
		"caller_address": "intruso",
		"amount":         1000,
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, "/revenue/deposits", map[string]interface{}{
		"caller_address": ownerAddr,
		"amount":         0,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWithdrawEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.distributeShares(t, "holder-a", 400)

	rr := env.do(t, http.MethodPost, "/revenue/deposits", map[string]interface{}{
		"caller_address": ownerAddr,
		"amount":         1000,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodPost, "/revenue/withdrawals", map[string]string{
		"caller_address": "holder-a",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var payout map[string]uint64
	decodeJSON(t, rr, &payout)
	assert.Equal(t, uint64(400), payout["amount"])
	assert.Equal(t, uint64(400), env.rail.PaidTo("holder-a"))

	// Nada novo a sacar: entidade não processável.
	rr = env.do(t, http.MethodPost, "/revenue/withdrawals", map[string]string{
		"caller_address": "holder-a",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	// Sem frações, idem.
	rr = env.do(t, http.MethodPost, "/revenue/withdrawals", map[string]string{
		"caller_address": "sem-fracoes",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestWithdrawableAndHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.distributeShares(t, "holder-a", 400)

	env.do(t, http.MethodPost, "/revenue/deposits", map[string]interface{}{
		"caller_address": ownerAddr,
		"amount":         1000,
	})

	rr := env.do(t, http.MethodGet, "/revenue/withdrawable/holder-a", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var owed map[string]uint64
	decodeJSON(t, rr, &owed)
	assert.Equal(t, uint64(400), owed["amount"])

	env.do(t, http.MethodPost, "/revenue/withdrawals", map[string]string{
		"caller_address": "holder-a",
	})

	rr = env.do(t, http.MethodGet, "/revenue/withdrawals/holder-a", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var history []models.Withdrawal
	decodeJSON(t, rr, &history)
	require.Len(t, history, 1)
	assert.Equal(t, uint64(400), history[0].Amount)
	assert.Equal(t, "holder-a", history[0].HolderAddress)

	rr = env.do(t, http.MethodGet, "/revenue/summary", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var summary models.LedgerSummary
	decodeJSON(t, rr, &summary)
	assert.Equal(t, uint64(1000), summary.TotalReleased)
}
