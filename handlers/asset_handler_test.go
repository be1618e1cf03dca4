package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/lastro/models"
)

func TestRegisterAssetEndpoint(t *testing.T) {
	env := newTestEnv(t)

	body := env.registerAsset(t, "dono-1")
	assert.Equal(t, float64(0), body["id"])
	assert.Equal(t, string(models.AssetStatusPending), body["status"])
	assert.Equal(t, "Rua das Laranjeiras, 100", body["property_address"])
}

func TestRegisterAssetEndpoint_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/assets", map[string]interface{}{
		"caller_address":   "intruso",
		"owner_address":    "dono-1",
		"property_address": "Rua X, 1",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetAssetByIDEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerAsset(t, "dono-1")

	rr := env.do(t, http.MethodGet, "/assets/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var asset models.Asset
	decodeJSON(t, rr, &asset)
	assert.Equal(t, uint64(0), asset.ID)
	assert.Equal(t, models.AssetStatusPending, asset.Status)

	// Inexistente e id mal formado.
	rr = env.do(t, http.MethodGet, "/assets/99", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = env.do(t, http.MethodGet, "/assets/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyAssetEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerAsset(t, "dono-1")

	rr := env.do(t, http.MethodPost, "/assets/0/verify", map[string]string{
		"caller_address": ownerAddr,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var asset models.Asset
	decodeJSON(t, rr, &asset)
	assert.Equal(t, models.AssetStatusActive, asset.Status)

	// Verificar de novo: transição inválida vira conflito.
	rr = env.do(t, http.MethodPost, "/assets/0/verify", map[string]string{
		"caller_address": ownerAddr,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestFreezeAssetEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerAsset(t, "dono-1")

	// Pending não congela.
	rr := env.do(t, http.MethodPost, "/assets/0/freeze", map[string]string{
		"caller_address": ownerAddr,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	env.do(t, http.MethodPost, "/assets/0/verify", map[string]string{"caller_address": ownerAddr})

	rr = env.do(t, http.MethodPost, "/assets/0/freeze", map[string]string{
		"caller_address": ownerAddr,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var asset models.Asset
	decodeJSON(t, rr, &asset)
	assert.Equal(t, models.AssetStatusFrozen, asset.Status)
}

func TestUpdateAppraisalEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerAsset(t, "dono-1")

	rr := env.do(t, http.MethodPut, "/assets/0/appraisal", map[string]interface{}{
		"caller_address":  ownerAddr,
		"appraisal_value": 750000,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var asset models.Asset
	decodeJSON(t, rr, &asset)
	assert.Equal(t, uint64(750000), asset.AppraisalValue)
}

func TestSetVerifierEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerAsset(t, "dono-1")

	rr := env.do(t, http.MethodPut, "/roles/verifier", map[string]string{
		"caller_address":   ownerAddr,
		"verifier_address": "verificador-novo",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// O antigo verificador (deployer) perdeu o papel.
	rr = env.do(t, http.MethodPost, "/assets/0/verify", map[string]string{
		"caller_address": ownerAddr,
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, "/assets/0/verify", map[string]string{
		"caller_address": "verificador-novo",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}
