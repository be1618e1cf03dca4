package services_test

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/lastro/data"
	"github.com/ferreirogomes/lastro/models"
	"github.com/ferreirogomes/lastro/services"
)

// MockShareTransferRail é um mock do rail Solana consumido pelo fluxo
// prepare/complete.
type MockShareTransferRail struct {
	mock.Mock
}

func (m *MockShareTransferRail) PrepareTransferTransaction(mintAddress, fromATA, toATA, fromOwnerPubKey solana.PublicKey, amount uint64) (string, error) {
	args := m.Called(mintAddress, fromATA, toATA, fromOwnerPubKey, amount)
	return args.String(0), args.Error(1)
}

func (m *MockShareTransferRail) SendSignedTransaction(signedTxBase64 string) (solana.Signature, error) {
	args := m.Called(signedTxBase64)
	return args.Get(0).(solana.Signature), args.Error(1)
}

func (m *MockShareTransferRail) GetTokenAccountBalance(tokenAccountAddress solana.PublicKey) (uint64, error) {
	args := m.Called(tokenAccountAddress)
	return args.Get(0).(uint64), args.Error(1)
}

func setupShareTransfer(t *testing.T) (*services.ShareTransferService, *services.IdentityService, *MockShareTransferRail, models.User, models.User) {
	t.Helper()

	db := data.NewMemDB()
	identities := services.NewIdentityService(db)
	require.NoError(t, identities.Bootstrap(ownerAddr))
	guard := services.NewTransferGuard(identities)

	fromUser := models.User{
		ID:           "user-from",
		Name:         "Remetente",
		Email:        "from@example.com",
		SolanaPubKey: solana.NewWallet().PublicKey().String(),
		CreatedAt:    time.Now(),
	}
	toUser := models.User{
		ID:           "user-to",
		Name:         "Destinatário",
		Email:        "to@example.com",
		SolanaPubKey: solana.NewWallet().PublicKey().String(),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.SaveUser(fromUser))
	require.NoError(t, db.SaveUser(toUser))

	mockRail := new(MockShareTransferRail)
	shareMint := solana.NewWallet().PublicKey()
	svc := services.NewShareTransferService(db, guard, mockRail, shareMint)
	return svc, identities, mockRail, fromUser, toUser
}

func TestPrepareShareTransfer(t *testing.T) {
	svc, identities, mockRail, _, toUser := setupShareTransfer(t)
	require.NoError(t, identities.AddVerifiedIdentity(ownerAddr, toUser.SolanaPubKey))

	mockRail.On("GetTokenAccountBalance", mock.AnythingOfType("solana.PublicKey")).Return(uint64(500), nil).Once()
	mockRail.On("PrepareTransferTransaction",
		mock.AnythingOfType("solana.PublicKey"), mock.AnythingOfType("solana.PublicKey"),
		mock.AnythingOfType("solana.PublicKey"), mock.AnythingOfType("solana.PublicKey"),
		uint64(100),
	).Return("tx-base64", nil).Once()

	serializedTx, destATA, err := svc.PrepareShareTransfer("user-from", "user-to", 100)
	require.NoError(t, err)
	assert.Equal(t, "tx-base64", serializedTx)
	assert.False(t, destATA.IsZero())

	mockRail.AssertExpectations(t)
}

func TestPrepareShareTransfer_ReceiverNotVerified(t *testing.T) {
	svc, _, mockRail, _, _ := setupShareTransfer(t)

	// Veto da allowlist acontece antes de qualquer chamada ao rail.
	_, _, err := svc.PrepareShareTransfer("user-from", "user-to", 100)
	assert.ErrorIs(t, err, services.ErrReceiverNotVerified)

	mockRail.AssertNotCalled(t, "GetTokenAccountBalance", mock.Anything)
	mockRail.AssertNotCalled(t, "PrepareTransferTransaction",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPrepareShareTransfer_InsufficientBalance(t *testing.T) {
	svc, identities, mockRail, _, toUser := setupShareTransfer(t)
	require.NoError(t, identities.AddVerifiedIdentity(ownerAddr, toUser.SolanaPubKey))

	mockRail.On("GetTokenAccountBalance", mock.AnythingOfType("solana.PublicKey")).Return(uint64(50), nil).Once()

	_, _, err := svc.PrepareShareTransfer("user-from", "user-to", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saldo insuficiente")

	mockRail.AssertNotCalled(t, "PrepareTransferTransaction",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPrepareShareTransfer_UnknownUser(t *testing.T) {
	svc, _, _, _, _ := setupShareTransfer(t)

	_, _, err := svc.PrepareShareTransfer("inexistente", "user-to", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remetente")
}

func TestCompleteShareTransfer(t *testing.T) {
	svc, identities, mockRail, _, toUser := setupShareTransfer(t)
	require.NoError(t, identities.AddVerifiedIdentity(ownerAddr, toUser.SolanaPubKey))

	expected := solana.Signature{1, 2, 3}
	mockRail.On("SendSignedTransaction", "tx-assinada").Return(expected, nil).Once()

	txID, err := svc.CompleteShareTransfer("user-from", "user-to", "tx-assinada", 100)
	require.NoError(t, err)
	assert.Equal(t, expected, txID)

	mockRail.AssertExpectations(t)
}

func TestCompleteShareTransfer_RevokedBetweenPrepareAndComplete(t *testing.T) {
	svc, identities, mockRail, _, toUser := setupShareTransfer(t)
	require.NoError(t, identities.AddVerifiedIdentity(ownerAddr, toUser.SolanaPubKey))
	require.NoError(t, identities.RevokeVerifiedIdentity(ownerAddr, toUser.SolanaPubKey))

	// A allowlist é checada de novo no complete: a revogação veta o envio.
	_, err := svc.CompleteShareTransfer("user-from", "user-to", "tx-assinada", 100)
	assert.ErrorIs(t, err, services.ErrReceiverNotVerified)

	mockRail.AssertNotCalled(t, "SendSignedTransaction", mock.Anything)
}
