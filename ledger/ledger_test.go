package ledger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/lastro/ledger"
)

func TestDeedBook(t *testing.T) {
	book := ledger.NewDeedBook()

	require.NoError(t, book.MintDeed("dono-1", 0))
	owner, found, err := book.OwnerOf(0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "dono-1", owner)

	// Deed de id já emitido não pode ser emitido de novo.
	assert.Error(t, book.MintDeed("dono-2", 0))

	// Transferência só pelo dono atual.
	assert.Error(t, book.TransferDeed("dono-2", "dono-3", 0))
	require.NoError(t, book.TransferDeed("dono-1", "dono-2", 0))
	owner, _, _ = book.OwnerOf(0)
	assert.Equal(t, "dono-2", owner)

	// Burn: to vazio deixa o deed sem dono atual.
	require.NoError(t, book.TransferDeed("dono-2", "", 0))
	_, found, _ = book.OwnerOf(0)
	assert.False(t, found)
}

func TestDeedBook_Validation(t *testing.T) {
	book := ledger.NewDeedBook()

	assert.Error(t, book.MintDeed("", 0))
	assert.Error(t, book.TransferDeed("dono-1", "dono-2", 42))

	_, found, err := book.OwnerOf(42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeedBook_HookVetoLeavesOwnershipUnchanged(t *testing.T) {
	book := ledger.NewDeedBook()
	require.NoError(t, book.MintDeed("dono-1", 0))

	veto := errors.New("vetado")
	book.SetTransferHook(func(from, to string, idOrAmount uint64) error {
		return veto
	})

	err := book.TransferDeed("dono-1", "dono-2", 0)
	assert.ErrorIs(t, err, veto)
	owner, found, _ := book.OwnerOf(0)
	require.True(t, found)
	assert.Equal(t, "dono-1", owner)
}

func TestShareBook(t *testing.T) {
	book, err := ledger.NewShareBook("dono-1", 1000)
	require.NoError(t, err)

	supply, err := book.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), supply)

	require.NoError(t, book.Transfer("dono-1", "dono-2", 400))
	balance, _ := book.BalanceOf("dono-1")
	assert.Equal(t, uint64(600), balance)
	balance, _ = book.BalanceOf("dono-2")
	assert.Equal(t, uint64(400), balance)

	// Saldo insuficiente veta sem mexer em nada.
	assert.Error(t, book.Transfer("dono-2", "dono-1", 500))
	balance, _ = book.BalanceOf("dono-2")
	assert.Equal(t, uint64(400), balance)

	// A soma dos saldos segue igual à oferta.
	b1, _ := book.BalanceOf("dono-1")
	b2, _ := book.BalanceOf("dono-2")
	assert.Equal(t, supply, b1+b2)
}

func TestShareBook_Construction(t *testing.T) {
	_, err := ledger.NewShareBook("", 1000)
	assert.Error(t, err)

	_, err = ledger.NewShareBook("dono-1", 0)
	assert.Error(t, err)
}

func TestShareBook_HookVetoLeavesBalancesUnchanged(t *testing.T) {
	book, err := ledger.NewShareBook("dono-1", 1000)
	require.NoError(t, err)

	veto := errors.New("vetado")
	book.SetTransferHook(func(from, to string, idOrAmount uint64) error {
		return veto
	})

	err = book.Transfer("dono-1", "dono-2", 400)
	assert.ErrorIs(t, err, veto)
	balance, _ := book.BalanceOf("dono-1")
	assert.Equal(t, uint64(1000), balance)
}

func TestMemoryRail(t *testing.T) {
	rail := ledger.NewMemoryRail()

	require.NoError(t, rail.Send("holder-a", 100))
	require.NoError(t, rail.Send("holder-a", 50))
	assert.Equal(t, uint64(150), rail.PaidTo("holder-a"))
	assert.Equal(t, uint64(0), rail.PaidTo("holder-b"))

	// OnSend com erro aborta sem creditar.
	rail.OnSend = func(to string, amount uint64) error {
		return errors.New("rail indisponível")
	}
	assert.Error(t, rail.Send("holder-a", 25))
	assert.Equal(t, uint64(150), rail.PaidTo("holder-a"))
}
