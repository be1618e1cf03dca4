package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetStatusTransitions(t *testing.T) {
	// Só avança: Pending -> Active -> Frozen, sem voltas nem pulos.
	assert.True(t, AssetStatusPending.CanTransitionTo(AssetStatusActive))
	assert.True(t, AssetStatusActive.CanTransitionTo(AssetStatusFrozen))

	assert.False(t, AssetStatusPending.CanTransitionTo(AssetStatusFrozen))
	assert.False(t, AssetStatusPending.CanTransitionTo(AssetStatusPending))
	assert.False(t, AssetStatusActive.CanTransitionTo(AssetStatusPending))
	assert.False(t, AssetStatusActive.CanTransitionTo(AssetStatusActive))

	// Frozen é terminal.
	for _, next := range []AssetStatus{AssetStatusPending, AssetStatusActive, AssetStatusFrozen} {
		assert.False(t, AssetStatusFrozen.CanTransitionTo(next))
	}
}
