package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddMergesAndKeepsPrice(t *testing.T) {
	cart := Cart{}
	cart.Add(2, "Kettle", decimal.RequireFromString("100.00"), 1)
	line := cart.Add(2, "Kettle", decimal.RequireFromString("120.00"), 1)

	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.Price.Equal(decimal.RequireFromString("100.00")))
	assert.Len(t, cart, 1)
}

func TestCartTotalIsExact(t *testing.T) {
	cart := Cart{}
	cart.Add(1, "A", decimal.RequireFromString("100.00"), 2)
	cart.Add(2, "B", decimal.RequireFromString("50.00"), 1)
	assert.Equal(t, "250.00", cart.Total().StringFixed(2))

	cents := Cart{}
	cents.Add(1, "Gum", decimal.RequireFromString("0.10"), 3)
	cents.Add(2, "Mint", decimal.RequireFromString("0.20"), 1)
	assert.True(t, cents.Total().Equal(decimal.RequireFromString("0.50")))
}

func TestCartLinesSortedAndCloneDetached(t *testing.T) {
	cart := Cart{}
	cart.Add(9, "Z", decimal.NewFromInt(1), 1)
	cart.Add(3, "C", decimal.NewFromInt(1), 1)
	cart.Add(5, "E", decimal.NewFromInt(1), 1)

	lines := cart.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []uint{3, 5, 9}, []uint{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})

	clone := cart.Clone()
	delete(clone, 3)
	assert.Len(t, cart, 3)
}
