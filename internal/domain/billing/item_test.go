package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("creates item with defaults", func(t *testing.T) {
		item, err := NewItem(" Widget ", "", "", decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.Equal(t, "Widget", item.Description)
		assert.Equal(t, DefaultUnit, item.Unit)
		assert.True(t, item.LastRate.Equal(decimal.NewFromInt(50)))
	})

	t.Run("keeps supplied unit and hsn", func(t *testing.T) {
		item, err := NewItem("Pipe", "7307", "Mtr", decimal.NewFromInt(12))

		require.NoError(t, err)
		assert.Equal(t, "7307", item.HSNCode)
		assert.Equal(t, "Mtr", item.Unit)
	})

	t.Run("fails with empty description", func(t *testing.T) {
		item, err := NewItem("  ", "", "", decimal.Zero)

		assert.Error(t, err)
		assert.Nil(t, item)
	})
}

func TestItemRefreshRate(t *testing.T) {
	item, err := NewItem("Widget", "", "", decimal.NewFromInt(100))
	require.NoError(t, err)

	// the rate refreshes even when it decreases
	item.RefreshRate(decimal.NewFromInt(80))

	assert.True(t, item.LastRate.Equal(decimal.NewFromInt(80)))
}

func TestItemFillMissing(t *testing.T) {
	t.Run("fills only unset fields", func(t *testing.T) {
		item, err := NewItem("Widget", "7307", "Mtr", decimal.Zero)
		require.NoError(t, err)

		item.FillMissing("9999", "Kg")

		assert.Equal(t, "7307", item.HSNCode, "registered hsn is kept")
		assert.Equal(t, "Mtr", item.Unit, "registered unit is kept")
	})

	t.Run("fills hsn when missing", func(t *testing.T) {
		item, err := NewItem("Widget", "", "", decimal.Zero)
		require.NoError(t, err)

		item.FillMissing("7307", "")

		assert.Equal(t, "7307", item.HSNCode)
		assert.Equal(t, DefaultUnit, item.Unit)
	})
}
