package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeState(t *testing.T) {
	t.Run("Prefecture names with suffix", func(t *testing.T) {
		assert.Equal(t, "JP13", NormalizeState("東京都", "JP"))
		assert.Equal(t, "JP26", NormalizeState("京都府", "JP"))
		assert.Equal(t, "JP01", NormalizeState("北海道", "JP"))
		assert.Equal(t, "JP47", NormalizeState("沖縄県", "JP"))
	})

	t.Run("Prefecture names without suffix", func(t *testing.T) {
		assert.Equal(t, "JP13", NormalizeState("東京", "JP"))
		assert.Equal(t, "JP27", NormalizeState("大阪", "JP"))
		assert.Equal(t, "JP14", NormalizeState("神奈川", "JP"))
	})

	t.Run("Bare numbers are zero padded", func(t *testing.T) {
		assert.Equal(t, "JP01", NormalizeState("1", "JP"))
		assert.Equal(t, "JP13", NormalizeState("13", "JP"))
		assert.Equal(t, "JP47", NormalizeState("47", "JP"))
		assert.Equal(t, "JP05", NormalizeState("05", "JP"))
	})

	t.Run("Numbers out of range pass through", func(t *testing.T) {
		assert.Equal(t, "0", NormalizeState("0", "JP"))
		assert.Equal(t, "48", NormalizeState("48", "JP"))
		assert.Equal(t, "99", NormalizeState("99", "JP"))
	})

	t.Run("Canonical codes pass through", func(t *testing.T) {
		assert.Equal(t, "JP13", NormalizeState("JP13", "JP"))
		assert.Equal(t, "JP01", NormalizeState("JP01", "JP"))
	})

	t.Run("Unknown values pass through", func(t *testing.T) {
		assert.Equal(t, "Tokyo", NormalizeState("Tokyo", "JP"))
		assert.Equal(t, "架空県", NormalizeState("架空県", "JP"))
	})

	t.Run("Non-JP countries untouched", func(t *testing.T) {
		assert.Equal(t, "東京都", NormalizeState("東京都", "US"))
		assert.Equal(t, "13", NormalizeState("13", ""))
	})

	t.Run("Empty state untouched", func(t *testing.T) {
		assert.Equal(t, "", NormalizeState("", "JP"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		once := NormalizeState("東京都", "JP")
		assert.Equal(t, once, NormalizeState(once, "JP"))
	})
}
