package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	t.Run("collapses whitespace", func(t *testing.T) {
		actual, err := SanitizeName("  Jane \t\n Roe ")
		require.NoError(t, err)
		require.Equal(t, "Jane Roe", actual)
	})

	t.Run("drops invisible characters", func(t *testing.T) {
		actual, err := SanitizeName("Ja\u200Bne\x00 Roe\uFEFF")
		require.NoError(t, err)
		require.Equal(t, "Jane Roe", actual)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := SanitizeName(" \u200B ")
		require.Error(t, err)
	})

	t.Run("truncates long names by rune", func(t *testing.T) {
		actual, err := SanitizeName(strings.Repeat("é", 300))
		require.NoError(t, err)
		require.Equal(t, maxNameRunes, utf8.RuneCountInString(actual))
		require.True(t, utf8.ValidString(actual))
	})
}

func TestValidateEntityID(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateEntityID("p-42"))
	require.NoError(t, ValidateEntityID("65f1c0a9e4b0a1"))

	for _, bad := range []string{"", "  ", " p-1", "a/b", "p\x001", "p\u200B1", strings.Repeat("x", 200)} {
		require.Error(t, ValidateEntityID(bad), "%q", bad)
	}
}
