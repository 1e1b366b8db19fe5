package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPepperGeneratedOnceAndReloaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")

	SetPepperPath(path)
	first, err := loadOrGeneratePepper()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, string(raw))

	second, err := loadOrGeneratePepper()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPepperPathMustBeAFile(t *testing.T) {
	// A directory path is a misconfiguration, not a prompt to generate.
	SetPepperPath(t.TempDir())

	_, err := loadOrGeneratePepper()
	require.Error(t, err)
}
