package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty", func(t *testing.T) {
		_, err := ValidateFilePath("")
		assert.ErrorIs(t, err, ErrUnsafePath)
	})

	t.Run("shell metacharacters", func(t *testing.T) {
		for _, p := range []string{"tasks.db; rm -rf /", "$(whoami).db", "a|b.db"} {
			_, err := ValidateFilePath(p)
			assert.ErrorIs(t, err, ErrUnsafePath, p)
		}
	})

	t.Run("missing file is cleaned", func(t *testing.T) {
		got, err := ValidateFilePath(filepath.Join(dir, "a", "..", "tasks.db"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "tasks.db"), got)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		got, err := ValidateFilePath("tasks.db")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, "tasks.db", filepath.Base(got))
	})

	t.Run("symlink is resolved", func(t *testing.T) {
		target := filepath.Join(dir, "real.db")
		require.NoError(t, os.WriteFile(target, nil, 0o600))
		link := filepath.Join(dir, "link.db")
		require.NoError(t, os.Symlink(target, link))

		got, err := ValidateFilePath(link)
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(target)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
