package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minaorangina/napoleon/config"
)

func TestNew(t *testing.T) {
	t.Run("rejects unknown levels", func(t *testing.T) {
		_, err := New(config.Log{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("writes to the log directory", func(t *testing.T) {
		dir := t.TempDir()

		log, err := New(config.Log{Level: "info", Directory: dir, JSON: true, MaxSizeMB: 1})
		require.NoError(t, err)

		log.Info("room created")
		log.Debug("below the level")
		_ = log.Sync()

		contents, err := os.ReadFile(filepath.Join(dir, fileName))
		require.NoError(t, err)
		assert.Contains(t, string(contents), `"msg":"room created"`)
		assert.NotContains(t, string(contents), "below the level")
	})
}
