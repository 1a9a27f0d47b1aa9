package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefault(t *testing.T) {
	c, err := NewDefault()
	assert.NoError(t, err)
	assert.False(t, c.Debug)
	assert.Equal(t, "", c.LogDirectory)
	assert.Equal(t, 3, c.Shredder.Passes)
	assert.Equal(t, "random", c.Shredder.Pattern)
	assert.Equal(t, 50, c.Shredder.PassPauseMs)
	assert.Empty(t, c.Shredder.Exclude)
}

func TestFromFile(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		c, err := FromFile(filepath.Join(t.TempDir(), "nope.yml"))
		assert.NoError(t, err)
		assert.Equal(t, 3, c.Shredder.Passes)
		assert.Equal(t, "random", c.Shredder.Pattern)
	})

	t.Run("values from the file override defaults", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yml")
		content := "debug: true\nshredder:\n  passes: 7\n  pattern: ones\n  pass_pause_ms: 0\n  exclude:\n    - keep.txt\n"
		assert.NoError(t, os.WriteFile(p, []byte(content), 0o644))

		c, err := FromFile(p)
		assert.NoError(t, err)
		assert.True(t, c.Debug)
		assert.Equal(t, 7, c.Shredder.Passes)
		assert.Equal(t, "ones", c.Shredder.Pattern)
		assert.Equal(t, 0, c.Shredder.PassPauseMs)
		assert.Equal(t, []string{"keep.txt"}, c.Shredder.Exclude)
	})

	t.Run("an unknown pattern fails validation", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yml")
		assert.NoError(t, os.WriteFile(p, []byte("shredder:\n  pattern: gutmann\n"), 0o644))

		_, err := FromFile(p)
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yml")
		assert.NoError(t, os.WriteFile(p, []byte("shredder: ["), 0o644))

		_, err := FromFile(p)
		assert.Error(t, err)
	})
}

func TestSetGet(t *testing.T) {
	c, err := NewDefault()
	assert.NoError(t, err)
	Set(c)
	assert.Same(t, c, Get())
}
