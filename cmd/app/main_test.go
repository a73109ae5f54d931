package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := rootCmd()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	rank, _, err := root.Find([]string{"rank"})
	require.NoError(t, err)
	for _, name := range []string{"tag", "limit", "pretty"} {
		assert.NotNil(t, rank.Flags().Lookup(name), name)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.RunE)
}

func TestRankRejectsBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o644))

	root := rootCmd()
	root.SetArgs([]string{"--config", path, "rank"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config load failed")
}
