package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlansCmd(t *testing.T) {
	t.Parallel()

	t.Run("built-in catalog", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "plans")
		require.NoError(t, err)

		var got struct {
			Version string       `json:"version"`
			Plans   []plans.Plan `json:"plans"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, plans.DefaultVersion, got.Version)
		assert.Len(t, got.Plans, len(plans.Default().All()))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "plans", "--file", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, plans.ErrFailedToLoadCatalog)
	})

	t.Run("invalid file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: x\nplans:\n  - application: crm\n    tier: pro\n"), 0o600))

		_, err := execute(t, "plans", "--file", path)
		assert.Error(t, err)
	})
}

func TestReconcileRejectsBadInstant(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "reconcile", "--at", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--at")
}

func TestVersion(t *testing.T) {
	t.Parallel()
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
