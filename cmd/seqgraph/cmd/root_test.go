package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConstraints = `
constraints:
  - mod: Carbamidomethyl
    target: C
    fixed: true
  - mod: Oxidation
    target: M
`

// testEnv writes a config and a constraint file and returns the flags
// selecting them.
func testEnv(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()

	cfg := filepath.Join(dir, "seqgraph.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("enumerate:\n  limit: 100\n"), 0o644))

	constraints := filepath.Join(dir, "constraints.yaml")
	require.NoError(t, os.WriteFile(constraints, []byte(testConstraints), 0o644))

	return []string{"--config", cfg, "--constraints", constraints}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestBuildCommand(t *testing.T) {
	env := testEnv(t)
	out := execute(t, append(env, "build", "K.ACMK.R")...)

	assert.Contains(t, out, "Annotation: K.ACMK.R")
	assert.Contains(t, out, "Positions:  6")
	assert.Contains(t, out, "Proteoforms (start to end): 2")
}

func TestEnumerateCommand(t *testing.T) {
	env := testEnv(t)
	out := execute(t, append(env, "enumerate", "K.ACMK.R")...)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "AC[Carbamidomethyl]MK\t"))
	assert.True(t, strings.HasPrefix(lines[1], "AC[Carbamidomethyl]M[Oxidation]K\t"))

	out = execute(t, append(env, "enumerate", "K.ACMK.R", "--require", "Oxidation")...)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	t.Cleanup(func() { requiredMods = "" })
}

func TestReconcileCommand(t *testing.T) {
	env := testEnv(t)
	out := execute(t, append(env, "reconcile", "K.ACMK.R", "AC[Carbamidomethyl]M[Oxidation]K")...)

	assert.Contains(t, out, "Match:    complete (6 of 6 positions)")
	assert.Contains(t, out, "Oxidation")

	out = execute(t, append(env, "reconcile", "K.ACMK.R", "ACMK")...)
	assert.Contains(t, out, "Match:    partial")
}

func TestExportCommand(t *testing.T) {
	env := testEnv(t)
	db := filepath.Join(t.TempDir(), "out.db")
	out := execute(t, append(env, "export", "K.ACMK.R", "R.MK.-", "--out", db, "--paths")...)

	assert.Contains(t, out, "Wrote 2 graph(s)")
	info, err := os.Stat(db)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestModsCommand(t *testing.T) {
	env := testEnv(t)
	out := execute(t, append(env, "mods")...)
	assert.Contains(t, out, "Oxidation")
	assert.Contains(t, out, "Carbamidomethyl")
}

func TestConfigGetCommand(t *testing.T) {
	env := testEnv(t)
	out := execute(t, append(env, "config", "get", "enumerate.limit")...)
	assert.Equal(t, "100", strings.TrimSpace(out))
}
