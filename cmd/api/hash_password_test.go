package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilab/tilab/internal/pkg/auth"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestHashPassword_Argument(t *testing.T) {
	out, err := runCommand(t, "", "hash-password", "s3cret")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, auth.CheckPassword(hash, "s3cret"))
}

func TestHashPassword_Stdin(t *testing.T) {
	out, err := runCommand(t, "from-stdin\n", "hash-password")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(strings.TrimSpace(out), "from-stdin"))
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := runCommand(t, "\n", "hash-password")
	require.Error(t, err)
}
