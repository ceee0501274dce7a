package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophPass/internal/certgen"
)

func TestRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	var out bytes.Buffer

	require.NoError(t, run([]string{"-dir", dir, "-hosts", "gophpass.local, 10.0.0.1"}, &out))
	assert.Contains(t, out.String(), "Certificates generated into "+dir)

	for _, name := range []string{"ca.crt", "ca.key", "server.crt", "server.key"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	caCert, _, err := certgen.LoadCACredentials(filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key"))
	require.NoError(t, err)

	// a second run reuses the CA
	require.NoError(t, run([]string{"-dir", dir}, &out))
	again, _, err := certgen.LoadCACredentials(filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key"))
	require.NoError(t, err)
	assert.Equal(t, caCert.Raw, again.Raw)
}

func TestRun_BadFlag(t *testing.T) {
	assert.Error(t, run([]string{"-nope"}, &bytes.Buffer{}))
}
