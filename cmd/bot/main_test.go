package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/tickbot/internal/config"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"CONSUMER_KEY", "CONSUMER_SECRET", "ACCESS_TOKEN", "ACCESS_TOKEN_SECRET"} {
		t.Setenv(name, "")
	}
}

// failTransport fails the test on any outgoing request.
type failTransport struct {
	t *testing.T
}

func (ft failTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ft.t.Errorf("unexpected request to %s", req.URL)
	return nil, errors.New("network disabled in test")
}

func TestRunMissingCredentials(t *testing.T) {
	clearCredentialEnv(t)
	missing := filepath.Join(t.TempDir(), "config.yaml")

	orig := http.DefaultTransport
	http.DefaultTransport = failTransport{t: t}
	t.Cleanup(func() { http.DefaultTransport = orig })

	assert.Equal(t, 1, run(context.Background(), []string{"--config", missing}))
	assert.Equal(t, 1, run(context.Background(), []string{"verify", "--config", missing}))

	b, err := setup(context.Background(), &rootOptions{configPath: missing})
	require.ErrorIs(t, err, config.ErrMissingCredentials)
	assert.Nil(t, b)
	for _, name := range []string{"CONSUMER_KEY", "CONSUMER_SECRET", "ACCESS_TOKEN", "ACCESS_TOKEN_SECRET"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestRunRejectsUnknownArgs(t *testing.T) {
	assert.Equal(t, 1, run(context.Background(), []string{"extra"}))
	assert.Equal(t, 1, run(context.Background(), []string{"--no-such-flag"}))
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}
