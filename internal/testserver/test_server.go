// Package testserver starts a fully wired board behind an httptest server.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/projectboard/internal/app"
	"github.com/rpggio/projectboard/internal/config"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Token  string
	Owner  string
}

// New starts an in-memory board with bearer auth enabled and token
// registered for owner.
func New(t *testing.T, token, owner string) *TestServer {
	t.Helper()
	return NewWithConfig(t, token, owner, func(cfg *config.Config) {
		cfg.Auth.Enabled = true
	})
}

// NewWithConfig is New with a hook to adjust the configuration.
func NewWithConfig(t *testing.T, token, owner string, configure func(*config.Config)) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = ""
	if configure != nil {
		configure(&cfg)
	}

	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)

	server := httptest.NewServer(a.HTTPHandler("test"))

	ts := &TestServer{
		Server: server,
		App:    a,
		Token:  token,
		Owner:  owner,
	}
	require.NoError(t, ts.AddAPIKey(token, owner))

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return ts
}

// AddAPIKey registers another bearer token.
func (ts *TestServer) AddAPIKey(token, owner string) error {
	return ts.App.APIKeys.Add(context.Background(), token, owner, "test key")
}

// Client returns an HTTP client that sends the test bearer token.
func (ts *TestServer) Client() *http.Client {
	return &http.Client{Transport: &bearerTransport{token: ts.Token, base: http.DefaultTransport}}
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}
