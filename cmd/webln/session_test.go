package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lnbridge/go-webln/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeFlags map[string]any

func (f fakeFlags) IsSet(name string) bool {
	_, ok := f[name]
	return ok
}

func (f fakeFlags) String(name string) string {
	s, _ := f[name].(string)
	return s
}

func (f fakeFlags) Bool(name string) bool {
	b, _ := f[name].(bool)
	return b
}

func (f fakeFlags) Duration(name string) time.Duration {
	d, _ := f[name].(time.Duration)
	return d
}

func defaultConfig() *config.Config {
	return &config.Config{
		Backend:        config.BackendBridge,
		BridgeAddr:     "127.0.0.1:8089",
		LogLevel:       uint32(log.InfoLevel),
		ConnectTimeout: 120,
		ShowQR:         true,
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := defaultConfig()
	err := applyFlags(cfg, fakeFlags{
		"listen":  ":0",
		"qr":      false,
		"timeout": 30 * time.Second,
		"verbose": true,
		"metrics": ":9100",
	})
	require.NoError(t, err)
	require.Equal(t, ":0", cfg.BridgeAddr)
	require.False(t, cfg.ShowQR)
	require.Equal(t, uint32(30), cfg.ConnectTimeout)
	require.Equal(t, log.DebugLevel, cfg.Level())
	require.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestApplyFlags_Untouched(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, applyFlags(cfg, fakeFlags{}))
	require.Equal(t, defaultConfig(), cfg)
}

func TestApplyFlags_Invalid(t *testing.T) {
	require.Error(t, applyFlags(defaultConfig(), fakeFlags{"backend": "lnd"}))
	require.Error(t, applyFlags(defaultConfig(), fakeFlags{"backend": "nwc"}))
	require.Error(t, applyFlags(defaultConfig(), fakeFlags{"timeout": 10 * time.Millisecond}))
}

const testNwcURI = "nostr+walletconnect://b889ff5b1513b641e2a139f661a661364979c5beee91842f8f0ef42ab558e9d4" +
	"?relay=wss://relay.test&secret=71a8c14c1407c113601079c4302dab36460f0ccd0ad506f1f2dc73b5100e4f3c"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, ev := range config.EnvSpecs() {
		t.Setenv(ev.FullName, "")
	}
}

func TestApplyFlags_CompletesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEBLN_BACKEND", "nwc")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, applyFlags(cfg, fakeFlags{"nwc-uri": testNwcURI}))
	require.Equal(t, config.BackendNWC, cfg.Backend)
	require.Equal(t, testNwcURI, cfg.NwcURI)
}

func TestApplyFlags_OverridesInvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEBLN_BACKEND", "lnd")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, applyFlags(cfg, fakeFlags{"backend": "bridge"}))
	require.Equal(t, config.BackendBridge, cfg.Backend)
}

func TestBridgeURL(t *testing.T) {
	tests := []struct {
		addr net.Addr
		want string
	}{
		{&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8089}, "http://127.0.0.1:8089/"},
		{&net.TCPAddr{IP: net.IPv4zero, Port: 8089}, "http://127.0.0.1:8089/"},
		{&net.TCPAddr{Port: 9000}, "http://127.0.0.1:9000/"},
		{&net.TCPAddr{IP: net.ParseIP("::1"), Port: 80}, "http://[::1]:80/"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, bridgeURL(tt.addr))
	}
}

func TestStartBridge_ServesPage(t *testing.T) {
	var out bytes.Buffer
	factory, stop, err := startBridge("127.0.0.1:0", true, &out)
	require.NoError(t, err)
	defer stop()
	require.NotNil(t, factory)

	line := strings.SplitN(out.String(), "\n", 2)[0]
	require.True(t, strings.HasPrefix(line, "Open http://127.0.0.1:"), line)
	url := strings.Fields(line)[1]
	require.Greater(t, out.Len(), len(line)+1, "QR code should follow the URL")

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "webln")

	// no tab attached yet
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = factory(ctx)
	require.Error(t, err)
}

func TestServeMetrics(t *testing.T) {
	rec, stop, err := serveMetrics("127.0.0.1:0")
	require.NoError(t, err)
	defer stop()
	require.NotNil(t, rec)
}
