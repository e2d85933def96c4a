package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	webln "github.com/lnbridge/go-webln"
	"github.com/lnbridge/go-webln/internal/config"
	"github.com/lnbridge/go-webln/metrics"
	"github.com/lnbridge/go-webln/provider"
	"github.com/lnbridge/go-webln/provider/nwc"
	"github.com/lnbridge/go-webln/provider/wsbridge"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

// flagReader is the subset of *cli.Context used to override the environment
// configuration.
type flagReader interface {
	IsSet(name string) bool
	String(name string) string
	Bool(name string) bool
	Duration(name string) time.Duration
}

// applyFlags overrides cfg with the global flags that were set explicitly.
func applyFlags(cfg *config.Config, f flagReader) error {
	if f.IsSet("backend") {
		cfg.Backend = f.String("backend")
	}
	if f.IsSet("listen") {
		cfg.BridgeAddr = f.String("listen")
	}
	if f.IsSet("nwc-uri") {
		cfg.NwcURI = f.String("nwc-uri")
	}
	if f.IsSet("metrics") {
		cfg.MetricsAddr = f.String("metrics")
	}
	if f.IsSet("qr") {
		cfg.ShowQR = f.Bool("qr")
	}
	if f.IsSet("timeout") {
		d := f.Duration("timeout")
		if d < time.Second {
			return fmt.Errorf("timeout must be at least 1s, got %s", d)
		}
		cfg.ConnectTimeout = uint32(d / time.Second)
	}
	if f.IsSet("verbose") && f.Bool("verbose") {
		cfg.LogLevel = uint32(log.DebugLevel)
	}
	return cfg.Validate()
}

type session struct {
	client  *webln.Client
	closers []func()
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	webln.Flush(2 * time.Second)
}

func withClient(action func(*cli.Context, *webln.Client) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.close()

		return action(c, s.client)
	}
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, c); err != nil {
		return nil, err
	}

	if err := webln.Start(
		webln.WithLogLevel(cfg.Level()),
		webln.WithSentryDSN(cfg.SentryDSN),
		webln.WithEnvironment(cfg.Environment),
		webln.WithRelease(version),
	); err != nil {
		log.WithError(err).Warn("error reporting disabled")
	}

	s := &session{}
	opts := []webln.Option{webln.WithLogger(log.WithField("component", "webln"))}

	if cfg.MetricsAddr != "" {
		rec, stop, err := serveMetrics(cfg.MetricsAddr)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, stop)
		opts = append(opts, webln.WithMetrics(rec))
	}

	var factory provider.Factory
	switch cfg.Backend {
	case config.BackendBridge:
		f, stop, err := startBridge(cfg.BridgeAddr, cfg.ShowQR, c.App.ErrWriter)
		if err != nil {
			s.close()
			return nil, err
		}
		s.closers = append(s.closers, stop)
		factory = f
	case config.BackendNWC:
		f, stop := nwcFactory(cfg.NwcURI)
		s.closers = append(s.closers, stop)
		factory = f
	}

	ctx, cancel := context.WithTimeout(c.Context, cfg.ConnectTimeoutDuration())
	defer cancel()

	client, err := webln.NewClient(ctx, factory, opts...)
	if err != nil {
		s.close()
		return nil, err
	}
	s.client = client
	return s, nil
}

// startBridge serves the bridge page on addr and returns the server's
// Connect method as the factory.
func startBridge(addr string, showQR bool, out io.Writer) (provider.Factory, func(), error) {
	logger := log.WithField("component", "wsbridge")

	bridge, err := wsbridge.NewServer(wsbridge.Config{}, wsbridge.LogErrors(logger))
	if err != nil {
		return nil, nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: bridge, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("bridge server stopped")
		}
	}()

	url := bridgeURL(ln.Addr())
	fmt.Fprintf(out, "Open %s in a browser with a WebLN wallet\n", url)
	if showQR {
		if qr, err := qrcode.New(url, qrcode.Medium); err == nil {
			fmt.Fprint(out, qr.ToSmallString(false))
		} else {
			logger.WithError(err).Debug("failed to render QR code")
		}
	}

	stop := func() {
		bridge.Close()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Debug("bridge shutdown")
		}
	}
	return bridge.Connect, stop, nil
}

// bridgeURL is the page URL for a listener address. Wildcard hosts are
// shown as loopback.
func bridgeURL(addr net.Addr) string {
	host, port := "127.0.0.1", ""
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	} else if h, p, err := net.SplitHostPort(addr.String()); err == nil {
		port = p
		if ip := net.ParseIP(h); h != "" && (ip == nil || !ip.IsUnspecified()) {
			host = h
		}
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// nwcFactory dials the wallet lazily and remembers the connection so it can
// be closed when the command finishes.
func nwcFactory(uri string) (provider.Factory, func()) {
	var conn *nwc.Conn
	factory := func(ctx context.Context) (provider.Provider, error) {
		c, err := nwc.Dial(ctx, uri, nwc.WithLogger(log.WithField("component", "nwc")))
		if err != nil {
			return nil, err
		}
		conn = c
		return c, nil
	}
	stop := func() {
		if conn != nil {
			conn.Close()
		}
	}
	return factory, stop
}

func serveMetrics(addr string) (metrics.Recorder, func(), error) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	log.Infof("serving metrics on http://%s/metrics", ln.Addr())

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(ctx)
	}
	return rec, stop, nil
}
