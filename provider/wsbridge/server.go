// Package wsbridge lets native Go programs use the browser wallet of a
// user's browser tab.
//
// A Server serves a small relay page and a WebSocket endpoint. When the user
// opens the page, it connects back, reports whether window.webln exists, and
// then executes the WebLN calls the bridge forwards to it:
//
//	srv, err := wsbridge.NewServer(wsbridge.Config{}, wsbridge.LogErrors(logrus.StandardLogger()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go http.ListenAndServe("127.0.0.1:8089", srv)
//
//	client, err := webln.NewClient(ctx, srv.Connect)
package wsbridge

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lnbridge/go-webln/provider"
	"github.com/sirupsen/logrus"
)

//go:embed relay.html
var relayPage []byte

// Server relays WebLN calls to the most recently connected browser tab.
type Server struct {
	cfg      Config
	onError  ErrorHandler
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu      sync.Mutex
	current *peer         // attached tab with window.webln, or nil
	changed chan struct{} // closed and replaced whenever current changes
	closed  bool
	done    chan struct{}
}

// NewServer creates a bridge Server. The ErrorHandler is required.
func NewServer(cfg Config, onError ErrorHandler) (*Server, error) {
	if onError == nil {
		return nil, errors.New("ErrorHandler is required")
	}
	resolved, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     resolved,
		onError: onError,
		log:     logrus.WithField("component", "wsbridge"),
		changed: make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/", s.handlePage)
	s.mux.HandleFunc("/ws", s.handleWS)
	return s, nil
}

// ServeHTTP serves the bridge page at / and the WebSocket at /ws.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Connect waits until a browser tab with window.webln is attached and
// returns a provider backed by the bridge. It has the provider.Factory
// signature, so it can be passed to webln.NewClient directly.
//
// The returned provider always talks to the current tab: if the user opens
// the page again, later calls go to the new tab.
func (s *Server) Connect(ctx context.Context) (provider.Provider, error) {
	for {
		s.mu.Lock()
		p, changed, closed := s.current, s.changed, s.closed
		s.mu.Unlock()

		if closed {
			return nil, provider.Wrap(provider.KindUnavailable, ErrServerClosed, "webln bridge is closed")
		}
		if p != nil {
			return &bridgeProvider{t: s}, nil
		}

		select {
		case <-changed:
		case <-s.done:
		case <-ctx.Done():
			return nil, provider.Wrap(provider.KindUnavailable, ctx.Err(), "no browser tab with webln connected to the bridge")
		}
	}
}

// Close disconnects the current tab and makes pending and future Connect
// calls fail.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	p := s.current
	s.current = nil
	close(s.done)
	s.mu.Unlock()

	if p != nil {
		p.close(ErrServerClosed)
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(relayPage)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.onError(BridgeError{Kind: ErrUpgrade, Remote: r.RemoteAddr, Cause: err, Timestamp: time.Now()})
		return
	}

	p := newPeer(conn, s.attach, s.onError)
	s.log.WithField("remote", p.remote).Debug("browser tab connected")

	select {
	case <-s.done:
		p.close(ErrServerClosed)
		return
	default:
	}

	p.run(s.cfg.PingInterval)
	s.detach(p)
	s.log.WithField("remote", p.remote).Debug("browser tab disconnected")
}

// attach makes p the current tab once it reports window.webln. The tab it
// replaces is closed, failing its in-flight calls.
func (s *Server) attach(p *peer, hello frame) {
	if !hello.Available {
		p.report(BridgeError{Kind: ErrNoWebLN, Cause: errors.New("window.webln is not available in the browser tab")})
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		p.close(ErrServerClosed)
		return
	}
	old := s.current
	s.current = p
	s.notifyLocked()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"remote":     p.remote,
		"user_agent": hello.UserAgent,
	}).Info("browser wallet attached to webln bridge")

	if old != nil && old != p {
		old.close(ErrPeerReplaced)
	}
}

func (s *Server) detach(p *peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == p {
		s.current = nil
		s.notifyLocked()
	}
}

func (s *Server) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Server) currentPeer() *peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if len(s.cfg.AllowedOrigins) == 0 {
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
