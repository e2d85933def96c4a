package wsbridge

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// peer is one connected relay page.
type peer struct {
	conn   *websocket.Conn
	remote string

	mu sync.Mutex // protects conn writes

	pending sync.Map // call id → chan frame

	onHello func(p *peer, f frame)
	onError ErrorHandler

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

func newPeer(conn *websocket.Conn, onHello func(*peer, frame), onError ErrorHandler) *peer {
	return &peer{
		conn:    conn,
		remote:  conn.RemoteAddr().String(),
		onHello: onHello,
		onError: onError,
		done:    make(chan struct{}),
	}
}

// run reads frames until the connection fails or the peer is closed.
func (p *peer) run(pingInterval time.Duration) {
	p.conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	})

	go p.pingLoop(pingInterval)
	p.readLoop()
}

func (p *peer) readLoop() {
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			p.close(ErrPeerGone)
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			p.report(BridgeError{Kind: ErrParseFailure, Cause: err, Raw: data})
			continue
		}

		p.handleInbound(f, data)
	}
}

func (p *peer) handleInbound(f frame, raw []byte) {
	switch f.Type {
	case frameHello:
		if p.onHello != nil {
			p.onHello(p, f)
		}
	case frameResult:
		v, ok := p.pending.LoadAndDelete(f.ID)
		if !ok {
			p.report(BridgeError{Kind: ErrUnknownCall, CallID: f.ID, Raw: raw})
			return
		}
		v.(chan frame) <- f
	default:
		p.report(BridgeError{Kind: ErrParseFailure, CallID: f.ID, Raw: raw})
	}
}

func (p *peer) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			if err := p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				p.close(ErrPeerGone)
				return
			}
		}
	}
}

// expect registers a waiter for the result of call id.
func (p *peer) expect(id string) chan frame {
	ch := make(chan frame, 1)
	p.pending.Store(id, ch)
	return ch
}

func (p *peer) forget(id string) {
	p.pending.Delete(id)
}

func (p *peer) writeFrame(f frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.done:
		return p.closeErr
	default:
	}
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		p.report(BridgeError{Kind: ErrPeerWrite, CallID: f.ID, Cause: err})
		return err
	}
	return nil
}

// close shuts the connection down; reason is what in-flight calls report.
func (p *peer) close(reason error) {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closeErr = reason
		close(p.done)
		p.mu.Unlock()

		p.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason.Error()),
			time.Now().Add(time.Second),
		)
		p.conn.Close()
	})
}

// err returns why the peer was closed. Valid after done is closed.
func (p *peer) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeErr
}

func (p *peer) report(e BridgeError) {
	if p.onError == nil {
		return
	}
	e.Remote = p.remote
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	p.onError(e)
}
