package nwc

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip04"
	"github.com/stretchr/testify/require"
)

// fakeRelay is an in-memory relay: published events are delivered to every
// matching subscription and to onPublish.
type fakeRelay struct {
	mu        sync.Mutex
	subs      map[int]*fakeSub
	nextSub   int
	published []nostr.Event
	onPublish func(ev nostr.Event)
	down      bool
	closed    bool
}

type fakeSub struct {
	filter nostr.Filter
	ch     chan *nostr.Event
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{subs: make(map[int]*fakeSub)}
}

func (r *fakeRelay) publish(_ context.Context, ev nostr.Event) error {
	r.mu.Lock()
	if r.down {
		r.mu.Unlock()
		return errors.New("relay down")
	}
	r.published = append(r.published, ev)
	var targets []chan *nostr.Event
	for _, s := range r.subs {
		if s.filter.Matches(&ev) {
			targets = append(targets, s.ch)
		}
	}
	hook := r.onPublish
	r.mu.Unlock()

	for _, ch := range targets {
		evCopy := ev
		select {
		case ch <- &evCopy:
		default:
		}
	}
	if hook != nil {
		go hook(ev)
	}
	return nil
}

func (r *fakeRelay) subscribe(_ context.Context, filter nostr.Filter) (<-chan *nostr.Event, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	s := &fakeSub{filter: filter, ch: make(chan *nostr.Event, 8)}
	r.subs[id] = s
	return s.ch, func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}, nil
}

func (r *fakeRelay) connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed && !r.down
}

func (r *fakeRelay) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeRelay) subscriptions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// walletHandler answers one decrypted request. Returning a nil response
// leaves the request unanswered.
type walletHandler func(req walletRequest) *response

type walletRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// fakeWallet is a NIP-47 wallet service listening on a fakeRelay.
type fakeWallet struct {
	t      *testing.T
	secret string
	pubkey string
	relay  *fakeRelay

	mu       sync.Mutex
	requests []walletRequest
	handle   walletHandler
}

func newFakeWallet(t *testing.T, relay *fakeRelay, handle walletHandler) *fakeWallet {
	t.Helper()
	secret := nostr.GeneratePrivateKey()
	pubkey, err := nostr.GetPublicKey(secret)
	require.NoError(t, err)

	w := &fakeWallet{t: t, secret: secret, pubkey: pubkey, relay: relay, handle: handle}
	relay.mu.Lock()
	relay.onPublish = w.onEvent
	relay.mu.Unlock()
	return w
}

func (w *fakeWallet) onEvent(ev nostr.Event) {
	if ev.Kind != kindRequest {
		return
	}
	shared, err := nip04.ComputeSharedSecret(ev.PubKey, w.secret)
	if err != nil {
		return
	}
	plaintext, err := nip04.Decrypt(ev.Content, shared)
	if err != nil {
		return
	}
	var req walletRequest
	if err := json.Unmarshal([]byte(plaintext), &req); err != nil {
		return
	}

	w.mu.Lock()
	w.requests = append(w.requests, req)
	handle := w.handle
	w.mu.Unlock()

	resp := handle(req)
	if resp == nil {
		return
	}
	if resp.ResultType == "" {
		resp.ResultType = req.Method
	}
	w.reply(ev, resp, shared)
}

func (w *fakeWallet) reply(req nostr.Event, resp *response, shared []byte) {
	data, _ := json.Marshal(resp)
	content, err := nip04.Encrypt(string(data), shared)
	if err != nil {
		return
	}
	ev := nostr.Event{
		PubKey:    w.pubkey,
		CreatedAt: nostr.Now(),
		Kind:      kindResponse,
		Tags:      nostr.Tags{{"e", req.ID}, {"p", req.PubKey}},
		Content:   content,
	}
	if err := ev.Sign(w.secret); err != nil {
		return
	}
	w.relay.publish(context.Background(), ev)
}

func (w *fakeWallet) getRequests() []walletRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	cp := make([]walletRequest, len(w.requests))
	copy(cp, w.requests)
	return cp
}

func (w *fakeWallet) uri(clientSecret string) string {
	u := &URI{
		WalletPubkey: w.pubkey,
		Relays:       []string{"wss://relay.test"},
		Secret:       clientSecret,
	}
	return u.String()
}

func resultOf(v any) *response {
	data, _ := json.Marshal(v)
	return &response{Result: data}
}

func errorOf(code, message string) *response {
	return &response{Error: &responseError{Code: code, Message: message}}
}
