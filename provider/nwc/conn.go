// Package nwc is a WebLN provider backed by a Nostr Wallet Connect (NIP-47)
// wallet service.
//
// Requests are NIP-04 encrypted kind 23194 events addressed to the wallet;
// responses are kind 23195 events referencing the request. Amounts are
// converted from the satoshis WebLN uses to the millisatoshis NIP-47 uses.
package nwc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lnbridge/go-webln/provider"
	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip04"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by calls on a closed connection.
var ErrClosed = errors.New("nwc connection is closed")

// Conn is a connection to one wallet service. It implements
// provider.Provider and provider.InvoiceMaker.
type Conn struct {
	uri          *URI
	clientPubkey string
	sharedSecret []byte
	opts         options
	log          logrus.FieldLogger

	mu     sync.Mutex
	relay  relayConn
	closed bool

	enabled atomic.Bool
}

var (
	_ provider.Provider     = (*Conn)(nil)
	_ provider.InvoiceMaker = (*Conn)(nil)
)

// New returns a provider.Factory that dials the wallet described by uri.
// URI errors surface when the factory runs.
func New(uri string, opts ...Option) provider.Factory {
	return func(ctx context.Context) (provider.Provider, error) {
		c, err := Dial(ctx, uri, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Dial parses uri and connects to the first reachable relay.
func Dial(ctx context.Context, uri string, opts ...Option) (*Conn, error) {
	parsed, err := ParseURI(uri)
	if err != nil {
		return nil, provider.Wrap(provider.KindInvalidRequest, err, err.Error())
	}

	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}

	clientPubkey, err := nostr.GetPublicKey(parsed.Secret)
	if err != nil {
		return nil, provider.Wrap(provider.KindInvalidRequest, err, "derive nwc client key")
	}
	shared, err := nip04.ComputeSharedSecret(parsed.WalletPubkey, parsed.Secret)
	if err != nil {
		return nil, provider.Wrap(provider.KindInvalidRequest, err, "derive nwc shared secret")
	}

	c := &Conn{
		uri:          parsed,
		clientPubkey: clientPubkey,
		sharedSecret: shared,
		opts:         o,
		log:          o.logger.WithField("wallet", parsed.WalletPubkey),
	}
	if _, err := c.getRelay(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Close disconnects from the relay.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.relay != nil {
		return c.relay.close()
	}
	return nil
}

// IsEnabled reports whether Enable has succeeded on this connection.
func (c *Conn) IsEnabled(context.Context) (bool, error) {
	return c.enabled.Load(), nil
}

// Enable checks that the wallet answers get_info with this connection's key.
func (c *Conn) Enable(ctx context.Context) error {
	var info getInfoResult
	if err := c.request(ctx, methodGetInfo, struct{}{}, &info); err != nil {
		return err
	}
	c.enabled.Store(true)
	return nil
}

// GetInfo sends get_info.
func (c *Conn) GetInfo(ctx context.Context) (*provider.GetInfoResponse, error) {
	var info getInfoResult
	if err := c.request(ctx, methodGetInfo, struct{}{}, &info); err != nil {
		return nil, err
	}
	return info.toProvider(), nil
}

// Keysend sends pay_keysend with the amount converted to msat and custom
// records as hex TLV records.
func (c *Conn) Keysend(ctx context.Context, args *provider.KeysendArgs) (*provider.SendPaymentResponse, error) {
	params, err := keysendParams(args)
	if err != nil {
		return nil, err
	}
	var res payResult
	if err := c.request(ctx, methodPayKeysend, params, &res); err != nil {
		return nil, err
	}
	return &provider.SendPaymentResponse{Preimage: res.Preimage}, nil
}

// SendPayment sends pay_invoice.
func (c *Conn) SendPayment(ctx context.Context, invoice string) (*provider.SendPaymentResponse, error) {
	var res payResult
	if err := c.request(ctx, methodPayInvoice, payInvoiceParams{Invoice: invoice}, &res); err != nil {
		return nil, err
	}
	return &provider.SendPaymentResponse{Preimage: res.Preimage}, nil
}

// MakeInvoice sends make_invoice. Amount, or DefaultAmount when Amount is
// unset, becomes the invoice amount; one of them is required.
func (c *Conn) MakeInvoice(ctx context.Context, args *provider.RequestInvoiceArgs) (*provider.RequestInvoiceResponse, error) {
	params, err := invoiceParams(args)
	if err != nil {
		return nil, err
	}
	var res makeInvoiceResult
	if err := c.request(ctx, methodMakeInvoice, params, &res); err != nil {
		return nil, err
	}
	return &provider.RequestInvoiceResponse{PaymentRequest: res.Invoice}, nil
}

// request sends one NIP-47 request and decodes the wallet's result into out.
func (c *Conn) request(ctx context.Context, method string, params, out any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.requestTimeout)
		defer cancel()
	}

	ev, err := c.requestEvent(method, params)
	if err != nil {
		return err
	}
	log := c.log.WithFields(logrus.Fields{"method": method, "request_id": ev.ID})

	relay, err := c.getRelay(ctx)
	if err != nil {
		return err
	}

	events, unsub, err := relay.subscribe(ctx, nostr.Filter{
		Kinds:   []int{kindResponse},
		Authors: []string{c.uri.WalletPubkey},
		Tags:    nostr.TagMap{"e": []string{ev.ID}},
	})
	if err != nil {
		return provider.Wrap(provider.KindTransport, err, "subscribe for nwc response")
	}
	defer unsub()

	if err := relay.publish(ctx, ev); err != nil {
		return provider.Wrap(provider.KindTransport, err, "publish nwc request")
	}
	log.Debug("nwc request published")

	for {
		select {
		case resp, ok := <-events:
			if !ok {
				return provider.Errorf(provider.KindTransport, "relay closed the subscription for %s", method)
			}
			done, err := c.handleResponse(resp, ev.ID, method, out)
			if !done {
				log.WithError(err).Debug("ignoring unrelated nwc event")
				continue
			}
			return err
		case <-ctx.Done():
			return provider.Wrap(provider.KindOf(ctx.Err()), ctx.Err(), "waiting for nwc wallet")
		}
	}
}

func (c *Conn) requestEvent(method string, params any) (nostr.Event, error) {
	payload, err := json.Marshal(request{Method: method, Params: params})
	if err != nil {
		return nostr.Event{}, provider.Wrap(provider.KindInvalidRequest, err, "encode nwc request")
	}
	content, err := nip04.Encrypt(string(payload), c.sharedSecret)
	if err != nil {
		return nostr.Event{}, provider.Wrap(provider.KindInternal, err, "encrypt nwc request")
	}

	ev := nostr.Event{
		PubKey:    c.clientPubkey,
		CreatedAt: nostr.Now(),
		Kind:      kindRequest,
		Tags:      nostr.Tags{{"p", c.uri.WalletPubkey}},
		Content:   content,
	}
	if err := ev.Sign(c.uri.Secret); err != nil {
		return nostr.Event{}, provider.Wrap(provider.KindInternal, err, "sign nwc request")
	}
	return ev, nil
}

// handleResponse reports done=false for events that are not the answer to
// requestID; those are skipped.
func (c *Conn) handleResponse(ev *nostr.Event, requestID, method string, out any) (done bool, err error) {
	if ev == nil || ev.Kind != kindResponse || ev.PubKey != c.uri.WalletPubkey || !referencesEvent(ev, requestID) {
		return false, errors.New("not a response to this request")
	}
	if ok, err := ev.CheckSignature(); err != nil || !ok {
		return false, fmt.Errorf("bad signature on event %s", ev.ID)
	}

	plaintext, err := nip04.Decrypt(ev.Content, c.sharedSecret)
	if err != nil {
		return true, provider.Wrap(provider.KindMalformedResponse, err, "decrypt nwc response")
	}

	var resp response
	if err := json.Unmarshal([]byte(plaintext), &resp); err != nil {
		return true, provider.Wrap(provider.KindMalformedResponse, err, "decode nwc response")
	}
	if resp.Error != nil {
		return true, resp.Error.toProviderError()
	}
	if resp.ResultType != "" && resp.ResultType != method {
		return true, provider.Errorf(provider.KindMalformedResponse, "nwc wallet answered %s with %s", method, resp.ResultType)
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return true, provider.Errorf(provider.KindMalformedResponse, "nwc wallet returned no result for %s", method)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return true, provider.Wrap(provider.KindMalformedResponse, err, "decode "+method+" result")
	}
	return true, nil
}

func referencesEvent(ev *nostr.Event, id string) bool {
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == "e" && tag[1] == id {
			return true
		}
	}
	return false
}

// getRelay returns a live relay connection, dialing the configured relays in
// order with backoff when there is none.
func (c *Conn) getRelay(ctx context.Context) (relayConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, provider.Wrap(provider.KindUnavailable, ErrClosed, ErrClosed.Error())
	}
	if c.relay != nil && c.relay.connected() {
		return c.relay, nil
	}
	if c.relay != nil {
		c.relay.close()
		c.relay = nil
	}

	var lastErr error
	for _, url := range c.uri.Relays {
		attempt := 0
		dial := func() (relayConn, error) {
			attempt++
			return c.opts.dial(ctx, url)
		}
		notify := func(err error, wait time.Duration) {
			c.log.WithError(err).WithFields(logrus.Fields{
				"relay":    url,
				"attempt":  attempt,
				"retry_in": wait,
			}).Warn("nwc relay dial failed")
		}

		r, err := backoff.RetryNotifyWithData(dial, dialBackOff(ctx, c.opts.dialInterval, c.opts.dialAttempts), notify)
		if err == nil {
			c.log.WithField("relay", url).Debug("connected to nwc relay")
			c.relay = r
			return r, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, provider.Wrap(provider.KindUnavailable, ctxErr, "connect to nwc relay")
		}
		lastErr = err
		c.log.WithError(err).WithFields(logrus.Fields{
			"relay":    url,
			"attempts": attempt,
		}).Warn("giving up on nwc relay")
	}
	return nil, provider.Wrap(provider.KindUnavailable, lastErr, "no nwc relay reachable")
}
