package webln

import (
	"context"
	"time"

	"github.com/lnbridge/go-webln/metrics"
	"github.com/lnbridge/go-webln/provider"
	"github.com/sirupsen/logrus"
)

// Client is the entry point for talking to a WebLN provider.
//
// A Client owns exactly one provider handle for its whole lifetime. All
// methods are safe for concurrent use; the Client does not order or
// serialize calls and does not require Enable to be called first. If the
// provider needs that, the provider reports it.
type Client struct {
	provider provider.Provider
	log      logrus.FieldLogger
	metrics  metrics.Recorder
}

// NewClient acquires a provider through factory. It returns a
// *ConstructionError when the factory is nil, fails, or yields no provider.
func NewClient(ctx context.Context, factory provider.Factory, opts ...Option) (*Client, error) {
	o := clientDefaults()
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	c := &Client{log: o.logger, metrics: o.metrics}

	if factory == nil {
		err := provider.Errorf(provider.KindUnavailable, "no webln provider factory configured")
		c.observe("construct", start, err)
		return nil, newConstructionError(err)
	}

	p, err := factory(ctx)
	if err == nil && p == nil {
		err = provider.Errorf(provider.KindUnavailable, "no webln provider available")
	}
	c.observe("construct", start, err)
	if err != nil {
		return nil, newConstructionError(err)
	}

	c.provider = p
	return c, nil
}

// IsEnabled reports whether the provider is already enabled, without
// prompting. A provider error is reported as false.
func (c *Client) IsEnabled(ctx context.Context) bool {
	start := time.Now()
	enabled, err := c.provider.IsEnabled(ctx)
	c.observe("isEnabled", start, err)
	if err != nil {
		return false
	}
	return enabled
}

// Enable asks the provider for permission to use it. This may show a
// confirmation prompt to the user.
func (c *Client) Enable(ctx context.Context) error {
	start := time.Now()
	err := c.provider.Enable(ctx)
	c.observe("enable", start, err)
	if err != nil {
		return newEnableError(err)
	}
	return nil
}

// GetInfo returns information about the connected node and the WebLN
// methods it supports.
func (c *Client) GetInfo(ctx context.Context) (*GetInfoResponse, error) {
	start := time.Now()
	resp, err := c.provider.GetInfo(ctx)
	c.observe("getInfo", start, err)
	if err != nil {
		return nil, newGetInfoError(err)
	}
	return getInfoFromProvider(resp), nil
}

// Keysend requests a spontaneous payment that needs only a destination
// public key and an amount. args is not retained or modified.
func (c *Client) Keysend(ctx context.Context, args *KeysendArgs) (*SendPaymentResponse, error) {
	start := time.Now()
	resp, err := c.provider.Keysend(ctx, args.toProvider())
	c.observe("keysend", start, err)
	if err != nil {
		return nil, newPaymentError(err)
	}
	return sendPaymentFromProvider(resp), nil
}

// SendPayment requests that the user pays invoice. The invoice is passed
// to the provider verbatim.
func (c *Client) SendPayment(ctx context.Context, invoice string) (*SendPaymentResponse, error) {
	start := time.Now()
	resp, err := c.provider.SendPayment(ctx, invoice)
	c.observe("sendPayment", start, err)
	if err != nil {
		return nil, newPaymentError(err)
	}
	return sendPaymentFromProvider(resp), nil
}

// MakeInvoice requests a new invoice from the provider. Providers that
// cannot create invoices yield an *InvoiceError of kind KindUnsupported.
func (c *Client) MakeInvoice(ctx context.Context, args *RequestInvoiceArgs) (*RequestInvoiceResponse, error) {
	start := time.Now()
	maker, ok := c.provider.(provider.InvoiceMaker)
	if !ok {
		err := provider.Errorf(provider.KindUnsupported, "provider cannot make invoices")
		c.observe("makeInvoice", start, err)
		return nil, newInvoiceError(err)
	}

	resp, err := maker.MakeInvoice(ctx, args.toProvider())
	c.observe("makeInvoice", start, err)
	if err != nil {
		return nil, newInvoiceError(err)
	}
	return invoiceFromProvider(resp), nil
}

func (c *Client) observe(op string, start time.Time, err error) {
	elapsed := time.Since(start)
	labels := map[string]string{"outcome": "ok"}
	entry := c.log.WithFields(logrus.Fields{
		"operation": op,
		"elapsed":   elapsed,
	})

	if err != nil {
		kind := kindOf(err)
		labels["outcome"] = "error"
		labels["kind"] = kind.String()
		entry.WithField("kind", kind.String()).Debugf("webln %s failed: %s", op, translate(err))
	} else {
		entry.Debugf("webln %s done", op)
	}

	c.metrics.IncCounter(op, labels)
	c.metrics.ObserveLatency(op, elapsed, labels)
}
