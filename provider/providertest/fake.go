// Package providertest provides an in-memory provider.Provider for tests.
package providertest

import (
	"context"
	"sync"

	"github.com/lnbridge/go-webln/provider"
)

// Call records one invocation of a Fake method.
type Call struct {
	Method  string
	Keysend *provider.KeysendArgs
	Invoice string
	Request *provider.RequestInvoiceArgs
}

// Fake is a scriptable provider. Zero-valued function fields fall back to
// simple defaults: enabled after Enable, empty responses otherwise.
type Fake struct {
	IsEnabledFn   func(ctx context.Context) (bool, error)
	EnableFn      func(ctx context.Context) error
	GetInfoFn     func(ctx context.Context) (*provider.GetInfoResponse, error)
	KeysendFn     func(ctx context.Context, args *provider.KeysendArgs) (*provider.SendPaymentResponse, error)
	SendPaymentFn func(ctx context.Context, invoice string) (*provider.SendPaymentResponse, error)
	MakeInvoiceFn func(ctx context.Context, args *provider.RequestInvoiceArgs) (*provider.RequestInvoiceResponse, error)

	mu      sync.Mutex
	enabled bool
	calls   []Call
}

var (
	_ provider.Provider     = (*Fake)(nil)
	_ provider.InvoiceMaker = (*Fake)(nil)
)

// Factory returns a provider.Factory that always yields f.
func (f *Fake) Factory() provider.Factory {
	return func(context.Context) (provider.Provider, error) {
		return f, nil
	}
}

// FailingFactory returns a provider.Factory that always fails with err.
func FailingFactory(err error) provider.Factory {
	return func(context.Context) (provider.Provider, error) {
		return nil, err
	}
}

// Calls returns a copy of the recorded calls in invocation order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]Call, len(f.calls))
	copy(cp, f.calls)
	return cp
}

func (f *Fake) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *Fake) IsEnabled(ctx context.Context) (bool, error) {
	f.record(Call{Method: provider.MethodIsEnabled})
	if f.IsEnabledFn != nil {
		return f.IsEnabledFn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled, nil
}

func (f *Fake) Enable(ctx context.Context) error {
	f.record(Call{Method: provider.MethodEnable})
	if f.EnableFn != nil {
		if err := f.EnableFn(ctx); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.enabled = true
	f.mu.Unlock()
	return nil
}

func (f *Fake) GetInfo(ctx context.Context) (*provider.GetInfoResponse, error) {
	f.record(Call{Method: provider.MethodGetInfo})
	if f.GetInfoFn != nil {
		return f.GetInfoFn(ctx)
	}
	return &provider.GetInfoResponse{}, nil
}

func (f *Fake) Keysend(ctx context.Context, args *provider.KeysendArgs) (*provider.SendPaymentResponse, error) {
	f.record(Call{Method: provider.MethodKeysend, Keysend: args})
	if f.KeysendFn != nil {
		return f.KeysendFn(ctx, args)
	}
	return &provider.SendPaymentResponse{}, nil
}

func (f *Fake) SendPayment(ctx context.Context, invoice string) (*provider.SendPaymentResponse, error) {
	f.record(Call{Method: provider.MethodSendPayment, Invoice: invoice})
	if f.SendPaymentFn != nil {
		return f.SendPaymentFn(ctx, invoice)
	}
	return &provider.SendPaymentResponse{}, nil
}

func (f *Fake) MakeInvoice(ctx context.Context, args *provider.RequestInvoiceArgs) (*provider.RequestInvoiceResponse, error) {
	f.record(Call{Method: provider.MethodMakeInvoice, Request: args})
	if f.MakeInvoiceFn != nil {
		return f.MakeInvoiceFn(ctx, args)
	}
	return &provider.RequestInvoiceResponse{}, nil
}

// Basic hides the optional InvoiceMaker capability of a Fake.
type Basic struct {
	*Fake
}

// MakeInvoice shadows the embedded method so Basic does not satisfy
// provider.InvoiceMaker.
func (Basic) MakeInvoice() {}
