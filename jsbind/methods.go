package jsbind

import (
	"context"
	"fmt"
	"sort"
	"sync"

	webln "github.com/lnbridge/go-webln"
	"github.com/lnbridge/go-webln/provider"
)

// methodFunc runs one instance method. rawArg is the JSON.stringify form of
// the first JavaScript argument, or "" when there was none.
type methodFunc func(ctx context.Context, c *webln.Client, rawArg string) (any, error)

type methodRegistry struct {
	mu      sync.RWMutex
	methods map[string]methodFunc // JS method name → implementation
}

func newMethodRegistry() *methodRegistry {
	return &methodRegistry{
		methods: make(map[string]methodFunc),
	}
}

func (r *methodRegistry) register(name string, fn methodFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.methods[name]; exists {
		return fmt.Errorf("method already registered: %q", name)
	}
	r.methods[name] = fn
	return nil
}

func (r *methodRegistry) lookup(name string) (methodFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.methods[name]
	return fn, ok
}

// names returns the registered method names, sorted.
func (r *methodRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultMethods is the instance surface of the JavaScript class.
func defaultMethods() *methodRegistry {
	r := newMethodRegistry()
	must := func(name string, fn methodFunc) {
		if err := r.register(name, fn); err != nil {
			panic(err)
		}
	}

	must(provider.MethodIsEnabled, func(ctx context.Context, c *webln.Client, _ string) (any, error) {
		return c.IsEnabled(ctx), nil
	})
	must(provider.MethodEnable, func(ctx context.Context, c *webln.Client, _ string) (any, error) {
		return nil, c.Enable(ctx)
	})
	must(provider.MethodGetInfo, func(ctx context.Context, c *webln.Client, _ string) (any, error) {
		return c.GetInfo(ctx)
	})
	must(provider.MethodKeysend, func(ctx context.Context, c *webln.Client, raw string) (any, error) {
		var args webln.KeysendArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, &webln.PaymentError{Kind: provider.KindInvalidRequest, Message: err.Error(), Err: err}
		}
		return c.Keysend(ctx, &args)
	})
	must(provider.MethodSendPayment, func(ctx context.Context, c *webln.Client, raw string) (any, error) {
		var invoice string
		if err := decodeArgs(raw, &invoice); err != nil {
			return nil, &webln.PaymentError{Kind: provider.KindInvalidRequest, Message: err.Error(), Err: err}
		}
		return c.SendPayment(ctx, invoice)
	})
	must(provider.MethodMakeInvoice, func(ctx context.Context, c *webln.Client, raw string) (any, error) {
		var args webln.RequestInvoiceArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, &webln.InvoiceError{Kind: provider.KindInvalidRequest, Message: err.Error(), Err: err}
		}
		return c.MakeInvoice(ctx, &args)
	})
	return r
}
