//go:build js && wasm

package jsprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/lnbridge/go-webln/provider"
)

type jsProvider struct {
	webln js.Value
}

var (
	_ provider.Provider     = (*jsProvider)(nil)
	_ provider.InvoiceMaker = (*jsProvider)(nil)
)

// New acquires window.webln. It fails with provider.KindUnavailable when the
// page has no WebLN provider. It has the provider.Factory signature.
func New(context.Context) (provider.Provider, error) {
	webln := js.Global().Get("webln")
	if webln.IsUndefined() || webln.IsNull() {
		return nil, provider.Errorf(provider.KindUnavailable, "window.webln is not defined")
	}
	return &jsProvider{webln: webln}, nil
}

func (p *jsProvider) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	if err := p.call(ctx, provider.MethodIsEnabled, nil, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (p *jsProvider) Enable(ctx context.Context) error {
	return p.call(ctx, provider.MethodEnable, nil, nil)
}

func (p *jsProvider) GetInfo(ctx context.Context) (*provider.GetInfoResponse, error) {
	var resp provider.GetInfoResponse
	if err := p.call(ctx, provider.MethodGetInfo, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *jsProvider) Keysend(ctx context.Context, args *provider.KeysendArgs) (*provider.SendPaymentResponse, error) {
	var resp provider.SendPaymentResponse
	if err := p.call(ctx, provider.MethodKeysend, args, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *jsProvider) SendPayment(ctx context.Context, invoice string) (*provider.SendPaymentResponse, error) {
	var resp provider.SendPaymentResponse
	if err := p.call(ctx, provider.MethodSendPayment, invoice, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *jsProvider) MakeInvoice(ctx context.Context, args *provider.RequestInvoiceArgs) (*provider.RequestInvoiceResponse, error) {
	var resp provider.RequestInvoiceResponse
	if err := p.call(ctx, provider.MethodMakeInvoice, args, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call invokes window.webln[method](arg), awaits the result and decodes it
// into out. A nil arg calls the method without arguments.
func (p *jsProvider) call(ctx context.Context, method string, arg, out any) error {
	if p.webln.Get(method).Type() != js.TypeFunction {
		return provider.Errorf(provider.KindUnsupported, "window.webln.%s is not a function", method)
	}

	var args []any
	if arg != nil {
		v, err := toJS(arg)
		if err != nil {
			return provider.Wrap(provider.KindInvalidRequest, err, "encode "+method+" arguments")
		}
		args = append(args, v)
	}

	result, err := invoke(p.webln, method, args)
	if err != nil {
		return err
	}
	value, err := await(ctx, result)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	text := stringify(value)
	if text == "" || text == "null" {
		return provider.Errorf(provider.KindMalformedResponse, "%s returned no value", method)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return provider.Wrap(provider.KindMalformedResponse, err, "decode "+method+" result")
	}
	return nil
}

// invoke calls a JS method, turning a synchronous JS exception into an error.
func invoke(obj js.Value, method string, args []any) (result js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = rejection(jsErr.Value)
				return
			}
			panic(r)
		}
	}()
	return obj.Call(method, args...), nil
}

// await waits for a thenable to settle. Plain values are returned as is.
func await(ctx context.Context, v js.Value) (js.Value, error) {
	if v.Type() != js.TypeObject || v.Get("then").Type() != js.TypeFunction {
		return v, nil
	}

	resolved := make(chan js.Value, 1)
	rejected := make(chan js.Value, 1)

	var onResolve, onReject js.Func
	var release sync.Once
	releaseAll := func() {
		release.Do(func() {
			onResolve.Release()
			onReject.Release()
		})
	}
	onResolve = js.FuncOf(func(this js.Value, args []js.Value) any {
		resolved <- firstArg(args)
		go releaseAll()
		return nil
	})
	onReject = js.FuncOf(func(this js.Value, args []js.Value) any {
		rejected <- firstArg(args)
		go releaseAll()
		return nil
	})
	v.Call("then", onResolve, onReject)

	select {
	case r := <-resolved:
		return r, nil
	case e := <-rejected:
		return js.Undefined(), rejection(e)
	case <-ctx.Done():
		// the callbacks stay registered until the promise settles
		return js.Undefined(), provider.Wrap(provider.KindOf(ctx.Err()), ctx.Err(), "waiting for window.webln")
	}
}

func firstArg(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

// rejection converts a JS rejection reason to a provider error.
func rejection(reason js.Value) error {
	msg := ""
	switch reason.Type() {
	case js.TypeString:
		msg = reason.String()
	case js.TypeObject:
		if m := reason.Get("message"); m.Type() == js.TypeString {
			msg = m.String()
		} else {
			msg = stringify(reason)
		}
	case js.TypeUndefined, js.TypeNull:
	default:
		msg = fmt.Sprint(reason)
	}
	if msg == "" {
		return provider.Errorf(provider.KindUnknown, "window.webln rejected without a reason")
	}
	return provider.Errorf(provider.ClassifyMessage(msg), "%s", msg)
}

func toJS(v any) (js.Value, error) {
	if s, ok := v.(string); ok {
		return js.ValueOf(s), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return js.Undefined(), err
	}
	return js.Global().Get("JSON").Call("parse", string(data)), nil
}

func stringify(v js.Value) string {
	if v.IsUndefined() {
		return ""
	}
	s := js.Global().Get("JSON").Call("stringify", v)
	if s.Type() != js.TypeString {
		return ""
	}
	return s.String()
}
