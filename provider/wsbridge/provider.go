package wsbridge

import (
	"context"
	"encoding/json"

	"github.com/lnbridge/go-webln/provider"
)

type bridgeProvider struct {
	t transport
}

var (
	_ provider.Provider     = (*bridgeProvider)(nil)
	_ provider.InvoiceMaker = (*bridgeProvider)(nil)
)

func (b *bridgeProvider) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	if err := b.do(ctx, provider.MethodIsEnabled, nil, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (b *bridgeProvider) Enable(ctx context.Context) error {
	return b.do(ctx, provider.MethodEnable, nil, nil)
}

func (b *bridgeProvider) GetInfo(ctx context.Context) (*provider.GetInfoResponse, error) {
	var resp provider.GetInfoResponse
	if err := b.do(ctx, provider.MethodGetInfo, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *bridgeProvider) Keysend(ctx context.Context, args *provider.KeysendArgs) (*provider.SendPaymentResponse, error) {
	var resp provider.SendPaymentResponse
	if err := b.do(ctx, provider.MethodKeysend, args, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *bridgeProvider) SendPayment(ctx context.Context, invoice string) (*provider.SendPaymentResponse, error) {
	var resp provider.SendPaymentResponse
	if err := b.do(ctx, provider.MethodSendPayment, invoice, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *bridgeProvider) MakeInvoice(ctx context.Context, args *provider.RequestInvoiceArgs) (*provider.RequestInvoiceResponse, error) {
	var resp provider.RequestInvoiceResponse
	if err := b.do(ctx, provider.MethodMakeInvoice, args, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do runs method on the tab and decodes its result into out, if non-nil.
func (b *bridgeProvider) do(ctx context.Context, method string, params, out any) error {
	raw, err := b.t.call(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 || string(raw) == "null" {
		if out != nil {
			return provider.Errorf(provider.KindMalformedResponse, "%s returned no result", method)
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return provider.Wrap(provider.KindMalformedResponse, err, "decode "+method+" result")
	}
	return nil
}
