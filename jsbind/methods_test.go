package jsbind

import (
	"context"
	"errors"
	"testing"

	webln "github.com/lnbridge/go-webln"
	"github.com/lnbridge/go-webln/provider"
	"github.com/lnbridge/go-webln/provider/providertest"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, fake *providertest.Fake) *webln.Client {
	t.Helper()
	logger, _ := test.NewNullLogger()
	c, err := webln.NewClient(context.Background(), fake.Factory(), webln.WithLogger(logger))
	require.NoError(t, err)
	return c
}

func run(t *testing.T, c *webln.Client, method, raw string) (any, error) {
	t.Helper()
	fn, ok := defaultMethods().lookup(method)
	require.True(t, ok, "method %s not registered", method)
	return fn(context.Background(), c, raw)
}

func TestDefaultMethods_Names(t *testing.T) {
	require.Equal(t,
		[]string{"enable", "getInfo", "isEnabled", "keysend", "makeInvoice", "sendPayment"},
		defaultMethods().names())
}

func TestMethodRegistry_Duplicate(t *testing.T) {
	r := newMethodRegistry()
	noop := func(context.Context, *webln.Client, string) (any, error) { return nil, nil }
	require.NoError(t, r.register("ping", noop))
	require.Error(t, r.register("ping", noop))

	_, ok := r.lookup("pong")
	require.False(t, ok)
}

func TestMethods_Keysend(t *testing.T) {
	fake := &providertest.Fake{
		KeysendFn: func(_ context.Context, args *provider.KeysendArgs) (*provider.SendPaymentResponse, error) {
			return &provider.SendPaymentResponse{Preimage: "ab"}, nil
		},
	}
	c := newClient(t, fake)

	out, err := run(t, c, "keysend", `{"destination":"03ab","amount":1000,"customRecords":{"696969":"hi"}}`)
	require.NoError(t, err)

	exported, err := exportValue(out)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"preimage": "ab"}, exported)

	args := fake.Calls()[0].Keysend
	require.Equal(t, "03ab", args.Destination)
	require.Equal(t, uint64(1000), args.Amount)
	require.Equal(t, "hi", args.CustomRecords["696969"])
}

func TestMethods_KeysendBadArgs(t *testing.T) {
	fake := &providertest.Fake{}
	c := newClient(t, fake)

	_, err := run(t, c, "keysend", `{"amount":"lots"}`)
	info := errorInfo(err)
	require.Equal(t, "PaymentError", info.Name)
	require.Equal(t, "invalid_request", info.Kind)
	require.Empty(t, fake.Calls())
}

func TestMethods_SendPaymentWithoutArgument(t *testing.T) {
	fake := &providertest.Fake{}
	c := newClient(t, fake)

	_, err := run(t, c, "sendPayment", "undefined")
	require.NoError(t, err)
	require.Equal(t, "", fake.Calls()[0].Invoice)
}

func TestMethods_IsEnabledAndEnable(t *testing.T) {
	fake := &providertest.Fake{}
	c := newClient(t, fake)

	out, err := run(t, c, "isEnabled", "")
	require.NoError(t, err)
	require.Equal(t, false, out)

	out, err = run(t, c, "enable", "")
	require.NoError(t, err)
	require.Nil(t, out)

	out, err = run(t, c, "isEnabled", "")
	require.NoError(t, err)
	require.Equal(t, true, out)
}

func TestMethods_EnableRejected(t *testing.T) {
	fake := &providertest.Fake{
		EnableFn: func(context.Context) error {
			return provider.Errorf(provider.KindUserRejected, "User rejected")
		},
	}
	c := newClient(t, fake)

	_, err := run(t, c, "enable", "")
	require.Equal(t, jsErrorInfo{"EnableError", "user_rejected", "User rejected"}, errorInfo(err))
}

func TestMethods_GetInfoExport(t *testing.T) {
	version := "2.0"
	fake := &providertest.Fake{
		GetInfoFn: func(context.Context) (*provider.GetInfoResponse, error) {
			return &provider.GetInfoResponse{
				Node:    provider.Node{Alias: "alice"},
				Methods: []string{"getInfo", "keysend"},
				Version: &version,
			}, nil
		},
	}
	c := newClient(t, fake)

	out, err := run(t, c, "getInfo", "")
	require.NoError(t, err)
	exported, err := exportValue(out)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"node":    map[string]any{"alias": "alice"},
		"methods": []any{"getInfo", "keysend"},
		"version": "2.0",
	}, exported)
}

func TestMethods_MakeInvoice(t *testing.T) {
	fake := &providertest.Fake{
		MakeInvoiceFn: func(_ context.Context, args *provider.RequestInvoiceArgs) (*provider.RequestInvoiceResponse, error) {
			return &provider.RequestInvoiceResponse{PaymentRequest: "lnbc1"}, nil
		},
	}
	c := newClient(t, fake)

	_, err := run(t, c, "makeInvoice", `{"amount":21,"defaultMemo":"tip"}`)
	require.NoError(t, err)
	req := fake.Calls()[0].Request
	require.Equal(t, uint64(21), *req.Amount)
	require.Equal(t, "tip", *req.DefaultMemo)
	require.Nil(t, req.DefaultAmount)
}

func TestErrorInfo_Foreign(t *testing.T) {
	require.Equal(t, jsErrorInfo{"Error", "unknown", "boom"}, errorInfo(errors.New("boom")))
	require.Equal(t, jsErrorInfo{"Error", "unknown", "unknown error"}, errorInfo(nil))
	require.Equal(t, "timeout", errorInfo(context.DeadlineExceeded).Kind)
}

func TestDecodeArgs(t *testing.T) {
	var s string
	require.NoError(t, decodeArgs("null", &s))
	require.Equal(t, "", s)
	require.NoError(t, decodeArgs(`"lnbc1"`, &s))
	require.Equal(t, "lnbc1", s)

	err := decodeArgs("{", &s)
	require.Equal(t, provider.KindInvalidRequest, provider.KindOf(err))
}

func TestExportValue_Unsupported(t *testing.T) {
	_, err := exportValue(make(chan int))
	require.Error(t, err)

	v, err := exportValue(nil)
	require.NoError(t, err)
	require.Nil(t, v)
}
