package webln

import (
	"testing"

	"github.com/lnbridge/go-webln/provider"
	"github.com/stretchr/testify/require"
)

func TestGetInfoFromProvider(t *testing.T) {
	color := "#3399ff"
	version := "1.2.0"
	in := &provider.GetInfoResponse{
		Node: provider.Node{
			Alias:  "alice",
			Pubkey: testDestination,
			Color:  &color,
		},
		Methods:  []string{"getInfo", "keysend"},
		Version:  &version,
		Supports: []string{"lightning"},
	}

	out := getInfoFromProvider(in)
	require.Equal(t, "alice", out.Node.Alias)
	require.Equal(t, testDestination, out.Node.Pubkey)
	require.Equal(t, "#3399ff", *out.Node.Color)
	require.Equal(t, "1.2.0", *out.Version)
	require.Equal(t, []string{"getInfo", "keysend"}, out.Methods)
	require.Equal(t, []string{"lightning"}, out.Supports)

	// the result must not share storage with the provider's value
	in.Methods[0] = "changed"
	color = "changed"
	require.Equal(t, "getInfo", out.Methods[0])
	require.Equal(t, "#3399ff", *out.Node.Color)
}

func TestGetInfoFromProvider_Absent(t *testing.T) {
	out := getInfoFromProvider(&provider.GetInfoResponse{Methods: []string{}})
	require.Nil(t, out.Node.Color)
	require.Nil(t, out.Version)
	require.NotNil(t, out.Methods)
	require.Empty(t, out.Methods)
	require.Nil(t, out.Supports)

	require.Equal(t, &GetInfoResponse{}, getInfoFromProvider(nil))
}

func TestKeysendArgsToProvider(t *testing.T) {
	args := &KeysendArgs{Destination: testDestination, Amount: 1000}
	out := args.toProvider()
	require.Equal(t, testDestination, out.Destination)
	require.Equal(t, uint64(1000), out.Amount)
	require.Nil(t, out.CustomRecords)

	var nilArgs *KeysendArgs
	require.Equal(t, &provider.KeysendArgs{}, nilArgs.toProvider())
}

func TestRequestInvoiceArgsToProvider(t *testing.T) {
	amount := uint64(21)
	memo := "coffee"
	args := &RequestInvoiceArgs{Amount: &amount, DefaultMemo: &memo}

	out := args.toProvider()
	require.Equal(t, uint64(21), *out.Amount)
	require.Equal(t, "coffee", *out.DefaultMemo)
	require.Nil(t, out.MinimumAmount)

	amount = 42
	require.Equal(t, uint64(21), *out.Amount)
}

func TestResponsesFromProvider(t *testing.T) {
	require.Equal(t, "ab", sendPaymentFromProvider(&provider.SendPaymentResponse{Preimage: "ab"}).Preimage)
	require.Equal(t, &SendPaymentResponse{}, sendPaymentFromProvider(nil))
	require.Equal(t, "lnbc1", invoiceFromProvider(&provider.RequestInvoiceResponse{PaymentRequest: "lnbc1"}).PaymentRequest)
	require.Equal(t, &RequestInvoiceResponse{}, invoiceFromProvider(nil))
}
