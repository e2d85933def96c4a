package nwc

import (
	"math"
	"testing"

	"github.com/lnbridge/go-webln/provider"
	"github.com/stretchr/testify/require"
)

func TestResponseError_UnknownCodeIsClassified(t *testing.T) {
	err := (&responseError{Code: "SOMETHING_NEW", Message: "User rejected payment"}).toProviderError()
	require.Equal(t, provider.KindUserRejected, err.Kind)
	require.Equal(t, "User rejected payment (SOMETHING_NEW)", err.Error())

	err = (&responseError{Code: codeInsufficientBalance}).toProviderError()
	require.Equal(t, "insufficient balance (INSUFFICIENT_BALANCE)", err.Error())
}

func TestGetInfoResult_NoColor(t *testing.T) {
	info := (&getInfoResult{Alias: "w", Methods: []string{"get_balance"}}).toProvider()
	require.Nil(t, info.Node.Color)
	require.Equal(t, []string{"enable", "isEnabled"}, info.Methods)
	require.Equal(t, []string{"lightning"}, info.Supports)
}

func TestKeysendParams_ZeroAmount(t *testing.T) {
	p, err := keysendParams(&provider.KeysendArgs{Destination: "03ab"})
	require.NoError(t, err)
	require.Equal(t, uint64(0), p.Amount)
	require.Empty(t, p.TLVRecords)
}

func TestKeysendParams_AmountOverflow(t *testing.T) {
	_, err := keysendParams(&provider.KeysendArgs{Destination: "03ab", Amount: 18446744073709552})
	require.Equal(t, provider.KindInvalidRequest, provider.KindOf(err))

	p, err := keysendParams(&provider.KeysendArgs{Destination: "03ab", Amount: math.MaxUint64 / 1000})
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64/1000*1000), p.Amount)
}

func TestInvoiceParams_AmountOverflow(t *testing.T) {
	amount := uint64(math.MaxUint64)
	_, err := invoiceParams(&provider.RequestInvoiceArgs{Amount: &amount})
	require.Equal(t, provider.KindInvalidRequest, provider.KindOf(err))
}

func TestInvoiceParams_AmountWinsOverDefault(t *testing.T) {
	amount, def := uint64(10), uint64(20)
	p, err := invoiceParams(&provider.RequestInvoiceArgs{Amount: &amount, DefaultAmount: &def})
	require.NoError(t, err)
	require.Equal(t, uint64(10000), p.Amount)
	require.Empty(t, p.Description)
}
