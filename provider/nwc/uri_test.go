package nwc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testWalletPubkey = "b889ff5b1513b641e2a139f661a661364979c5beee91842f8f0ef42ab558e9d4"
	testSecret       = "71a8c14c1407c113601079c4302dab36460f0ccd0ad506f1f2dc73b5100e4f3c"
)

func TestParseURI(t *testing.T) {
	raw := "nostr+walletconnect://" + testWalletPubkey +
		"?relay=wss%3A%2F%2Frelay.damus.io&relay=wss://nos.lol&secret=" + testSecret + "&lud16=alice@getalby.com"

	u, err := ParseURI(raw)
	require.NoError(t, err)
	require.Equal(t, testWalletPubkey, u.WalletPubkey)
	require.Equal(t, []string{"wss://relay.damus.io", "wss://nos.lol"}, u.Relays)
	require.Equal(t, testSecret, u.Secret)
	require.Equal(t, "alice@getalby.com", u.LUD16)

	again, err := ParseURI(u.String())
	require.NoError(t, err)
	require.Equal(t, u, again)
}

func TestParseURI_Variants(t *testing.T) {
	query := "?relay=wss://relay.test&secret=" + testSecret

	for _, raw := range []string{
		"nostrwalletconnect://" + testWalletPubkey + query,
		"NOSTR+WALLETCONNECT://" + strings.ToUpper(testWalletPubkey) + query,
		"nostr+walletconnect:" + testWalletPubkey + query,
	} {
		u, err := ParseURI(raw)
		require.NoError(t, err, raw)
		require.Equal(t, testWalletPubkey, u.WalletPubkey, raw)
	}
}

func TestParseURI_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"wrong scheme", "https://" + testWalletPubkey + "?relay=wss://r&secret=" + testSecret},
		{"short pubkey", "nostr+walletconnect://abcd?relay=wss://r&secret=" + testSecret},
		{"no relay", "nostr+walletconnect://" + testWalletPubkey + "?secret=" + testSecret},
		{"no secret", "nostr+walletconnect://" + testWalletPubkey + "?relay=wss://r"},
		{"bad secret", "nostr+walletconnect://" + testWalletPubkey + "?relay=wss://r&secret=zz"},
		{"garbage", "::::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURI(tt.raw)
			require.Error(t, err)
		})
	}
}
