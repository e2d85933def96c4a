package nwc

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// URI is a parsed Nostr Wallet Connect connection string:
//
//	nostr+walletconnect://<wallet pubkey>?relay=wss://relay.example&secret=<hex>&lud16=alice@example.com
type URI struct {
	WalletPubkey string   // hex x-only public key of the wallet service
	Relays       []string // at least one
	Secret       string   // hex private key the client signs and encrypts with
	LUD16        string   // optional lightning address
}

var uriSchemes = []string{"nostr+walletconnect", "nostrwalletconnect"}

// ParseURI parses and validates a connection string.
func ParseURI(raw string) (*URI, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse nwc uri: %w", err)
	}

	schemeOK := false
	for _, s := range uriSchemes {
		if strings.EqualFold(u.Scheme, s) {
			schemeOK = true
			break
		}
	}
	if !schemeOK {
		return nil, fmt.Errorf("nwc uri: unsupported scheme %q", u.Scheme)
	}

	// "nostr+walletconnect:<pubkey>?..." has the pubkey in Opaque.
	pubkey := u.Host
	if pubkey == "" {
		pubkey = strings.TrimPrefix(u.Opaque, "//")
	}
	pubkey = strings.ToLower(pubkey)
	if !isHexKey(pubkey) {
		return nil, fmt.Errorf("nwc uri: wallet pubkey must be 64 hex characters")
	}

	q := u.Query()
	out := &URI{
		WalletPubkey: pubkey,
		Secret:       strings.ToLower(q.Get("secret")),
		LUD16:        q.Get("lud16"),
	}
	for _, r := range q["relay"] {
		if r = strings.TrimSpace(r); r != "" {
			out.Relays = append(out.Relays, r)
		}
	}

	if len(out.Relays) == 0 {
		return nil, fmt.Errorf("nwc uri: at least one relay is required")
	}
	if !isHexKey(out.Secret) {
		return nil, fmt.Errorf("nwc uri: secret must be 64 hex characters")
	}
	return out, nil
}

// String re-encodes the URI.
func (u *URI) String() string {
	q := url.Values{}
	for _, r := range u.Relays {
		q.Add("relay", r)
	}
	q.Set("secret", u.Secret)
	if u.LUD16 != "" {
		q.Set("lud16", u.LUD16)
	}
	return "nostr+walletconnect://" + u.WalletPubkey + "?" + q.Encode()
}

func isHexKey(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
