// Package webln is a typed Go client for WebLN providers.
//
// A Client wraps one provider handle and exposes the WebLN operations as
// context-aware methods with Go types and Go errors:
//
//   - IsEnabled: check whether the provider is enabled, without prompting
//   - Enable: request permission to use the provider
//   - GetInfo: describe the connected node and supported methods
//   - Keysend / SendPayment: request payments
//   - MakeInvoice: request an invoice, when the provider can create one
//
// Providers live in the provider subpackages: jsprovider talks to
// window.webln from a WebAssembly build, wsbridge relays calls to a browser
// tab over a WebSocket, and nwc speaks Nostr Wallet Connect.
//
// Basic usage:
//
//	client, err := webln.NewClient(ctx, nwc.New(uri))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Enable(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.SendPayment(ctx, "lnbc1...")
//	if err != nil {
//	    var payErr *webln.PaymentError
//	    if errors.As(err, &payErr) && payErr.Kind == provider.KindUserRejected {
//	        // user said no
//	    }
//	}
//	fmt.Println(resp.Preimage)
package webln
