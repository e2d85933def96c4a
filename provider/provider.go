// Package provider defines the WebLN capability consumed by the webln client.
//
// A Provider is whatever can answer WebLN calls in the current environment:
// the browser's window.webln, a relayed browser tab, a Nostr Wallet Connect
// wallet, or a test double. Implementations do the real protocol work; the
// client only forwards to them.
package provider

import "context"

// Provider is the capability handle. Implementations must be safe for
// concurrent use; ordering of requests, if the backend needs any, is their
// responsibility.
type Provider interface {
	// IsEnabled reports whether the provider is already enabled without
	// prompting the user.
	IsEnabled(ctx context.Context) (bool, error)

	// Enable asks the provider for permission to use it. May prompt.
	Enable(ctx context.Context) error

	// GetInfo describes the connected node and supported methods.
	GetInfo(ctx context.Context) (*GetInfoResponse, error)

	// Keysend requests a spontaneous payment to args.Destination.
	Keysend(ctx context.Context, args *KeysendArgs) (*SendPaymentResponse, error)

	// SendPayment requests payment of an encoded invoice.
	SendPayment(ctx context.Context, invoice string) (*SendPaymentResponse, error)
}

// Factory acquires a Provider. It fails when no compatible provider is
// available in the current environment.
type Factory func(ctx context.Context) (Provider, error)

// InvoiceMaker is implemented by providers that can create invoices.
type InvoiceMaker interface {
	MakeInvoice(ctx context.Context, args *RequestInvoiceArgs) (*RequestInvoiceResponse, error)
}
