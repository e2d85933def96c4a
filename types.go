package webln

import "github.com/lnbridge/go-webln/provider"

// NodeInfo identifies the node behind the provider.
type NodeInfo struct {
	Alias  string  `json:"alias"`
	Pubkey string  `json:"pubkey,omitempty"`
	Color  *string `json:"color,omitempty"` // nil when the provider did not report one
}

// GetInfoResponse describes the connected node and the WebLN methods the
// provider supports, in the order the provider reported them.
type GetInfoResponse struct {
	Node     NodeInfo `json:"node"`
	Methods  []string `json:"methods,omitempty"`
	Version  *string  `json:"version,omitempty"`
	Supports []string `json:"supports,omitempty"`
}

// KeysendArgs describes a spontaneous payment.
//
// Destination is the hex-encoded 33-byte node public key and Amount is in
// satoshis. Both are forwarded to the provider as given; the provider is the
// one that validates them.
type KeysendArgs struct {
	Destination   string            `json:"destination"`
	Amount        uint64            `json:"amount"`
	CustomRecords map[string]string `json:"customRecords,omitempty"`
}

// SendPaymentResponse is the proof of a completed payment.
type SendPaymentResponse struct {
	Preimage string `json:"preimage"`
}

// RequestInvoiceArgs describes the invoice to create. All fields are optional.
type RequestInvoiceArgs struct {
	Amount        *uint64 `json:"amount,omitempty"`
	DefaultAmount *uint64 `json:"defaultAmount,omitempty"`
	MinimumAmount *uint64 `json:"minimumAmount,omitempty"`
	MaximumAmount *uint64 `json:"maximumAmount,omitempty"`
	DefaultMemo   *string `json:"defaultMemo,omitempty"`
}

// RequestInvoiceResponse carries the encoded invoice.
type RequestInvoiceResponse struct {
	PaymentRequest string `json:"paymentRequest"`
}

func getInfoFromProvider(in *provider.GetInfoResponse) *GetInfoResponse {
	if in == nil {
		return &GetInfoResponse{}
	}
	return &GetInfoResponse{
		Node: NodeInfo{
			Alias:  in.Node.Alias,
			Pubkey: in.Node.Pubkey,
			Color:  copyPtr(in.Node.Color),
		},
		Methods:  copyStrings(in.Methods),
		Version:  copyPtr(in.Version),
		Supports: copyStrings(in.Supports),
	}
}

func sendPaymentFromProvider(in *provider.SendPaymentResponse) *SendPaymentResponse {
	if in == nil {
		return &SendPaymentResponse{}
	}
	return &SendPaymentResponse{Preimage: in.Preimage}
}

func invoiceFromProvider(in *provider.RequestInvoiceResponse) *RequestInvoiceResponse {
	if in == nil {
		return &RequestInvoiceResponse{}
	}
	return &RequestInvoiceResponse{PaymentRequest: in.PaymentRequest}
}

// toProvider returns an independent copy for the provider; the receiver is
// neither retained nor modified.
func (a *KeysendArgs) toProvider() *provider.KeysendArgs {
	if a == nil {
		return &provider.KeysendArgs{}
	}
	out := &provider.KeysendArgs{
		Destination: a.Destination,
		Amount:      a.Amount,
	}
	if a.CustomRecords != nil {
		out.CustomRecords = make(map[string]string, len(a.CustomRecords))
		for k, v := range a.CustomRecords {
			out.CustomRecords[k] = v
		}
	}
	return out
}

func (a *RequestInvoiceArgs) toProvider() *provider.RequestInvoiceArgs {
	if a == nil {
		return &provider.RequestInvoiceArgs{}
	}
	return &provider.RequestInvoiceArgs{
		Amount:        copyPtr(a.Amount),
		DefaultAmount: copyPtr(a.DefaultAmount),
		MinimumAmount: copyPtr(a.MinimumAmount),
		MaximumAmount: copyPtr(a.MaximumAmount),
		DefaultMemo:   copyPtr(a.DefaultMemo),
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// copyStrings keeps the nil/empty distinction of s.
func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
